package models

import (
	"database/sql"
	"time"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/util"
)

// Course represents a row of the courses table.
type Course struct {
	ID              string         `db:"ID"`
	Name            string         `db:"NAME"`
	ImagePath       sql.NullString `db:"IMAGE_PATH"`
	Description     sql.NullString `db:"DESCRIPTION"`
	PubDate         sql.NullTime   `db:"PUB_DATE"`
	TotalEnrollment int            `db:"TOTAL_ENROLLMENT"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}

func (m *Course) ToDomain() *domain.Course {
	return &domain.Course{
		ID:              m.ID,
		Name:            m.Name,
		ImagePath:       m.ImagePath.String,
		Description:     m.Description.String,
		PubDate:         util.NullTimeToPtr(m.PubDate),
		TotalEnrollment: m.TotalEnrollment,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func CourseFromDomain(c *domain.Course) *Course {
	return &Course{
		ID:              c.ID,
		Name:            c.Name,
		ImagePath:       util.StringToNullString(c.ImagePath),
		Description:     util.StringToNullString(c.Description),
		PubDate:         util.TimePtrToNullTime(c.PubDate),
		TotalEnrollment: c.TotalEnrollment,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// Lesson represents a row of the lessons table.
type Lesson struct {
	ID          string         `db:"ID"`
	CourseID    string         `db:"COURSE_ID"`
	Title       string         `db:"TITLE"`
	LessonOrder int            `db:"LESSON_ORDER"`
	Content     sql.NullString `db:"CONTENT"`
}

func (m *Lesson) ToDomain() domain.Lesson {
	return domain.Lesson{
		ID:       m.ID,
		CourseID: m.CourseID,
		Title:    m.Title,
		Order:    m.LessonOrder,
		Content:  m.Content.String,
	}
}

// Question represents a row of the questions table.
type Question struct {
	ID           string `db:"ID"`
	CourseID     string `db:"COURSE_ID"`
	QuestionText string `db:"QUESTION_TEXT"`
	Grade        int    `db:"GRADE"`
}

func (m *Question) ToDomain() domain.Question {
	return domain.Question{
		ID:       m.ID,
		CourseID: m.CourseID,
		Text:     m.QuestionText,
		Grade:    m.Grade,
	}
}

// Choice represents a row of the choices table.
type Choice struct {
	ID         string `db:"ID"`
	QuestionID string `db:"QUESTION_ID"`
	ChoiceText string `db:"CHOICE_TEXT"`
	IsCorrect  bool   `db:"IS_CORRECT"`
}

func (m *Choice) ToDomain() domain.Choice {
	return domain.Choice{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Text:       m.ChoiceText,
		IsCorrect:  m.IsCorrect,
	}
}
