package dto

import "time"

// CourseListItem is one card on the course listing page.
type CourseListItem struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url,omitempty"`
	PubDate         *time.Time `json:"pub_date,omitempty"`
	TotalEnrollment int        `json:"total_enrollment"`
	IsEnrolled      bool       `json:"is_enrolled"`
}

type LessonView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
	Content string `json:"content"`
}

type InstructorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullTime bool   `json:"full_time"`
}

// ChoiceView never exposes correctness to learners.
type ChoiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Grade   int          `json:"grade"`
	Choices []ChoiceView `json:"choices"`
}

// CourseDetail backs the course page with its lessons and exam.
type CourseDetail struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	ImageURL        string           `json:"image_url,omitempty"`
	PubDate         *time.Time       `json:"pub_date,omitempty"`
	TotalEnrollment int              `json:"total_enrollment"`
	IsEnrolled      bool             `json:"is_enrolled"`
	Instructors     []InstructorView `json:"instructors"`
	Lessons         []LessonView     `json:"lessons"`
	Questions       []QuestionView   `json:"questions"`
}
