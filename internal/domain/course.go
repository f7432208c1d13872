package domain

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultCourseName    = "online course"
	DefaultLessonTitle   = "title"
	DefaultQuestionGrade = 50
	CourseImageDir       = "course_images"
)

// Course is a published course with lessons and an exam.
type Course struct {
	ID              string
	Name            string
	ImagePath       string
	Description     string
	PubDate         *time.Time
	TotalEnrollment int
	InstructorIDs   []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCourse creates a new Course instance
func NewCourse(name, description string) *Course {
	now := time.Now()
	if strings.TrimSpace(name) == "" {
		name = DefaultCourseName
	}
	return &Course{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Lesson is one content unit of a course.
type Lesson struct {
	ID       string
	CourseID string
	Title    string
	Order    int
	Content  string
}

// Question is a gradable exam question worth Grade points.
type Question struct {
	ID       string
	CourseID string
	Text     string
	Grade    int
	Choices  []Choice
}

// Choice is an answer option of a question.
type Choice struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
}

// CourseFilter narrows the admin course listing.
type CourseFilter struct {
	Search  string
	PubDate *time.Time
}

// CourseRepository defines the interface for course persistence.
type CourseRepository interface {
	ListTop(ctx context.Context, limit int) ([]Course, error)
	List(ctx context.Context, filter CourseFilter, page Page) ([]Course, int, error)
	GetByID(ctx context.Context, id string) (*Course, error)
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	UpdateImage(ctx context.Context, id, imagePath string) error
	Delete(ctx context.Context, id string) (bool, error)
	SetInstructors(ctx context.Context, courseID string, instructorIDs []string) error
	IncrementEnrollment(ctx context.Context, id string) error
	DecrementEnrollment(ctx context.Context, id string) error
}

// LessonRepository defines the interface for lesson persistence.
type LessonRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]Lesson, error)
	List(ctx context.Context, courseID string, page Page) ([]Lesson, int, error)
	GetByID(ctx context.Context, id string) (*Lesson, error)
	Create(ctx context.Context, lesson *Lesson) error
	Update(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id string) (bool, error)
}

// QuestionRepository defines the interface for question persistence.
// Lookups by course and by id return questions with their choices loaded.
type QuestionRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]Question, error)
	List(ctx context.Context, courseID string, page Page) ([]Question, int, error)
	GetByID(ctx context.Context, id string) (*Question, error)
	Create(ctx context.Context, question *Question) error
	Update(ctx context.Context, question *Question) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ChoiceRepository defines the interface for choice persistence.
type ChoiceRepository interface {
	List(ctx context.Context, questionID string, page Page) ([]Choice, int, error)
	GetByID(ctx context.Context, id string) (*Choice, error)
	Create(ctx context.Context, choice *Choice) error
	Update(ctx context.Context, choice *Choice) error
	Delete(ctx context.Context, id string) (bool, error)
}
