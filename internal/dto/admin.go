package dto

import "time"

// PageQuery carries the pagination parameters of admin list endpoints.
type PageQuery struct {
	Page     int `query:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" json:"page_size" validate:"omitempty,min=1,max=100"`
}

type PageInfo struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// ListResponse wraps one page of an admin listing.
type ListResponse[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// DeleteResponse reports whether a row was removed.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// LessonInline is one row of the lesson editor embedded in a course form.
// Rows with an id update that lesson, rows without one are inserted, and
// Delete removes the identified lesson. Untouched new rows are ignored.
type LessonInline struct {
	ID      string `json:"id,omitempty" validate:"omitempty,ulid"`
	Title   string `json:"title" validate:"max=200"`
	Order   int    `json:"order" validate:"min=0"`
	Content string `json:"content"`
	Delete  bool   `json:"delete,omitempty"`
}

// CourseRequest creates or updates a course with its inline lessons.
type CourseRequest struct {
	Name          string         `json:"name" validate:"max=30"`
	Description   string         `json:"description" validate:"max=1000"`
	PubDate       string         `json:"pub_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InstructorIDs []string       `json:"instructor_ids,omitempty" validate:"omitempty,dive,ulid"`
	Lessons       []LessonInline `json:"lessons,omitempty" validate:"omitempty,dive"`
}

type CourseAdmin struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	ImagePath       string        `json:"image_path,omitempty"`
	ImageURL        string        `json:"image_url,omitempty"`
	PubDate         *time.Time    `json:"pub_date,omitempty"`
	TotalEnrollment int           `json:"total_enrollment"`
	InstructorIDs   []string      `json:"instructor_ids"`
	Lessons         []LessonAdmin `json:"lessons,omitempty"`
}

type LessonRequest struct {
	CourseID string `json:"course_id" validate:"required,ulid"`
	Title    string `json:"title" validate:"max=200"`
	Order    int    `json:"order" validate:"min=0"`
	Content  string `json:"content"`
}

type LessonAdmin struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Content  string `json:"content"`
}

// ChoiceInline is one row of the choice editor embedded in a question form.
// It follows the same rules as LessonInline.
type ChoiceInline struct {
	ID        string `json:"id,omitempty" validate:"omitempty,ulid"`
	Text      string `json:"text" validate:"max=200"`
	IsCorrect bool   `json:"is_correct"`
	Delete    bool   `json:"delete,omitempty"`
}

// QuestionRequest creates or updates a question with its inline choices.
type QuestionRequest struct {
	CourseID string         `json:"course_id" validate:"required,ulid"`
	Text     string         `json:"text" validate:"required,max=200"`
	Grade    *int           `json:"grade,omitempty" validate:"omitempty,min=0"`
	Choices  []ChoiceInline `json:"choices,omitempty" validate:"omitempty,dive"`
}

type QuestionAdmin struct {
	ID       string        `json:"id"`
	CourseID string        `json:"course_id"`
	Text     string        `json:"text"`
	Grade    int           `json:"grade"`
	Choices  []ChoiceAdmin `json:"choices,omitempty"`
}

type ChoiceRequest struct {
	QuestionID string `json:"question_id" validate:"required,ulid"`
	Text       string `json:"text" validate:"required,max=200"`
	IsCorrect  bool   `json:"is_correct"`
}

type ChoiceAdmin struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

type SubmissionAdmin struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollment_id"`
	ChoiceIDs    []string  `json:"choice_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type InstructorRequest struct {
	AccountID     string `json:"account_id" validate:"required,ulid"`
	FullTime      *bool  `json:"full_time,omitempty"`
	TotalLearners int    `json:"total_learners" validate:"min=0"`
}

type InstructorAdmin struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Username      string `json:"username"`
	FullTime      bool   `json:"full_time"`
	TotalLearners int    `json:"total_learners"`
}

type LearnerRequest struct {
	AccountID  string `json:"account_id" validate:"required,ulid"`
	Occupation string `json:"occupation,omitempty" validate:"omitempty,occupation"`
	SocialLink string `json:"social_link,omitempty" validate:"omitempty,url,max=200"`
}

type LearnerAdmin struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	Username   string `json:"username"`
	Occupation string `json:"occupation"`
	SocialLink string `json:"social_link,omitempty"`
}

type EnrollmentAdmin struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	CourseID     string    `json:"course_id"`
	DateEnrolled time.Time `json:"date_enrolled"`
	Mode         string    `json:"mode"`
	Rating       float64   `json:"rating"`
}
