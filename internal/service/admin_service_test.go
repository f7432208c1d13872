package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/util"
	"onlinecourse/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var staff = &domain.Identity{AccountID: "admin", Username: "admin", IsStaff: true}

type adminFixture struct {
	repos   AdminRepositories
	courses *MockCourseRepository
	lessons *MockLessonRepository
	quests  *MockQuestionRepository
	choices *MockChoiceRepository
	enrolls *MockEnrollmentRepository
	learner *MockLearnerRepository
	instr   *MockInstructorRepository
	account *MockAccountRepository
	media   *MockMediaStorage
	results *MockResultCacheService
	tx      *fakeTxManager
	svc     AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		courses: new(MockCourseRepository),
		lessons: new(MockLessonRepository),
		quests:  new(MockQuestionRepository),
		choices: new(MockChoiceRepository),
		enrolls: new(MockEnrollmentRepository),
		learner: new(MockLearnerRepository),
		instr:   new(MockInstructorRepository),
		account: new(MockAccountRepository),
		media:   new(MockMediaStorage),
		results: new(MockResultCacheService),
		tx:      &fakeTxManager{},
	}
	f.repos = AdminRepositories{
		Accounts:    f.account,
		Courses:     f.courses,
		Lessons:     f.lessons,
		Questions:   f.quests,
		Choices:     f.choices,
		Submissions: new(MockSubmissionRepository),
		Instructors: f.instr,
		Learners:    f.learner,
		Enrollments: f.enrolls,
	}
	f.svc = NewAdminService(f.repos, f.tx, f.media, f.results, validation.NewValidator())
	return f
}

func TestAdminService_RequiresStaff(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.GetCourse(context.Background(), nil, "c1")
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))

	_, err = f.svc.DeleteEnrollment(context.Background(), &domain.Identity{AccountID: "acc1"}, "e1")
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))

	_, err = f.svc.NewCourseForm(&domain.Identity{AccountID: "acc1"})
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))
	f.courses.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAdminService_BlankForms(t *testing.T) {
	f := newAdminFixture()

	course, err := f.svc.NewCourseForm(staff)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCourseName, course.Name)
	require.Len(t, course.Lessons, BlankLessonRows)
	assert.Equal(t, domain.DefaultLessonTitle, course.Lessons[0].Title)

	question, err := f.svc.NewQuestionForm(staff)
	require.NoError(t, err)
	require.NotNil(t, question.Grade)
	assert.Equal(t, domain.DefaultQuestionGrade, *question.Grade)
	assert.Len(t, question.Choices, BlankChoiceRows)
}

func TestAdminService_CreateCourse_SkipsBlankLessonRows(t *testing.T) {
	f := newAdminFixture()
	instructorID := util.NewULID()

	f.courses.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Course) bool {
		return c.Name == "Go 101" && c.PubDate != nil && c.PubDate.Format("2006-01-02") == "2024-05-01"
	})).Return(nil)
	f.instr.On("GetByID", mock.Anything, instructorID).Return(&domain.Instructor{ID: instructorID}, nil)
	f.courses.On("SetInstructors", mock.Anything, mock.Anything, []string{instructorID}).Return(nil)
	f.lessons.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Lesson) bool {
		return l.Title == "Basics" && l.Order == 1
	})).Return(nil).Once()
	f.courses.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Course{ID: "new", Name: "Go 101"}, nil)
	f.lessons.On("ListByCourse", mock.Anything, mock.Anything).Return([]domain.Lesson{{ID: "l1", Title: "Basics", Order: 1}}, nil)

	form, _ := f.svc.NewCourseForm(staff)
	form.Name = "Go 101"
	form.PubDate = "2024-05-01"
	form.InstructorIDs = []string{instructorID, instructorID}
	form.Lessons[1] = dto.LessonInline{Title: "Basics", Order: 1}

	out, err := f.svc.CreateCourse(context.Background(), staff, *form)
	require.NoError(t, err)
	assert.Equal(t, "Go 101", out.Name)
	assert.Len(t, out.Lessons, 1)
	assert.Equal(t, 1, f.tx.calls)
	f.lessons.AssertNumberOfCalls(t, "Create", 1)
	f.courses.AssertExpectations(t)
}

func TestAdminService_CreateCourse_Validation(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CreateCourse(context.Background(), staff, dto.CourseRequest{
		Name:    strings.Repeat("x", 31),
		PubDate: "yesterday",
		Lessons: []dto.LessonInline{{ID: "not-an-id"}},
	})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ByField()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "pub_date")
	assert.Contains(t, fields, "lessons[0].id")
	f.courses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminService_UpdateCourse_LessonFormset(t *testing.T) {
	f := newAdminFixture()
	courseID := util.NewULID()
	keepID, dropID := util.NewULID(), util.NewULID()

	f.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID, Name: "Old"}, nil)
	f.courses.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Course) bool { return c.Name == "New" })).Return(nil)
	f.lessons.On("GetByID", mock.Anything, keepID).Return(&domain.Lesson{ID: keepID, CourseID: courseID, Title: "A"}, nil)
	f.lessons.On("GetByID", mock.Anything, dropID).Return(&domain.Lesson{ID: dropID, CourseID: courseID, Title: "B"}, nil)
	f.lessons.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Lesson) bool {
		return l.ID == keepID && l.Title == "A2" && l.Order == 2
	})).Return(nil)
	f.lessons.On("Delete", mock.Anything, dropID).Return(true, nil)
	f.lessons.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Lesson) bool {
		return l.CourseID == courseID && l.Title == domain.DefaultLessonTitle && l.Content == "body"
	})).Return(nil)
	f.lessons.On("ListByCourse", mock.Anything, courseID).Return([]domain.Lesson{}, nil)

	_, err := f.svc.UpdateCourse(context.Background(), staff, courseID, dto.CourseRequest{
		Name: "New",
		Lessons: []dto.LessonInline{
			{ID: keepID, Title: "A2", Order: 2},
			{ID: dropID, Delete: true},
			{Title: "", Content: "body"},
			{Title: "title"},
		},
	})
	require.NoError(t, err)
	f.lessons.AssertExpectations(t)
	f.lessons.AssertNumberOfCalls(t, "Create", 1)
	f.courses.AssertNotCalled(t, "SetInstructors", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_UpdateCourse_RejectsForeignLesson(t *testing.T) {
	f := newAdminFixture()
	courseID, lessonID := util.NewULID(), util.NewULID()

	f.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID}, nil)
	f.courses.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.lessons.On("GetByID", mock.Anything, lessonID).Return(&domain.Lesson{ID: lessonID, CourseID: "elsewhere"}, nil)

	_, err := f.svc.UpdateCourse(context.Background(), staff, courseID, dto.CourseRequest{
		Name:    "Go",
		Lessons: []dto.LessonInline{{ID: lessonID, Title: "x"}},
	})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "lessons[0].id", verrs[0].Field)
	f.lessons.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminService_UpdateCourse_NotFound(t *testing.T) {
	f := newAdminFixture()
	courseID := util.NewULID()
	f.courses.On("GetByID", mock.Anything, courseID).Return(nil, nil)

	_, err := f.svc.UpdateCourse(context.Background(), staff, courseID, dto.CourseRequest{Name: "Go"})
	assert.True(t, domain.HasCode(err, domain.CodeCourseNotFound))
}

func TestAdminService_UpdateQuestion_ChoicesAndInvalidation(t *testing.T) {
	f := newAdminFixture()
	courseID, questionID, choiceID := util.NewULID(), util.NewULID(), util.NewULID()

	f.quests.On("GetByID", mock.Anything, questionID).Return(&domain.Question{ID: questionID, CourseID: courseID, Text: "Q", Grade: 50}, nil)
	f.quests.On("Update", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
		return q.Text == "Which?" && q.Grade == domain.DefaultQuestionGrade
	})).Return(nil)
	f.choices.On("GetByID", mock.Anything, choiceID).Return(&domain.Choice{ID: choiceID, QuestionID: questionID, Text: "old"}, nil)
	f.choices.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Choice) bool {
		return c.Text == "new" && c.IsCorrect
	})).Return(nil)
	f.choices.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Choice) bool {
		return c.QuestionID == questionID && c.Text == "other" && !c.IsCorrect
	})).Return(nil)
	f.results.On("InvalidateCourse", mock.Anything, courseID).Return(nil)

	_, err := f.svc.UpdateQuestion(context.Background(), staff, questionID, dto.QuestionRequest{
		CourseID: courseID,
		Text:     "Which?",
		Choices: []dto.ChoiceInline{
			{ID: choiceID, Text: "new", IsCorrect: true},
			{Text: "other"},
			{},
		},
	})
	require.NoError(t, err)
	f.choices.AssertExpectations(t)
	f.results.AssertExpectations(t)
}

func TestAdminService_CreateQuestion_ChoiceNeedsText(t *testing.T) {
	f := newAdminFixture()
	courseID := util.NewULID()
	f.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{ID: courseID}, nil)
	f.quests.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.CreateQuestion(context.Background(), staff, dto.QuestionRequest{
		CourseID: courseID,
		Text:     "Which?",
		Choices:  []dto.ChoiceInline{{IsCorrect: true}},
	})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "choices[0].text", verrs[0].Field)
	f.results.AssertNotCalled(t, "InvalidateCourse", mock.Anything, mock.Anything)
}

func TestAdminService_DeleteChoice_InvalidatesCourse(t *testing.T) {
	f := newAdminFixture()
	f.choices.On("GetByID", mock.Anything, "ch1").Return(&domain.Choice{ID: "ch1", QuestionID: "q1"}, nil)
	f.quests.On("GetByID", mock.Anything, "q1").Return(&domain.Question{ID: "q1", CourseID: "course1"}, nil)
	f.choices.On("Delete", mock.Anything, "ch1").Return(true, nil)
	f.results.On("InvalidateCourse", mock.Anything, "course1").Return(errors.New("redis down"))

	deleted, err := f.svc.DeleteChoice(context.Background(), staff, "ch1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAdminService_DeleteEnrollment(t *testing.T) {
	t.Run("DecrementsCounter", func(t *testing.T) {
		f := newAdminFixture()
		f.enrolls.On("GetByID", mock.Anything, "e1").Return(&domain.Enrollment{ID: "e1", CourseID: "course1"}, nil)
		f.enrolls.On("Delete", mock.Anything, "e1").Return(true, nil)
		f.courses.On("DecrementEnrollment", mock.Anything, "course1").Return(nil)

		deleted, err := f.svc.DeleteEnrollment(context.Background(), staff, "e1")
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, 1, f.tx.calls)
		f.courses.AssertExpectations(t)
	})

	t.Run("Missing", func(t *testing.T) {
		f := newAdminFixture()
		f.enrolls.On("GetByID", mock.Anything, "e1").Return(nil, nil)

		deleted, err := f.svc.DeleteEnrollment(context.Background(), staff, "e1")
		require.NoError(t, err)
		assert.False(t, deleted)
		f.courses.AssertNotCalled(t, "DecrementEnrollment", mock.Anything, mock.Anything)
	})
}

func TestAdminService_UploadCourseImage(t *testing.T) {
	t.Run("RejectsNonImage", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.UploadCourseImage(context.Background(), staff, "c1", ImageUpload{Filename: "notes.txt", Reader: strings.NewReader("x")})
		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "image", verrs[0].Field)
		f.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ReplacesOldImage", func(t *testing.T) {
		f := newAdminFixture()
		f.courses.On("GetByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1", ImagePath: "course_images/old.png"}, nil)
		f.media.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "course_images/") && strings.HasSuffix(key, ".png")
		}), mock.Anything, int64(3), "image/png").Return(nil)
		f.courses.On("UpdateImage", mock.Anything, "c1", mock.Anything).Return(nil)
		f.media.On("Delete", mock.Anything, "course_images/old.png").Return(nil)
		f.media.On("URL", mock.Anything).Return("/media/x.png")
		f.lessons.On("ListByCourse", mock.Anything, "c1").Return([]domain.Lesson{}, nil)

		_, err := f.svc.UploadCourseImage(context.Background(), staff, "c1", ImageUpload{
			Filename: "Logo.PNG", ContentType: "image/png", Size: 3, Reader: strings.NewReader("png"),
		})
		require.NoError(t, err)
		f.media.AssertExpectations(t)
	})

	t.Run("RemovesUploadWhenUpdateFails", func(t *testing.T) {
		f := newAdminFixture()
		f.courses.On("GetByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1"}, nil)
		f.media.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.courses.On("UpdateImage", mock.Anything, "c1", mock.Anything).Return(errors.New("db down"))
		f.media.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.svc.UploadCourseImage(context.Background(), staff, "c1", ImageUpload{Filename: "a.jpg", Reader: strings.NewReader("jpg")})
		assert.True(t, domain.HasCode(err, domain.CodeInternal))
		f.media.AssertExpectations(t)
	})
}

func TestAdminService_Profiles(t *testing.T) {
	accountID := util.NewULID()

	t.Run("InstructorDefaultsToFullTime", func(t *testing.T) {
		f := newAdminFixture()
		f.account.On("GetByID", mock.Anything, accountID).Return(&domain.Account{ID: accountID, Username: "rob"}, nil)
		f.instr.On("Create", mock.Anything, mock.MatchedBy(func(in *domain.Instructor) bool { return in.FullTime })).Return(nil)
		f.instr.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Instructor{ID: "i1", AccountID: accountID, Username: "rob", FullTime: true}, nil)

		out, err := f.svc.CreateInstructor(context.Background(), staff, dto.InstructorRequest{AccountID: accountID})
		require.NoError(t, err)
		assert.Equal(t, "rob", out.Username)
		assert.True(t, out.FullTime)
	})

	t.Run("LearnerUnknownAccount", func(t *testing.T) {
		f := newAdminFixture()
		f.account.On("GetByID", mock.Anything, accountID).Return(nil, nil)

		_, err := f.svc.CreateLearner(context.Background(), staff, dto.LearnerRequest{AccountID: accountID})
		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "account_id", verrs[0].Field)
	})

	t.Run("LearnerBadOccupation", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.CreateLearner(context.Background(), staff, dto.LearnerRequest{AccountID: accountID, Occupation: "pilot"})
		var verrs domain.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ByField(), "occupation")
	})

	t.Run("LearnerDefaultsToStudent", func(t *testing.T) {
		f := newAdminFixture()
		f.account.On("GetByID", mock.Anything, accountID).Return(&domain.Account{ID: accountID}, nil)
		f.learner.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Learner) bool {
			return l.Occupation == domain.OccupationStudent
		})).Return(nil)
		f.learner.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Learner{ID: "l1", AccountID: accountID, Occupation: domain.OccupationStudent}, nil)

		out, err := f.svc.CreateLearner(context.Background(), staff, dto.LearnerRequest{AccountID: accountID})
		require.NoError(t, err)
		assert.Equal(t, "student", out.Occupation)
	})
}

func TestAdminService_ListCourses(t *testing.T) {
	f := newAdminFixture()
	page := domain.NewPage(2, 10)
	f.courses.On("List", mock.Anything, mock.MatchedBy(func(filter domain.CourseFilter) bool {
		return filter.Search == "go" && filter.PubDate == nil
	}), page).Return([]domain.Course{{ID: "c1", Name: "Go"}}, 11, nil)

	out, err := f.svc.ListCourses(context.Background(), staff, CourseListQuery{Search: "go"}, page)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, dto.PageInfo{Page: 2, PageSize: 10, Total: 11}, out.Pagination)
	assert.Equal(t, []string{}, out.Items[0].InstructorIDs)

	_, err = f.svc.ListCourses(context.Background(), staff, CourseListQuery{PubDate: "05/01/2024"}, page)
	var verrs domain.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
