package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"onlinecourse/internal/domain"
	"onlinecourse/internal/dto"
	"onlinecourse/internal/middleware"
	"onlinecourse/internal/service"
	"onlinecourse/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiRequest(method, target, token string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+token)
	}
	return req
}

func TestAdminHandler_Access(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   domain.ErrorCode
	}{
		{name: "Anonymous", wantStatus: http.StatusUnauthorized, wantCode: domain.CodeUnauthorized},
		{name: "Learner", token: learnerToken, wantStatus: http.StatusForbidden, wantCode: domain.CodeForbidden},
		{name: "Unknown token", token: "forged", wantStatus: http.StatusUnauthorized, wantCode: domain.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(newServices())

			resp, err := app.Test(apiRequest(http.MethodGet, "/admin/api/courses", tt.token, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var errResp middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, string(tt.wantCode), errResp.Code)
		})
	}
}

func TestAdminHandler_ListCourses(t *testing.T) {
	t.Run("Passes filters and page", func(t *testing.T) {
		s := newServices()
		s.admin.ListCoursesFunc = func(ctx context.Context, actor *domain.Identity, query service.CourseListQuery, page domain.Page) (*dto.ListResponse[dto.CourseAdmin], error) {
			assert.Equal(t, staff, actor)
			assert.Equal(t, "go", query.Search)
			assert.Equal(t, "2024-01-02", query.PubDate)
			assert.Equal(t, domain.Page{Number: 2, Size: 5}, page)
			return &dto.ListResponse[dto.CourseAdmin]{
				Items:      []dto.CourseAdmin{{ID: "c1", Name: "Intro to Go"}},
				Pagination: dto.PageInfo{Page: 2, PageSize: 5, Total: 6},
			}, nil
		}
		app := setupApp(s)

		resp, err := app.Test(apiRequest(http.MethodGet, "/admin/api/courses?search=go&pub_date=2024-01-02&page=2&page_size=5", staffToken, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.ListResponse[dto.CourseAdmin]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out.Items, 1)
		assert.Equal(t, "Intro to Go", out.Items[0].Name)
		assert.Equal(t, 6, out.Pagination.Total)
	})

	t.Run("Oversized page is rejected", func(t *testing.T) {
		app := setupApp(newServices())

		resp, err := app.Test(apiRequest(http.MethodGet, "/admin/api/courses?page_size=500", staffToken, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		require.NotEmpty(t, errResp.Errors)
		assert.Equal(t, "page_size", errResp.Errors[0].Field)
	})
}

func TestAdminHandler_CreateCourse(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		s := newServices()
		s.admin.CreateCourseFunc = func(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error) {
			assert.Equal(t, "Intro to Go", req.Name)
			require.Len(t, req.Lessons, 2)
			assert.True(t, req.Lessons[1].Delete)
			return &dto.CourseAdmin{ID: "c1", Name: req.Name}, nil
		}
		app := setupApp(s)

		body := dto.CourseRequest{
			Name:    "Intro to Go",
			Lessons: []dto.LessonInline{{Title: "Basics"}, {ID: util.NewULID(), Delete: true}},
		}
		resp, err := app.Test(apiRequest(http.MethodPost, "/admin/api/courses", staffToken, body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Malformed body", func(t *testing.T) {
		app := setupApp(newServices())

		req := httptest.NewRequest(http.MethodPost, "/admin/api/courses", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+staffToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Field errors", func(t *testing.T) {
		s := newServices()
		s.admin.CreateCourseFunc = func(ctx context.Context, actor *domain.Identity, req dto.CourseRequest) (*dto.CourseAdmin, error) {
			return nil, domain.ValidationErrors{{Field: "lessons[0].id", Message: "lesson does not belong to this course"}}
		}
		app := setupApp(s)

		resp, err := app.Test(apiRequest(http.MethodPost, "/admin/api/courses", staffToken, dto.CourseRequest{Name: "x"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		require.Len(t, errResp.Errors, 1)
		assert.Equal(t, "lessons[0].id", errResp.Errors[0].Field)
	})
}

func TestAdminHandler_Delete(t *testing.T) {
	id := util.NewULID()

	tests := []struct {
		name       string
		target     string
		setup      func(s *testServices)
		wantStatus int
	}{
		{
			name:   "Question deleted",
			target: "/admin/api/questions/" + id,
			setup: func(s *testServices) {
				s.admin.DeleteQuestionFunc = func(ctx context.Context, actor *domain.Identity, qid string) (bool, error) {
					assert.Equal(t, id, qid)
					return true, nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "Enrollment missing",
			target: "/admin/api/enrollments/" + id,
			setup: func(s *testServices) {
				s.admin.DeleteEnrollmentFunc = func(ctx context.Context, actor *domain.Identity, eid string) (bool, error) {
					return false, nil
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Malformed id",
			target:     "/admin/api/questions/nope",
			setup:      func(s *testServices) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServices()
			tt.setup(s)
			app := setupApp(s)

			resp, err := app.Test(apiRequest(http.MethodDelete, tt.target, staffToken, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				var out dto.DeleteResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
				assert.True(t, out.Deleted)
			}
		})
	}
}

func TestAdminHandler_UploadCourseImage(t *testing.T) {
	courseID := util.NewULID()

	newUpload := func(t *testing.T, field string) *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="cover.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/admin/api/courses/"+courseID+"/image", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+staffToken)
		return req
	}

	t.Run("Uploaded", func(t *testing.T) {
		s := newServices()
		s.admin.UploadCourseImageFn = func(ctx context.Context, actor *domain.Identity, id string, upload service.ImageUpload) (*dto.CourseAdmin, error) {
			assert.Equal(t, courseID, id)
			assert.Equal(t, "cover.png", upload.Filename)
			assert.Equal(t, "image/png", upload.ContentType)
			assert.Equal(t, int64(4), upload.Size)
			data, err := io.ReadAll(upload.Reader)
			require.NoError(t, err)
			assert.Equal(t, "\x89PNG", string(data))
			return &dto.CourseAdmin{ID: id, ImagePath: "course_images/x.png", ImageURL: "/media/course_images/x.png"}, nil
		}
		app := setupApp(s)

		resp, err := app.Test(newUpload(t, "image"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.CourseAdmin
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "/media/course_images/x.png", out.ImageURL)
	})

	t.Run("Missing file field", func(t *testing.T) {
		app := setupApp(newServices())

		resp, err := app.Test(newUpload(t, "attachment"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
