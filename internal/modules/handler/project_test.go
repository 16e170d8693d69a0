package handler

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// uploadBody builds a multipart body. An empty filename omits the file part.
func uploadBody(t *testing.T, projectName, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("projectName", projectName))
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decode(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, sonic.Unmarshal(b, &out))
	return out
}

func TestProjectHandler_Upload(t *testing.T) {
	created := &service.CreateOutput{ID: 7, Slug: "0123456789ab", Name: "demo", URL: "/projects/0123456789ab/"}

	tests := []struct {
		name           string
		filename       string
		content        string
		setup          func(*MockProjectService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:     "successful upload",
			filename: "demo.html",
			content:  "<p>012</p>",
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, "demo", mock.MatchedBy(func(f *service.UploadedFile) bool {
					return f.Name == "demo.html" && f.Size == 10 && f.Body != nil
				})).Return(created, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing file is passed on as nil",
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, "demo", (*service.UploadedFile)(nil)).
					Return(nil, &service.Error{Kind: service.KindInvalidInput, Msg: "no file selected"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "no file selected",
		},
		{
			name:     "integrity failure hides the cause",
			filename: "demo.html",
			content:  "<p/>",
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, "demo", mock.Anything).
					Return(nil, &service.Error{Kind: service.KindIntegrity, Slug: "0123456789ab", Err: errors.New("disk full")})
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "upload failed",
		},
		{
			name:     "unclassified error",
			filename: "demo.html",
			content:  "<p/>",
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, "demo", mock.Anything).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "upload failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			handler := NewProjectHandler(mockService, zap.NewNop())

			router := setupRouter()
			router.POST("/api/upload", handler.Upload)

			body, contentType := uploadBody(t, "demo", tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decode(t, w.Body.Bytes())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			} else {
				assert.Equal(t, float64(7), response["id"])
				assert.Equal(t, "0123456789ab", response["slug"])
				assert.Equal(t, "demo", response["name"])
				assert.Equal(t, "/projects/0123456789ab/", response["url"])
				assert.NotEmpty(t, response["message"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_UploadRejectsNonMultipart(t *testing.T) {
	mockService := &MockProjectService{}
	handler := NewProjectHandler(mockService, zap.NewNop())
	router := setupRouter()
	router.POST("/api/upload", handler.Upload)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"projectName":"demo"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectHandler_ListProjects(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*MockProjectService)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "newest first",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything).Return([]*model.Project{
					{ID: 2, Slug: "bbbbbbbbbbbb", Name: "B", IsActive: true},
					{ID: 1, Slug: "aaaaaaaaaaaa", Name: "A", IsActive: false},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "empty list is an empty array",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "storage error",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything).Return(nil, &service.Error{Kind: service.KindStorageUnavailable, Err: errors.New("db down")})
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			handler := NewProjectHandler(mockService, zap.NewNop())

			router := setupRouter()
			router.GET("/api/projects", handler.ListProjects)

			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var items []map[string]interface{}
				require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &items))
				require.NotNil(t, items)
				assert.Len(t, items, tt.expectedLen)
				if tt.expectedLen > 0 {
					assert.Equal(t, "bbbbbbbbbbbb", items[0]["slug"])
					assert.Equal(t, true, items[0]["isActive"])
					assert.Contains(t, items[0], "entryPoint")
					assert.Contains(t, items[0], "uploadedAt")
				}
			} else {
				assert.Equal(t, "failed to list projects", decode(t, w.Body.Bytes())["error"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_ToggleProject(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*MockProjectService)
		expectedStatus int
		expectedActive bool
	}{
		{
			name: "deactivate",
			setup: func(svc *MockProjectService) {
				svc.On("ToggleActive", mock.Anything, "0123456789ab").Return(false, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "activate",
			setup: func(svc *MockProjectService) {
				svc.On("ToggleActive", mock.Anything, "0123456789ab").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedActive: true,
		},
		{
			name: "unknown slug",
			setup: func(svc *MockProjectService) {
				svc.On("ToggleActive", mock.Anything, "0123456789ab").
					Return(false, &service.Error{Kind: service.KindNotFound, Msg: "project not found"})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			handler := NewProjectHandler(mockService, zap.NewNop())

			router := setupRouter()
			router.PATCH("/api/projects/:slug/toggle", handler.ToggleProject)

			req := httptest.NewRequest(http.MethodPatch, "/api/projects/0123456789ab/toggle", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decode(t, w.Body.Bytes())
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedActive, response["isActive"])
				assert.NotEmpty(t, response["message"])
			} else {
				assert.Equal(t, "project not found", response["error"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful deletion",
			setup: func(svc *MockProjectService) {
				svc.On("Delete", mock.Anything, "0123456789ab").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown slug",
			setup: func(svc *MockProjectService) {
				svc.On("Delete", mock.Anything, "0123456789ab").
					Return(&service.Error{Kind: service.KindNotFound, Msg: "project not found"})
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "storage error",
			setup: func(svc *MockProjectService) {
				svc.On("Delete", mock.Anything, "0123456789ab").
					Return(&service.Error{Kind: service.KindStorageUnavailable, Err: errors.New("locked")})
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)
			handler := NewProjectHandler(mockService, zap.NewNop())

			router := setupRouter()
			router.DELETE("/api/projects/:slug", handler.DeleteProject)

			req := httptest.NewRequest(http.MethodDelete, "/api/projects/0123456789ab", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "project deleted", decode(t, w.Body.Bytes())["message"])
			}

			mockService.AssertExpectations(t)
		})
	}
}
