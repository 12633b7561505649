package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/usth/uface/internal/model"
)

// withURLParam はchiのURLパラメータをリクエストに注入する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- GET /api/students テスト ---

func TestStudentHandler_ListStudents_DefaultPagination(t *testing.T) {
	svc := &mockStudentService{
		listFn: func(ctx context.Context, limit, offset int) ([]*model.Student, error) {
			if limit != defaultListLimit || offset != 0 {
				t.Errorf("limit, offset = %d, %d, want %d, 0", limit, offset, defaultListLimit)
			}
			return []*model.Student{
				{FullName: "Nguyen Van A", StudentID: "SV001", SchoolEmail: "a@usth.edu.vn"},
				{FullName: "Tran Thi B", StudentID: "SV002", SchoolEmail: "b@usth.edu.vn"},
			}, nil
		},
	}
	h := NewStudentHandler(svc)

	w := httptest.NewRecorder()
	h.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decodeBody(t, w.Body)
	data, ok := body["data"].([]interface{})
	if !ok {
		t.Fatalf("data = %T, want array", body["data"])
	}
	if len(data) != 2 {
		t.Fatalf("len(data) = %d, want 2", len(data))
	}
	first := data[0].(map[string]interface{})
	if first["student_id"] != "SV001" || first["school_email"] != "a@usth.edu.vn" || first["full_name"] != "Nguyen Van A" {
		t.Errorf("data[0] = %v", first)
	}
}

func TestStudentHandler_ListStudents_EmptyIsArray(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})

	w := httptest.NewRecorder()
	h.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Body.String(); got != "{\"data\":[]}\n" {
		t.Errorf("body = %q, want %q", got, "{\"data\":[]}\n")
	}
}

func TestStudentHandler_ListStudents_CustomPagination(t *testing.T) {
	svc := &mockStudentService{
		listFn: func(ctx context.Context, limit, offset int) ([]*model.Student, error) {
			if limit != 200 || offset != 400 {
				t.Errorf("limit, offset = %d, %d, want 200, 400", limit, offset)
			}
			return nil, nil
		},
	}
	h := NewStudentHandler(svc)

	w := httptest.NewRecorder()
	h.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/students?limit=200&offset=400", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestStudentHandler_ListStudents_InvalidPagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"limit not a number", "limit=abc"},
		{"limit zero", "limit=0"},
		{"limit over max", "limit=201"},
		{"negative offset", "offset=-1"},
		{"offset not a number", "offset=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockStudentService{
				listFn: func(ctx context.Context, limit, offset int) ([]*model.Student, error) {
					called = true
					return nil, nil
				},
			}
			h := NewStudentHandler(svc)

			w := httptest.NewRecorder()
			h.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/students?"+tt.query, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if called {
				t.Error("service should not be called")
			}
		})
	}
}

func TestStudentHandler_ListStudents_ServiceError_Returns500(t *testing.T) {
	svc := &mockStudentService{
		listFn: func(ctx context.Context, limit, offset int) ([]*model.Student, error) {
			return nil, errors.New("connection reset")
		},
	}
	h := NewStudentHandler(svc)

	w := httptest.NewRecorder()
	h.ListStudents(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// --- GET /api/students/{studentID} テスト ---

func TestStudentHandler_GetStudent_Found(t *testing.T) {
	svc := &mockStudentService{
		getFn: func(ctx context.Context, studentID string) (*model.Student, error) {
			if studentID != "SV001" {
				t.Errorf("studentID = %q, want %q", studentID, "SV001")
			}
			return &model.Student{FullName: "Nguyen Van A", StudentID: "SV001", SchoolEmail: "a@usth.edu.vn"}, nil
		},
	}
	h := NewStudentHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/students/SV001", nil), "studentID", "SV001")
	w := httptest.NewRecorder()
	h.GetStudent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w.Body)
	data := body["data"].(map[string]interface{})
	if data["student_id"] != "SV001" {
		t.Errorf("student_id = %q, want %q", data["student_id"], "SV001")
	}
}

func TestStudentHandler_GetStudent_NotFound(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/students/SV999", nil), "studentID", "SV999")
	w := httptest.NewRecorder()
	h.GetStudent(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	body := decodeBody(t, w.Body)
	if body["error"] != model.NewStudentNotFoundError("SV999").Message {
		t.Errorf("error = %q", body["error"])
	}
}

func TestStudentHandler_GetStudent_ServiceError_Returns500(t *testing.T) {
	svc := &mockStudentService{
		getFn: func(ctx context.Context, studentID string) (*model.Student, error) {
			return nil, errors.New("timeout")
		},
	}
	h := NewStudentHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/students/SV001", nil), "studentID", "SV001")
	w := httptest.NewRecorder()
	h.GetStudent(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
