package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/usth/uface/internal/middleware"
	"github.com/usth/uface/internal/model"
)

// ページングのデフォルト値と上限
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// StudentServiceInterface は学生参照ハンドラーが必要とするサービスインターフェース。
type StudentServiceInterface interface {
	// Get はstudent_idで学生を取得する。
	Get(ctx context.Context, studentID string) (*model.Student, error)
	// List は学生一覧を返す。
	List(ctx context.Context, limit, offset int) ([]*model.Student, error)
}

// StudentHandler は登録済み学生の参照HTTPハンドラー。
type StudentHandler struct {
	service StudentServiceInterface
}

// NewStudentHandler はStudentHandlerを生成する。
func NewStudentHandler(service StudentServiceInterface) *StudentHandler {
	return &StudentHandler{service: service}
}

// studentResponse は学生情報のAPIレスポンス。
type studentResponse struct {
	FullName    string `json:"full_name"`
	StudentID   string `json:"student_id"`
	SchoolEmail string `json:"school_email"`
}

type dataResponse struct {
	Data any `json:"data"`
}

// ListStudents は学生一覧を返す。
// GET /api/students?limit=50&offset=0
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit < 1 || limit > maxListLimit {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidPaginationError("limit"))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidPaginationError("offset"))
		return
	}

	students, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	results := make([]studentResponse, len(students))
	for i, s := range students {
		results[i] = toStudentResponse(s)
	}
	middleware.WriteJSON(w, http.StatusOK, dataResponse{Data: results})
}

// GetStudent は学生1件を返す。
// GET /api/students/{studentID}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")

	student, err := h.service.Get(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, model.ErrStudentNotFound) {
			middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewStudentNotFoundError(studentID))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dataResponse{Data: toStudentResponse(student)})
}

func toStudentResponse(s *model.Student) studentResponse {
	return studentResponse{
		FullName:    s.FullName,
		StudentID:   s.StudentID,
		SchoolEmail: s.SchoolEmail,
	}
}

// queryInt はクエリパラメータを整数として取得する。未指定の場合はdefを返す。
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
