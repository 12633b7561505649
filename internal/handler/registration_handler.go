// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/usth/uface/internal/middleware"
	"github.com/usth/uface/internal/model"
)

// RegistrationServiceInterface は登録ハンドラーが必要とするサービスインターフェース。
type RegistrationServiceInterface interface {
	// Register は学生を1件登録する。
	Register(ctx context.Context, sub model.Submission) (*model.Student, error)
}

// RegistrationHandlerConfig は登録ハンドラーの設定。
type RegistrationHandlerConfig struct {
	// FormMaxBytes はリクエストボディの上限バイト数。
	FormMaxBytes int64
}

// RegistrationHandler は学生登録のHTTPハンドラー。
type RegistrationHandler struct {
	service RegistrationServiceInterface
	config  RegistrationHandlerConfig
}

// NewRegistrationHandler はRegistrationHandlerを生成する。
func NewRegistrationHandler(service RegistrationServiceInterface, config RegistrationHandlerConfig) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		config:  config,
	}
}

// registerResponse は登録成功時のAPIレスポンス。
type registerResponse struct {
	Message   string `json:"message"`
	StudentID string `json:"studentID"`
}

const registeredMessage = "Đăng ký thành công!"

// Register は学生登録を処理する。
// POST /api/register
//
// multipart/form-data と application/x-www-form-urlencoded の両方を受け付ける。
// 添付された画像ファイルは読み捨て、保存しない。
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseSubmission(w, r)
	if err != nil {
		slog.Warn("failed to parse registration form",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidFormError())
		return
	}

	student, err := h.service.Register(r.Context(), sub)
	if err != nil {
		handleRegistrationError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, registerResponse{
		Message:   registeredMessage,
		StudentID: student.StudentID,
	})
}

// parseSubmission はリクエストボディをmodel.Submissionに変換する。
// 値の前後の空白はそのまま保持する。
func (h *RegistrationHandler) parseSubmission(w http.ResponseWriter, r *http.Request) (model.Submission, error) {
	if h.config.FormMaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.FormMaxBytes)
	}

	if err := r.ParseMultipartForm(h.config.FormMaxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return model.Submission{}, err
	}
	if r.MultipartForm != nil {
		// 画像などのファイルパートは一時ファイルごと破棄する
		defer r.MultipartForm.RemoveAll()
	}

	return model.Submission{
		FullName:    r.PostFormValue("full_name"),
		StudentID:   r.PostFormValue("student_id"),
		SchoolEmail: r.PostFormValue("school_email"),
	}, nil
}

// handleRegistrationError は登録処理のエラーをHTTPレスポンスに変換する。
func handleRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Reason == model.ReasonEmailNotAllowed {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewEmailNotAllowedError())
			return
		}
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldsError())
	case errors.Is(err, model.ErrDuplicateRegistration):
		middleware.WriteErrorResponse(w, http.StatusConflict, model.NewDuplicateRegistrationError())
	default:
		writeInternalError(w, r, err)
	}
}

// writeInternalError は原因をログに記録し、一般的な500レスポンスを返す。
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}
