// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// APIError はAPIエラーレスポンスの内容を表す。
// Codeはステータスコードの決定に使い、Messageのみがクライアントに返る。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeInvalidForm           = "INVALID_FORM"
	ErrCodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	ErrCodeStudentNotFound       = "STUDENT_NOT_FOUND"
	ErrCodeInvalidPagination     = "INVALID_PAGINATION"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// ErrDuplicateRegistration は student_id または school_email が既に登録済みであることを示す。
// リポジトリは一意制約違反をこのエラーでラップして返す。
var ErrDuplicateRegistration = errors.New("student id or email already registered")

// ErrStudentNotFound は指定した学生が存在しないことを示す。
var ErrStudentNotFound = errors.New("student not found")

// ReasonEmailNotAllowed はメールアドレスが許可パターンに一致しないことを示すValidationError.Reason。
const ReasonEmailNotAllowed = "school_email is not in an allowed domain"

// ValidationError は送信内容の検証エラー。
// Fieldsは未入力のフォームフィールド名、Reasonはそれ以外の検証失敗理由。
type ValidationError struct {
	Fields []string
	Reason string
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return "missing required fields: " + strings.Join(e.Fields, ", ")
	}
	return "invalid submission: " + e.Reason
}

// NewMissingFieldsError は必須項目未入力エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: "Vui lòng điền đầy đủ thông tin (Họ tên, ID, Email).",
	}
}

// NewEmailNotAllowedError は許可されていないドメインのメールアドレスのエラーを生成する。
func NewEmailNotAllowedError() *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: "Email không thuộc domain cho phép.",
	}
}

// NewInvalidFormError はフォームの解析失敗エラーを生成する。
func NewInvalidFormError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidForm,
		Message: "Dữ liệu biểu mẫu không hợp lệ.",
	}
}

// NewDuplicateRegistrationError は重複登録エラーを生成する。
func NewDuplicateRegistrationError() *APIError {
	return &APIError{
		Code:    ErrCodeDuplicateRegistration,
		Message: "Thông tin đã tồn tại. Student ID hoặc Email đã được đăng ký.",
	}
}

// NewStudentNotFoundError は学生未検出エラーを生成する。
func NewStudentNotFoundError(studentID string) *APIError {
	return &APIError{
		Code:    ErrCodeStudentNotFound,
		Message: fmt.Sprintf("Không tìm thấy sinh viên: %s", studentID),
	}
}

// NewInvalidPaginationError はページング指定の不正エラーを生成する。
func NewInvalidPaginationError(param string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidPagination,
		Message: fmt.Sprintf("Tham số không hợp lệ: %s", param),
	}
}

// NewInternalError は内部エラーを生成する。
// 原因はログのみに記録し、クライアントには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "Lỗi server nội bộ.",
	}
}
