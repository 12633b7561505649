// Package student は学生登録のドメインロジックを提供する。
package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/usth/uface/internal/metrics"
	"github.com/usth/uface/internal/model"
	"github.com/usth/uface/internal/repository"
)

// ServiceConfig はServiceの動作設定。
type ServiceConfig struct {
	// AllowedEmail が設定されている場合、school_emailはこれに一致しなければならない。
	AllowedEmail *regexp.Regexp
	// QueryTimeout は接続確立からクエリ完了までの上限時間。0の場合は無制限。
	QueryTimeout time.Duration
}

// Service は学生登録のサービス層。
// 状態を持たないため、複数のリクエストから並行に呼び出してよい。
type Service struct {
	opener   repository.StudentStoreOpener
	metrics  metrics.MetricsCollector
	validate *validator.Validate
	config   ServiceConfig
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(opener repository.StudentStoreOpener, collector metrics.MetricsCollector, config ServiceConfig) *Service {
	return &Service{
		opener:   opener,
		metrics:  collector,
		validate: newValidator(),
		config:   config,
	}
}

// newValidator はフォームのフィールド名でエラーを報告するバリデータを生成する。
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate は送信内容を検証する。
// 必須項目が欠けている場合、またはメールアドレスが許可パターンに一致しない場合は
// *model.ValidationErrorを返す。
func (s *Service) Validate(sub model.Submission) error {
	if err := s.validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate submission: %w", err)
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &model.ValidationError{Fields: fields}
	}

	if s.config.AllowedEmail != nil && !s.config.AllowedEmail.MatchString(sub.SchoolEmail) {
		return &model.ValidationError{Reason: model.ReasonEmailNotAllowed}
	}

	return nil
}

// Register は学生を1件登録する。
// 検証に失敗した場合はストレージに触れずに*model.ValidationErrorを返す。
// 重複時はmodel.ErrDuplicateRegistration、接続失敗時は*database.ConnectionErrorをラップしたエラーを返す。
// 接続は結果にかかわらず必ず解放される。
func (s *Service) Register(ctx context.Context, sub model.Submission) (_ *model.Student, err error) {
	defer func() {
		s.metrics.RecordRegistration(outcomeOf(err))
	}()

	if err := s.Validate(sub); err != nil {
		return nil, err
	}

	student := sub.ToStudent()
	err = s.withStore(ctx, func(ctx context.Context, store repository.StudentStore) error {
		id, err := store.Create(ctx, student)
		if err != nil {
			return err
		}
		student.StudentID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("student registered", slog.String("student_id", student.StudentID))
	return student, nil
}

// Get はstudent_idで学生を取得する。存在しない場合はmodel.ErrStudentNotFoundを返す。
func (s *Service) Get(ctx context.Context, studentID string) (*model.Student, error) {
	var found *model.Student
	err := s.withStore(ctx, func(ctx context.Context, store repository.StudentStore) error {
		var err error
		found, err = store.FindByStudentID(ctx, studentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, model.ErrStudentNotFound
	}
	return found, nil
}

// List は学生一覧をstudent_id昇順で返す。
func (s *Service) List(ctx context.Context, limit, offset int) ([]*model.Student, error) {
	var students []*model.Student
	err := s.withStore(ctx, func(ctx context.Context, store repository.StudentStore) error {
		var err error
		students, err = store.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

// withStore は接続を1本確立してfnを実行し、終了時に必ず解放する。
func (s *Service) withStore(ctx context.Context, fn func(context.Context, repository.StudentStore) error) error {
	if s.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	store, err := s.opener.OpenStudentStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open student store: %w", err)
	}
	s.metrics.ConnectionAcquired()

	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to release database connection", slog.String("error", err.Error()))
		}
		s.metrics.ConnectionReleased()
		s.metrics.RecordStoreLatency(time.Since(start))
	}()

	return fn(ctx, store)
}

// outcomeOf は登録処理の結果をメトリクスのラベルに変換する。
func outcomeOf(err error) string {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.As(err, &verr):
		return metrics.OutcomeInvalid
	case errors.Is(err, model.ErrDuplicateRegistration):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}
