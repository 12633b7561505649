package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/usth/uface/internal/metrics"
	"github.com/usth/uface/internal/middleware"
)

// StudentService は登録と参照の両方を提供するサービスインターフェース。
// student.Serviceがこれを満たす。
type StudentService interface {
	RegistrationServiceInterface
	StudentServiceInterface
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	Metrics           metrics.MetricsCollector
	MetricsHandler    http.Handler

	// 学生
	StudentService     StudentService
	RegistrationConfig RegistrationHandlerConfig

	// ヘルスチェック
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS → Metrics
//
// /metrics はミドルウェアチェーンの外に配置する。
// /api 配下はマウントされたサブルーターごとチェーンで包まれるため、
// OPTIONSプリフライトはルート定義の有無にかかわらずCORSミドルウェアが204で応答する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registrationHandler := NewRegistrationHandler(deps.StudentService, deps.RegistrationConfig)
	studentHandler := NewStudentHandler(deps.StudentService)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequestIDMiddleware())
		r.Use(middleware.NewLoggingMiddleware(logger))
		r.Use(middleware.NewRecoveryMiddleware())
		r.Use(middleware.NewSecurityHeadersMiddleware())
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
		if deps.Metrics != nil {
			r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
		}

		r.Route("/api", func(r chi.Router) {
			r.Post("/register", registrationHandler.Register)
			r.Get("/health", healthHandler.Health)

			r.Route("/students", func(r chi.Router) {
				r.Get("/", studentHandler.ListStudents)
				r.Get("/{studentID}", studentHandler.GetStudent)
			})
		})
	})

	return r
}
