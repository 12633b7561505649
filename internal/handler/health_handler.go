package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/usth/uface/internal/middleware"
)

// healthCheckTimeout はデータベース疎通確認の上限時間。
const healthCheckTimeout = 3 * time.Second

// HealthChecker はデータベースの疎通確認インターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Health はデータベースに到達できれば200、できなければ503を返す。
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.checker.PingContext(ctx); err != nil {
		slog.Warn("health check failed",
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		middleware.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{OK: false})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, healthResponse{OK: true})
}
