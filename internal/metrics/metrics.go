// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 登録処理の結果ラベル
const (
	OutcomeCreated   = "created"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordRegistration(outcome string)
	RecordStoreLatency(duration time.Duration)
	ConnectionAcquired()
	ConnectionReleased()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registrations   *prometheus.CounterVec
	storeLatency    prometheus.Histogram
	openConnections prometheus.Gauge
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uface_registrations_total",
			Help: "結果別の学生登録リクエスト数",
		}, []string{"outcome"}),
		storeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uface_store_latency_seconds",
			Help:    "接続確立から解放までのストレージ処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uface_db_connections_open",
			Help: "リクエスト処理中に保持しているデータベース接続数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uface_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.storeLatency,
		c.openConnections,
		c.httpStatus,
	)

	return c
}

// RecordRegistration は登録処理の結果を記録する。
func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

// RecordStoreLatency はストレージ処理の所要時間を記録する。
func (c *Collector) RecordStoreLatency(duration time.Duration) {
	c.storeLatency.Observe(duration.Seconds())
}

// ConnectionAcquired は接続の取得を記録する。
func (c *Collector) ConnectionAcquired() {
	c.openConnections.Inc()
}

// ConnectionReleased は接続の解放を記録する。
func (c *Collector) ConnectionReleased() {
	c.openConnections.Dec()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
