package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 消息指标
	MessagesCreated *prometheus.CounterVec
	MessagesUpdated prometheus.Counter
	BulkFanoutSize  prometheus.Histogram
	ThreadsGrouped  prometheus.Counter

	// 通知邮件指标
	EmailsSent   prometheus.Counter
	EmailsFailed prometheus.Counter

	// 分类与目录指标
	CategoriesCreated prometheus.Counter
	CategoriesDeleted prometheus.Counter

	// 用户指标
	UsersRegistered prometheus.Counter

	// WebSocket 指标
	WSConnectionsActive prometheus.Gauge

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter

	// 限流指标
	RateLimitBlocks *prometheus.CounterVec
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightonhub_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brightonhub_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		MessagesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightonhub_messages_created_total",
				Help: "Total number of contact messages created",
			},
			[]string{"message_type"},
		),

		MessagesUpdated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_messages_updated_total",
				Help: "Total number of contact message batch updates",
			},
		),

		BulkFanoutSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "brightonhub_bulk_fanout_recipients",
				Help:    "Number of recipients per bulk message",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		ThreadsGrouped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_threads_grouped_total",
				Help: "Total number of thread grouping operations",
			},
		),

		EmailsSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_notification_emails_sent_total",
				Help: "Total number of notification emails sent",
			},
		),

		EmailsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_notification_emails_failed_total",
				Help: "Total number of notification email failures",
			},
		),

		CategoriesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_categories_created_total",
				Help: "Total number of categories created",
			},
		),

		CategoriesDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_categories_deleted_total",
				Help: "Total number of categories soft-deleted",
			},
		),

		UsersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_users_registered_total",
				Help: "Total number of users registered",
			},
		),

		WSConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "brightonhub_websocket_connections_active",
				Help: "Number of active WebSocket connections",
			},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightonhub_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightonhub_panics_total",
				Help: "Total number of recovered panics",
			},
		),

		RateLimitBlocks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightonhub_rate_limit_blocks_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"scope"},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordMessageCreated 记录消息创建
func (m *Metrics) RecordMessageCreated(messageType string) {
	m.MessagesCreated.WithLabelValues(messageType).Inc()
}

// RecordBulkFanout 记录群发消息的接收者数量
func (m *Metrics) RecordBulkFanout(recipients int) {
	m.BulkFanoutSize.Observe(float64(recipients))
}

// RecordEmailSent 记录通知邮件发送成功
func (m *Metrics) RecordEmailSent() {
	m.EmailsSent.Inc()
}

// RecordEmailFailed 记录通知邮件发送失败
func (m *Metrics) RecordEmailFailed() {
	m.EmailsFailed.Inc()
}

// RecordError 记录错误
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// RecordRateLimitBlock 记录限流阻止
func (m *Metrics) RecordRateLimitBlock(scope string) {
	m.RateLimitBlocks.WithLabelValues(scope).Inc()
}

// Handler 返回 Prometheus 指标的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
