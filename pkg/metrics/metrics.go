package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingsCreated    *prometheus.CounterVec
	CapacityRejections *prometheus.CounterVec
	WebhookEvents      *prometheus.CounterVec
	RefundsTotal       *prometheus.CounterVec
	JobRuns            *prometheus.CounterVec

	serviceName string
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of open connections",
		}, []string{"service"}),

		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created at checkout",
		}, []string{"service", "service_type"}),

		CapacityRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_capacity_rejections_total",
			Help: "Reservations rejected because capacity was exceeded",
		}, []string{"service", "pet_type"}),

		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Payment provider webhook events by type and outcome",
		}, []string{"service", "event", "outcome"}),

		RefundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refunds_total",
			Help: "Refunds issued",
		}, []string{"service", "reason"}),

		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_runs_total",
			Help: "Scheduled job runs by status",
		}, []string{"service", "job", "status"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingsCreated,
		m.CapacityRejections,
		m.WebhookEvents,
		m.RefundsTotal,
		m.JobRuns,
	)

	return m
}

// Бизнес-счетчики. Методы безопасны для nil, чтобы сервис работал с выключенными метриками.

func (m *Metrics) IncBookingCreated(serviceType string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(m.serviceName, serviceType).Inc()
}

func (m *Metrics) IncCapacityRejected(petType string) {
	if m == nil {
		return
	}
	m.CapacityRejections.WithLabelValues(m.serviceName, petType).Inc()
}

func (m *Metrics) IncWebhookEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(m.serviceName, event, outcome).Inc()
}

func (m *Metrics) IncRefund(reason string) {
	if m == nil {
		return
	}
	m.RefundsTotal.WithLabelValues(m.serviceName, reason).Inc()
}

func (m *Metrics) IncJobRun(job, status string) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(m.serviceName, job, status).Inc()
}
