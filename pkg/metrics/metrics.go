package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 换班结果标签
const (
	OutcomeApproved         = "approved"
	OutcomeCancelled        = "cancelled"
	OutcomeRejected         = "rejected"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeFailed           = "failed"
)

// Metrics 换班子系统的 Prometheus 指标
// 所有方法对 nil 接收者安全，未启用指标时可直接传 nil。
type Metrics struct {
	registry     *prometheus.Registry
	created      *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	swapDuration prometheus.Histogram
}

// New 创建独立 Registry 并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proctorhub",
			Subsystem: "swap",
			Name:      "requests_created_total",
			Help:      "按类型统计创建的换班申请数量",
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "proctorhub",
			Subsystem: "swap",
			Name:      "transitions_total",
			Help:      "按结果统计换班申请的状态流转尝试",
		}, []string{"operation", "outcome"}),
		swapDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "proctorhub",
			Subsystem: "swap",
			Name:      "execute_duration_seconds",
			Help:      "换班事务执行耗时",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.created,
		m.transitions,
		m.swapDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RequestCreated 记录一次申请创建，kind 为 personal 或 forum
func (m *Metrics) RequestCreated(kind string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(kind).Inc()
}

// Transition 记录一次状态流转尝试
func (m *Metrics) Transition(operation, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(operation, outcome).Inc()
}

// ObserveSwap 记录换班事务耗时（秒）
func (m *Metrics) ObserveSwap(seconds float64) {
	if m == nil {
		return
	}
	m.swapDuration.Observe(seconds)
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 的 HTTP Handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
