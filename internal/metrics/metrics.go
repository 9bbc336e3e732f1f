package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics는 인사이트 서비스의 Prometheus 지표 모음입니다.
// nil 수신자에서도 안전하게 호출할 수 있습니다.
type Metrics struct {
	CandleFetches    *prometheus.CounterVec // labels: exchange, result=ok|no_data|error
	Batches          *prometheus.CounterVec // labels: result
	BatchDuration    prometheus.Histogram
	Narratives       *prometheus.CounterVec // labels: result=ok|empty|error|disabled
	RateLimitWait    prometheus.Histogram
	CatalogSymbols   prometheus.Gauge
	CatalogRefreshes *prometheus.CounterVec // labels: result=ok|error

	gatherer prometheus.Gatherer
}

// NewMetrics는 지표를 생성해 reg에 등록합니다. reg가 nil이면 새 레지스트리를 사용합니다.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		CandleFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_candle_fetches_total",
			Help: "Candle fetch attempts per resolver candidate",
		}, []string{"exchange", "result"}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_batches_total",
			Help: "Insight batches by outcome",
		}, []string{"result"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "insight_batch_duration_seconds",
			Help:    "End-to-end insight batch latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		Narratives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_narratives_total",
			Help: "Narrative generation calls by outcome",
		}, []string{"result"}),
		RateLimitWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "insight_ratelimit_wait_seconds",
			Help:    "Time spent waiting for a narrative rate-limit slot",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 15, 30, 60},
		}),
		CatalogSymbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insight_catalog_symbols",
			Help: "Symbols currently held in the metadata catalog",
		}),
		CatalogRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_catalog_refreshes_total",
			Help: "Metadata catalog loads by outcome",
		}, []string{"result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.CandleFetches,
		m.Batches,
		m.BatchDuration,
		m.Narratives,
		m.RateLimitWait,
		m.CatalogSymbols,
		m.CatalogRefreshes,
	)
	return m
}

// Handler는 /metrics 핸들러를 반환합니다
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveCandleFetch는 거래소별 캔들 조회 결과를 기록합니다
func (m *Metrics) ObserveCandleFetch(exchange, result string) {
	if m == nil {
		return
	}
	m.CandleFetches.WithLabelValues(exchange, result).Inc()
}

// ObserveBatch는 배치 결과와 소요 시간을 기록합니다
func (m *Metrics) ObserveBatch(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(result).Inc()
	m.BatchDuration.Observe(elapsed.Seconds())
}

// ObserveNarrative는 내러티브 생성 결과를 기록합니다
func (m *Metrics) ObserveNarrative(result string) {
	if m == nil {
		return
	}
	m.Narratives.WithLabelValues(result).Inc()
}

// ObserveRateLimitWait는 리미터 대기 시간을 기록합니다
func (m *Metrics) ObserveRateLimitWait(wait time.Duration) {
	if m == nil {
		return
	}
	m.RateLimitWait.Observe(wait.Seconds())
}

// ObserveCatalog는 카탈로그 갱신 결과와 전체 심볼 수를 기록합니다
func (m *Metrics) ObserveCatalog(result string, symbols int) {
	if m == nil {
		return
	}
	m.CatalogRefreshes.WithLabelValues(result).Inc()
	m.CatalogSymbols.Set(float64(symbols))
}
