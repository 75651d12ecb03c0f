package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database/models"
)

const namespace = "adify"

// Metrics exposes valuation and pool activity. It implements both the
// valuation and pools observers.
type Metrics struct {
	registry *prometheus.Registry

	ValuePer100Coins *prometheus.GaugeVec
	ValuationsStored *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	RefreshFailures  prometheus.Counter
	LastRefresh      prometheus.Gauge
	PoolsCreated     prometheus.Counter
	PoolsSkipped     prometheus.Counter
	UsersSettled     *prometheus.CounterVec
	CashDistributed  *prometheus.CounterVec
	DistributionRuns *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ValuePer100Coins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "value_per_100_coins",
			Help:      "Latest value of 100 coins in local currency",
		}, []string{"country", "currency"}),
		ValuationsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "stored_total",
			Help:      "Valuation snapshots stored",
		}, []string{"source"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full valuation refresh",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		RefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "refresh_failures_total",
			Help:      "Countries that failed during a refresh",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last completed refresh",
		}),
		PoolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "created_total",
			Help:      "Revenue pools created",
		}),
		PoolsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "skipped_total",
			Help:      "Revenue pools skipped because they already existed",
		}),
		UsersSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "users_settled_total",
			Help:      "Users credited from revenue pools",
		}, []string{"country"}),
		CashDistributed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "cash_distributed_total",
			Help:      "Settlement currency credited from revenue pools",
		}, []string{"country"}),
		DistributionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "distribution_runs_total",
			Help:      "Distribution runs by outcome",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Admin API request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ValuePer100Coins,
		m.ValuationsStored,
		m.RefreshDuration,
		m.RefreshFailures,
		m.LastRefresh,
		m.PoolsCreated,
		m.PoolsSkipped,
		m.UsersSettled,
		m.CashDistributed,
		m.DistributionRuns,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ValuationStored(v *valuation.Valuation) {
	m.ValuePer100Coins.WithLabelValues(v.CountryCode, v.CurrencyCode).Set(v.ValuePer100Coins.InexactFloat64())
	m.ValuationsStored.WithLabelValues(string(v.Source)).Inc()
}

func (m *Metrics) RefreshCompleted(report valuation.RefreshReport) {
	m.RefreshDuration.Observe(report.Took.Seconds())
	m.RefreshFailures.Add(float64(len(report.Failed)))
	m.LastRefresh.SetToCurrentTime()
}

func (m *Metrics) PoolsBuilt(result *pools.BuildResult) {
	m.PoolsCreated.Add(float64(len(result.Created)))
	m.PoolsSkipped.Add(float64(len(result.Skipped)))
}

func (m *Metrics) PoolDistributed(pool *models.RevenuePool, result *pools.DistributionResult) {
	m.UsersSettled.WithLabelValues(pool.CountryCode).Add(float64(result.UsersSettled))
	m.CashDistributed.WithLabelValues(pool.CountryCode).Add(result.CashDistributed.InexactFloat64())

	outcome := "completed"
	if !result.Completed {
		outcome = "partial"
	}
	m.DistributionRuns.WithLabelValues(outcome).Inc()
}
