package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	PagesFetchedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_pages_fetched_total",
			Help: "Total number of pages fetched.",
		},
	)
	DiscoveriesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_discoveries_total",
			Help: "Total number of committed careers page discoveries.",
		},
		[]string{"page_type"},
	)
	PostingsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_postings_created_total",
			Help: "Total number of job postings created.",
		},
	)
	PostingsUpdatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_postings_updated_total",
			Help: "Total number of job postings updated in place.",
		},
	)
	RejectedByFilterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_candidates_rejected_total",
			Help: "Total number of candidates rejected by the job-likelihood filter.",
		},
	)
	CycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawler_cycle_duration_seconds",
			Help:    "Duration of each pipeline cycle in seconds.",
			Buckets: []float64{60, 300, 900, 1800, 3600},
		},
		[]string{"stage"},
	)
	StepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "crawler_step_duration_seconds",
			Help:       "Duration of each step in a company crawl.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(PagesFetchedCounter)
	prometheus.MustRegister(DiscoveriesCounter)
	prometheus.MustRegister(PostingsCreatedCounter)
	prometheus.MustRegister(PostingsUpdatedCounter)
	prometheus.MustRegister(RejectedByFilterCounter)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(StepDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
