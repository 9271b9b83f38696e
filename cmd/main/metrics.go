package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/CTAG07/wordchain/pkg/markov"
)

var (
	GenerateRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordchain_generate_requests_total",
		Help: "Total number of generation requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	GeneratedTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordchain_generated_tokens_total",
		Help: "The total number of tokens returned by generation endpoints",
	})

	TrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordchain_train_duration_seconds",
		Help:    "Duration of training runs",
		Buckets: prometheus.DefBuckets,
	})

	TrainFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordchain_train_failures_total",
		Help: "Total number of failed training runs",
	})

	ModelKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordchain_model_keys",
		Help: "Number of distinct token pairs in the current table",
	})

	ModelTransitions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordchain_model_transitions",
		Help: "Number of recorded transitions in the current table",
	})

	CorpusDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordchain_corpus_documents",
		Help: "Number of documents in the corpus store",
	})
)

// RecordGeneration records a successful generation request.
func RecordGeneration(endpoint string, tokens int) {
	GenerateRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	GeneratedTokensTotal.Add(float64(tokens))
}

// RecordGenerationError records a failed generation request.
func RecordGenerationError(endpoint string) {
	GenerateRequestsTotal.WithLabelValues(endpoint, "error").Inc()
}

// RecordTraining records a finished training run and the resulting table size.
func RecordTraining(d time.Duration, stats markov.ModelStats) {
	TrainDuration.Observe(d.Seconds())
	ModelKeys.Set(float64(stats.Keys))
	ModelTransitions.Set(float64(stats.Transitions))
}

// RecordTrainingFailure records a training run that did not replace the table.
func RecordTrainingFailure() {
	TrainFailuresTotal.Inc()
}

// RecordCorpusSize records the number of stored documents.
func RecordCorpusSize(documents int) {
	CorpusDocuments.Set(float64(documents))
}
