// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"roomtoken/internal/pkg/errs"
)

// Issuance results.
const (
	ResultSuccess      = "success"
	ResultInvalidInput = "invalid_input"
	ResultSigningError = "signing_error"
	ResultOtherError   = "error"
)

var (
	TokensIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roomtoken_tokens_issued_total",
		Help: "Token issuance attempts by scope schema version and result",
	}, []string{"schema_version", "result"})

	IssueDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomtoken_issue_duration_seconds",
		Help:    "Time spent building and signing a token",
		Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
	})
)

func init() {
	prometheus.MustRegister(TokensIssued, IssueDuration)
}

// Result classifies an issuance error into a result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, errs.ErrInvalidScopeInput):
		return ResultInvalidInput
	case errors.Is(err, errs.ErrSigning):
		return ResultSigningError
	default:
		return ResultOtherError
	}
}

// ObserveIssue records one issuance attempt that started at start.
func ObserveIssue(schemaVersion int, start time.Time, err error) {
	IssueDuration.Observe(time.Since(start).Seconds())
	TokensIssued.WithLabelValues(strconv.Itoa(schemaVersion), Result(err)).Inc()
}
