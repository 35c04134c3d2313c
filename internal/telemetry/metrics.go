// Package telemetry exposes Prometheus counters for the events worth
// watching: account and post creation, content rejected for invalid
// characters, and rate-limited callers. Purely observational; no application
// logic reads these.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connectly_users_created_total",
		Help: "Number of successful user registrations.",
	})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connectly_posts_created_total",
		Help: "Number of posts created.",
	})

	PostsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connectly_posts_deleted_total",
		Help: "Number of posts deleted by their authors.",
	})

	// InvalidCharacters counts inputs rejected by the printable-ASCII gate,
	// labelled by the operation that rejected them.
	InvalidCharacters = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connectly_invalid_characters_total",
		Help: "Inputs rejected for containing non-printable characters.",
	}, []string{"operation"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connectly_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
