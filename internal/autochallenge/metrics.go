package autochallenge

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runs     *prometheus.CounterVec //nolint:gochecknoglobals
	runsOnce sync.Once              //nolint:gochecknoglobals
)

func runsCounter() *prometheus.CounterVec {
	runsOnce.Do(func() {
		runs = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auto_challenge_runs_total",
				Help: "Number of auto challenge evaluations, by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		)
	})

	return runs
}
