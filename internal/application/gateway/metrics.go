package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signInTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Name:      "sign_in_total",
		Help:      "Sign-in attempts by result.",
	}, []string{"result"})

	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Name:      "session_resolve_total",
		Help:      "Session resolutions by outcome.",
	}, []string{"outcome"})
)
