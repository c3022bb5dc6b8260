package credstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credstore_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credstore_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
)
