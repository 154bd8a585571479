package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeConfirmed = "confirmed"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_submissions_total",
		Help: "Submissions received by the booking sink, by kind and outcome.",
	}, []string{"kind", "outcome"})

	sessionsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_sessions_opened_total",
		Help: "Flow sessions opened, by kind.",
	}, []string{"kind"})

	textileMeters = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_textile_meters_total",
		Help: "Fabric meters in recorded textile bookings, by fabric.",
	}, []string{"fabric"})

	eventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_event_publish_failures_total",
		Help: "Confirmation events that could not be published.",
	})
)
