package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_registrations_created_total",
		Help: "Total number of pending parking registrations created.",
	})

	PaymentsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parking_payments_confirmed_total",
		Help: "Total number of registrations transitioned to paid.",
	})

	StatusChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_status_checks_total",
		Help: "Total number of plate lookups by resolved verdict type.",
	},
		[]string{"type"},
	)

	DegradedResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_degraded_responses_total",
		Help: "Responses served from fallback data because the row store was unavailable.",
	},
		[]string{"operation"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OutboxTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_outbox_tasks_total",
		Help: "Outbox tasks handled by the publisher, by final status.",
	},
		[]string{"status"},
	)
)
