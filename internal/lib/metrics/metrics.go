// Package metrics счётчики бизнес-событий клуба для Prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Business счётчики событий предметной области.
type Business struct {
	ReceiptsCreated    prometheus.Counter
	EmailsSent         *prometheus.CounterVec
	RemindersPublished prometheus.Counter
}

// NewBusiness регистрирует счётчики в reg.
func NewBusiness(reg prometheus.Registerer) *Business {
	b := &Business{
		ReceiptsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "club_manager",
			Name:      "receipts_created_total",
			Help:      "Activity receipts issued.",
		}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "club_manager",
			Name:      "emails_sent_total",
			Help:      "E-mails sent by template and outcome.",
		}, []string{"template", "outcome"}),
		RemindersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "club_manager",
			Name:      "certificate_reminders_published_total",
			Help:      "Medical certificate reminders published to the broker.",
		}),
	}
	reg.MustRegister(b.ReceiptsCreated, b.EmailsSent, b.RemindersPublished)
	return b
}
