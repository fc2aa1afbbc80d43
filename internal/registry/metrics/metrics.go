package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module. Counters track the
// mutation surface; authorization failures get their own counter because they
// are the signal an operator watches first.
type Metrics struct {
	RecordsRegistered     prometheus.Counter
	RecordsEliminated     prometheus.Counter
	CustodyTransfers      prometheus.Counter
	AccessGrants          prometheus.Counter
	AccessRevocations     prometheus.Counter
	AuthorizationFailures prometheus.Counter
}

// New creates a Metrics instance with all registry metrics registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		RecordsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_records_registered_total",
			Help: "Total number of provenance records registered",
		}),
		RecordsEliminated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_records_eliminated_total",
			Help: "Total number of provenance records eliminated",
		}),
		CustodyTransfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_custody_transfers_total",
			Help: "Total number of custody transfers",
		}),
		AccessGrants: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_access_grants_total",
			Help: "Total number of access grants persisted",
		}),
		AccessRevocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_access_revocations_total",
			Help: "Total number of access revocations",
		}),
		AuthorizationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "provreg_authorization_failures_total",
			Help: "Total number of operations rejected for missing authority",
		}),
	}
}
