package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteWriteFailures counts failed best-effort remote writes by
	// collection and operation. These never fail the user action.
	RemoteWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openwall_remote_write_failures_total",
		Help: "Total number of failed best-effort remote writes",
	}, []string{"collection", "operation"})

	// SyncPasses counts reconciliation passes by collection and outcome
	// (replaced, seeded, failed).
	SyncPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openwall_sync_passes_total",
		Help: "Total number of reconciliation passes by outcome",
	}, []string{"collection", "outcome"})

	// MutationsApplied counts optimistic mutations whose local phase
	// completed, by mutation kind.
	MutationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openwall_mutations_applied_total",
		Help: "Total number of optimistic mutations applied locally",
	}, []string{"kind"})

	// MutationsRejected counts mutations rejected before touching the
	// cache, by mutation kind.
	MutationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openwall_mutations_rejected_total",
		Help: "Total number of mutations rejected in the local phase",
	}, []string{"kind"})

	// SnapshotPersistFailures counts failed local cache snapshot writes.
	SnapshotPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openwall_snapshot_persist_failures_total",
		Help: "Total number of failed cache snapshot persists",
	})
)
