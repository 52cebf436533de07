package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudpanel_firewall_sync_cycles_total",
		Help: "Completed firewall reconciliation cycles.",
	})

	SyncRuleUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudpanel_firewall_sync_rule_updates_total",
		Help: "Sync status transitions written by reconciliation cycles.",
	})

	SyncErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudpanel_firewall_sync_errors_total",
		Help: "Errors recorded during reconciliation cycles.",
	})
)
