package firewall

import (
	"fmt"
	"log"
	"time"

	"cloud-panel/internal/metrics"
	"cloud-panel/internal/models"
	"cloud-panel/internal/services/provider"
	"cloud-panel/internal/services/settings"

	"github.com/robfig/cron/v3"
)

// Describer is the read-only slice of the gateway the loop uses. It
// never applies anything; drift is corrected in the store only.
type Describer interface {
	DescribeAllowList() ([]provider.AllowListEntry, error)
	DescribeOrderedList() ([]provider.OrderedDenyEntry, error)
}

// SyncReport summarizes one reconciliation cycle. A cycle always
// completes; failures at any granularity end up in Errors and
// ErrorMessages instead of aborting it.
type SyncReport struct {
	Verified      int      `json:"verified"`
	Updated       int      `json:"updated"`
	Errors        int      `json:"errors"`
	ErrorMessages []string `json:"error_messages"`
	TotalRules    int      `json:"total_rules"`
}

func (rep *SyncReport) fail(msg string) {
	rep.Errors++
	rep.ErrorMessages = append(rep.ErrorMessages, msg)
}

// Reconciler periodically re-derives the provider's actual rule set
// and corrects each stored rule's sync status. Cycles run
// sequentially on the scheduler goroutine; RunCycle is also called
// directly by the manual sync endpoint and by tests.
type Reconciler struct {
	store    *Store
	gw       Describer
	settings settings.Provider

	interval     time.Duration
	startupDelay time.Duration

	cron         *cron.Cron
	startupTimer *time.Timer
}

func NewReconciler(store *Store, gw Describer, sp settings.Provider, interval, startupDelay time.Duration) *Reconciler {
	return &Reconciler{
		store:        store,
		gw:           gw,
		settings:     sp,
		interval:     interval,
		startupDelay: startupDelay,
	}
}

func (r *Reconciler) Start() error {
	r.cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.runScheduled); err != nil {
		return err
	}
	r.cron.Start()

	// First cycle shortly after boot so a fresh panel converges
	// before the first full interval elapses.
	r.startupTimer = time.AfterFunc(r.startupDelay, r.runScheduled)

	log.Printf("🔄 Firewall sync scheduled every %s", r.interval)
	return nil
}

func (r *Reconciler) Stop() {
	if r.startupTimer != nil {
		r.startupTimer.Stop()
	}
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Reconciler) runScheduled() {
	report := r.RunCycle()
	log.Printf("Firewall sync cycle: %d rules, %d verified, %d updated, %d errors",
		report.TotalRules, report.Verified, report.Updated, report.Errors)
}

// RunCycle executes one reconciliation pass and returns its summary.
func (r *Reconciler) RunCycle() *SyncReport {
	report := &SyncReport{ErrorMessages: []string{}}
	defer func() {
		metrics.SyncCycles.Inc()
		metrics.SyncRuleUpdates.Add(float64(report.Updated))
		metrics.SyncErrors.Add(float64(report.Errors))
	}()

	rules, err := r.store.List()
	if err != nil {
		report.fail("load rules: " + err.Error())
		return report
	}
	report.TotalRules = len(rules)

	st, err := r.settings.Get()
	if err != nil {
		report.fail("load settings: " + err.Error())
		return report
	}
	if st == nil {
		// No provider account: no calls to make, but pending rules
		// must not stay pending forever.
		for i := range rules {
			if rules[i].SyncStatus == models.SyncPending {
				r.setStatus(&rules[i], models.SyncNotApplicable, "provider settings not configured", report)
			}
		}
		return report
	}

	var (
		allowEntries []provider.AllowListEntry
		denyEntries  []provider.OrderedDenyEntry
		allowErr     error
		denyErr      error
	)
	if st.SecurityGroupID != "" {
		if allowEntries, allowErr = r.gw.DescribeAllowList(); allowErr != nil {
			report.fail("describe security group rules: " + allowErr.Error())
		}
	}
	if st.NetworkACLID != "" {
		if denyEntries, denyErr = r.gw.DescribeOrderedList(); denyErr != nil {
			report.fail("describe network ACL entries: " + denyErr.Error())
		}
	}

	for i := range rules {
		r.reconcileRule(&rules[i], st, allowEntries, denyEntries, allowErr, denyErr, report)
	}
	return report
}

func (r *Reconciler) reconcileRule(rule *models.FirewallRule, st *settings.ProviderSettings,
	allowEntries []provider.AllowListEntry, denyEntries []provider.OrderedDenyEntry,
	allowErr, denyErr error, report *SyncReport) {

	if rule.Status == models.RuleDisabled {
		if rule.SyncStatus != models.SyncNotApplicable {
			r.setStatus(rule, models.SyncNotApplicable, "rule is disabled", report)
		}
		return
	}

	isDeny := rule.Action == models.ActionDeny

	if isDeny && st.NetworkACLID == "" {
		if rule.SyncStatus != models.SyncNotApplicable {
			r.setStatus(rule, models.SyncNotApplicable, "no network ACL configured", report)
		}
		return
	}
	if !isDeny && st.SecurityGroupID == "" {
		if rule.SyncStatus != models.SyncNotApplicable {
			r.setStatus(rule, models.SyncNotApplicable, "no security group configured", report)
		}
		return
	}

	// A failed describe only forces pending rules to failed. Settled
	// rules keep their status so a transient query error does not
	// flap them.
	queryErr := allowErr
	if isDeny {
		queryErr = denyErr
	}
	if queryErr != nil {
		if rule.SyncStatus == models.SyncPending {
			r.setStatus(rule, models.SyncFailed, queryErr.Error(), report)
		}
		return
	}

	present := false
	if isDeny {
		for _, entry := range denyEntries {
			if matchesDenyEntry(rule, entry) {
				present = true
				break
			}
		}
	} else {
		for _, entry := range allowEntries {
			if matchesAllowEntry(rule, entry) {
				present = true
				break
			}
		}
	}
	report.Verified++

	switch {
	case present && rule.SyncStatus != models.SyncSynced:
		r.setStatus(rule, models.SyncSynced, "", report)
	case !present && (rule.SyncStatus == models.SyncSynced || rule.SyncStatus == models.SyncPending):
		r.setStatus(rule, models.SyncFailed, "rule not found in provider", report)
	}
}

func (r *Reconciler) setStatus(rule *models.FirewallRule, status, syncError string, report *SyncReport) {
	if err := r.store.UpdateSyncStatus(rule.ID, status, syncError); err != nil {
		report.fail(fmt.Sprintf("update sync status of rule %s: %v", rule.ID, err))
		return
	}
	rule.SyncStatus = status
	rule.SyncError = syncError
	report.Updated++
}
