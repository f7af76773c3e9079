package services

import (
	"fmt"
	"time"

	"casa/internal/cache"
	"casa/internal/core"
	"casa/internal/insights"
	"casa/internal/log"
)

// TaskCounts tallies maintenance tasks by status.
type TaskCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// DashboardView is the per-scope view model.
type DashboardView struct {
	PropertyID string                     `json:"propertyId"`
	Revision   uint64                     `json:"revision"`
	Finance    insights.FinanceSummary    `json:"finance"`
	Tags       []insights.TagCount        `json:"tags"`
	Projects   []ProjectProgress          `json:"projects"`
	Policies   []insights.PolicyLedger    `json:"policies"`
	Utilities  []insights.UtilityAnalysis `json:"utilities"`
	Tasks      TaskCounts                 `json:"tasks"`
}

// DashboardBase is the clock-independent part of a dashboard: everything
// except deadlines and renewal urgency. It is what the cache holds.
type DashboardBase struct {
	View     DashboardView
	policies []core.InsurancePolicy
	accounts []core.UtilityAccount
}

// at completes the view with the parts that depend on now.
func (b DashboardBase) at(now time.Time) DashboardView {
	v := b.View
	v.Finance = insights.Finance(b.policies, b.accounts, now)
	v.Policies = make([]insights.PolicyLedger, 0, len(b.policies))
	for _, p := range b.policies {
		v.Policies = append(v.Policies, insights.Ledger(p, now))
	}
	return v
}

// DashboardService computes derived views from store snapshots. The
// clock-independent part is cached per scope and store revision, so any write
// makes the next read recompute; deadlines are rebuilt on every read.
type DashboardService struct {
	env   *Env
	cache cache.Cache[DashboardBase]
}

func NewDashboardService(env *Env, c cache.Cache[DashboardBase]) *DashboardService {
	if c == nil {
		c = cache.NewLRUCache[DashboardBase](64, 30*time.Second)
	}
	return &DashboardService{env: env, cache: c}
}

func cacheKey(scope string, rev uint64) string {
	return fmt.Sprintf("%s@%d", scope, rev)
}

// View returns the dashboard for a property, or for everything when
// propertyID is empty.
func (s *DashboardService) View(propertyID string) DashboardView {
	rev := s.env.Store.Revision()
	key := cacheKey(propertyID, rev)
	base, ok := s.cache.Get(key)
	if !ok {
		base = s.base(propertyID, rev)
		// A write that landed while computing would make this entry stale.
		if s.env.Store.Revision() == rev {
			s.cache.Set(key, base)
		} else {
			s.env.Logger.WithComponent(log.ComponentDashboard).Debug("Skipping cache fill, store moved on", log.FieldRevision, rev)
		}
	}
	return base.at(s.env.now())
}

func (s *DashboardService) compute(propertyID string, rev uint64) DashboardView {
	return s.base(propertyID, rev).at(s.env.now())
}

func (s *DashboardService) base(propertyID string, rev uint64) DashboardBase {
	all := s.env.Store.Snapshot("")
	scoped := insights.ScopeSnapshot(all, propertyID)

	view := DashboardView{
		PropertyID: propertyID,
		Revision:   rev,
		Tags:       insights.SortedTagUsage(insights.TagUsage(all)),
		Projects:   make([]ProjectProgress, 0, len(scoped.Projects)),
		Utilities:  make([]insights.UtilityAnalysis, 0, len(scoped.Utilities)),
	}
	for _, p := range scoped.Projects {
		view.Projects = append(view.Projects, projectProgress(p))
	}
	for _, a := range scoped.Utilities {
		view.Utilities = append(view.Utilities, insights.AnalyzeUtility(a))
	}
	for _, t := range scoped.Tasks {
		switch t.Status {
		case core.TaskCompleted:
			view.Tasks.Completed++
		case core.TaskInProgress:
			view.Tasks.InProgress++
		default:
			view.Tasks.Pending++
		}
	}
	return DashboardBase{View: view, policies: scoped.Policies, accounts: scoped.Utilities}
}

// Finance returns the finance summary for a scope.
func (s *DashboardService) Finance(propertyID string) insights.FinanceSummary {
	return s.View(propertyID).Finance
}

// TagUsage returns live tag usage across every property.
func (s *DashboardService) TagUsage() []insights.TagCount {
	return s.View("").Tags
}
