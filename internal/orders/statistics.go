package orders

import (
	"sort"

	"ordercore/pkg/facts"
)

// Statistics aggregates one orders file: totals, the unique values
// seen per classification fact, and the per-agency order distribution.
type Statistics struct {
	TotalOrders        int            `json:"total_orders"`
	LastUpdated        string         `json:"last_updated,omitempty"`
	UniqueAgencyCodes  []string       `json:"unique_agency_codes"`
	UniqueJobCodes     []string       `json:"unique_job_codes"`
	UniqueCategories   []string       `json:"unique_categories"`
	UniqueRankings     []string       `json:"unique_rankings"`
	OrdersPerAgency    map[string]int `json:"orders_per_agency"`
	OrdersWithJobCode  int            `json:"orders_with_job_code"`
	OrdersWithAnalysis int            `json:"orders_with_analysis_center"`
	OrdersWithDates    int            `json:"orders_with_dates"`
}

// BuildStatistics recomputes the aggregate block from the raw order
// fact maps. Unique lists are sorted for stable serialization.
func BuildStatistics(raw []map[string]string) Statistics {
	stats := Statistics{
		TotalOrders:     0,
		OrdersPerAgency: map[string]int{},
	}
	agencies := map[string]struct{}{}
	jobs := map[string]struct{}{}
	categories := map[string]struct{}{}
	rankings := map[string]struct{}{}

	for _, m := range raw {
		record := facts.NewRecord(m)
		if _, ok := record.Value(facts.KeyOrderID); !ok {
			continue
		}
		stats.TotalOrders++

		if agency, ok := record.Value(facts.KeyAgencyCode); ok {
			agencies[agency] = struct{}{}
			stats.OrdersPerAgency[agency]++
		}
		if job, ok := record.Value(facts.KeyJobCode); ok {
			jobs[job] = struct{}{}
			stats.OrdersWithJobCode++
		}
		if category, ok := record.Value(facts.KeySocioCategory); ok {
			categories[category] = struct{}{}
		}
		if ranking, ok := record.Value(facts.KeyRanking); ok {
			rankings[ranking] = struct{}{}
		}
		if _, ok := record.Value(facts.KeyCostCenter); ok {
			stats.OrdersWithAnalysis++
		}
		if _, ok := record.Value(facts.KeyStartDate); ok {
			stats.OrdersWithDates++
		}
	}

	stats.UniqueAgencyCodes = sortedKeys(agencies)
	stats.UniqueJobCodes = sortedKeys(jobs)
	stats.UniqueCategories = sortedKeys(categories)
	stats.UniqueRankings = sortedKeys(rankings)
	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
