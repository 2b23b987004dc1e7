package orders

import (
	"fmt"
	"strings"

	"ordercore/pkg/facts"
	"ordercore/pkg/rules"
)

// Problem describes one validation finding. Section identifies the file
// region (metadata, orders, rules, statistics).
type Problem struct {
	Section string `json:"section"`
	Detail  string `json:"detail"`
}

func (p Problem) String() string { return p.Section + ": " + p.Detail }

// Facts every order entry must carry to be correctable.
var requiredOrderKeys = []string{
	facts.KeyOrderID,
	facts.KeyClient,
	facts.KeyJobCode,
	facts.KeyAgencyCode,
}

// Metadata fields every file must declare.
var requiredMetadata = []struct {
	name  string
	value func(Metadata) string
}{
	{"last_updated", func(m Metadata) string { return m.LastUpdated }},
	{"version", func(m Metadata) string { return m.Version }},
	{"client", func(m Metadata) string { return m.Client }},
	{"source", func(m Metadata) string { return m.Source }},
}

// Validate checks the shape and internal coherence of an orders file:
// required metadata, required per-order facts, order-id format, the
// presence of the expected correction rules, and agreement between the
// statistics block and the order list. An empty result means the file
// is usable.
func Validate(file *File) []Problem {
	var problems []Problem

	for _, field := range requiredMetadata {
		if strings.TrimSpace(field.value(file.Metadata)) == "" {
			problems = append(problems, Problem{
				Section: "metadata",
				Detail:  "missing field " + field.name,
			})
		}
	}

	problems = append(problems, validateOrders(file)...)
	problems = append(problems, validateRules(file.Rules)...)
	problems = append(problems, validateStatistics(file)...)
	return problems
}

func validateOrders(file *File) []Problem {
	var problems []Problem
	client := file.Metadata.Client
	seen := map[string]int{}

	for i, raw := range file.Orders {
		record := facts.NewRecord(raw)

		var missing []string
		for _, key := range requiredOrderKeys {
			if _, ok := record.Value(key); !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, Problem{
				Section: "orders",
				Detail:  fmt.Sprintf("order %d (%s): missing facts %s", i, orderLabel(record), strings.Join(missing, ", ")),
			})
		}

		if c, ok := record.Value(facts.KeyClient); ok && client != "" && c != client {
			problems = append(problems, Problem{
				Section: "orders",
				Detail:  fmt.Sprintf("order %d (%s): client %q does not match metadata client %q", i, orderLabel(record), c, client),
			})
		}

		id, ok := record.Value(facts.KeyOrderID)
		if !ok {
			continue
		}
		if !strings.HasPrefix(id, "FU") {
			problems = append(problems, Problem{
				Section: "orders",
				Detail:  fmt.Sprintf("order %d: unusual order id %q (expected FU prefix)", i, id),
			})
		}
		if first, dup := seen[id]; dup {
			problems = append(problems, Problem{
				Section: "orders",
				Detail:  fmt.Sprintf("order %d: duplicate order id %q (first at %d)", i, id, first),
			})
			continue
		}
		seen[id] = i
	}
	return problems
}

func validateRules(declared []rules.Rule) []Problem {
	var problems []Problem

	set, err := rules.NewSet(declared)
	if len(declared) > 0 && err != nil {
		return []Problem{{Section: "rules", Detail: err.Error()}}
	}
	if len(declared) == 0 {
		// The built-in table applies; nothing to check.
		return nil
	}

	for _, name := range rules.ExpectedNames() {
		if !set.Contains(name) {
			problems = append(problems, Problem{
				Section: "rules",
				Detail:  "missing expected rule " + name,
			})
		}
	}
	return problems
}

func validateStatistics(file *File) []Problem {
	var problems []Problem
	computed := BuildStatistics(file.Orders)

	if file.Statistics.TotalOrders < 0 {
		problems = append(problems, Problem{
			Section: "statistics",
			Detail:  fmt.Sprintf("negative total_orders %d", file.Statistics.TotalOrders),
		})
	} else if file.Statistics.TotalOrders != computed.TotalOrders {
		problems = append(problems, Problem{
			Section: "statistics",
			Detail:  fmt.Sprintf("total_orders is %d but %d orders carry an order_id", file.Statistics.TotalOrders, computed.TotalOrders),
		})
	}

	if declared, actual := len(file.Statistics.UniqueAgencyCodes), len(computed.UniqueAgencyCodes); declared != actual {
		problems = append(problems, Problem{
			Section: "statistics",
			Detail:  fmt.Sprintf("unique_agency_codes lists %d entries, orders contain %d", declared, actual),
		})
	}
	return problems
}

func orderLabel(record facts.Record) string {
	if id, ok := record.Value(facts.KeyOrderID); ok {
		return id
	}
	return "no order_id"
}
