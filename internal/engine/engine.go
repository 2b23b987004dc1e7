// Package engine implements the rule-driven document correction loop:
// it applies an ordered rule set against one document and one fact
// record, mutating the document in place and producing an ordered
// per-rule outcome log.
package engine

import (
	"context"
	"errors"

	"ordercore/pkg/facts"
	"ordercore/pkg/rules"
	"ordercore/pkg/xmldoc"
)

// Apply runs every rule of the set, in declared order, against the
// document. Rules are fault-isolated: a failing rule records a Failed
// outcome and processing continues. Re-running Apply on its own output
// with the same record and set is a data-level no-op: created nodes
// resolve on the second pass and are updated with an unchanged value.
func Apply(ctx context.Context, doc *xmldoc.Document, record facts.Record, set rules.Set) Result {
	result := Result{Outcomes: make([]Outcome, 0, set.Len())}
	for _, rule := range set.Rules() {
		result.Outcomes = append(result.Outcomes, applyRule(ctx, doc, record, rule))
	}
	return result
}

func applyRule(_ context.Context, doc *xmldoc.Document, record facts.Record, rule rules.Rule) Outcome {
	if rule.Condition != "" {
		flag, ok := record.Flag(rule.Condition)
		if !ok || !flag {
			return Outcome{Rule: rule.Name, Tag: TagSkippedCondition, Detail: "condition " + rule.Condition + " not met"}
		}
	}

	value, ok := record.Value(rule.SourceKey)
	if !ok || value == "" {
		return Outcome{Rule: rule.Name, Tag: TagSkippedNoValue, Detail: "no value for " + rule.SourceKey}
	}

	target, err := doc.Find(rule.TargetLocation)
	if err != nil {
		return Outcome{Rule: rule.Name, Tag: TagFailed, Detail: err.Error()}
	}
	if target != nil {
		target.SetText(value)
		return Outcome{Rule: rule.Name, Tag: TagUpdated, Value: value}
	}

	// A rule with no existing target and no parent location can never
	// succeed; surface that as a failure, not a silent no-op.
	if rule.ParentLocation == "" {
		return Outcome{Rule: rule.Name, Tag: TagFailed, Detail: "target missing and no parent_location configured"}
	}

	label, err := xmldoc.LeafLabel(rule.TargetLocation)
	if err != nil {
		return Outcome{Rule: rule.Name, Tag: TagFailed, Detail: err.Error()}
	}
	if _, err := doc.CreateChild(rule.ParentLocation, label, value); err != nil {
		if errors.Is(err, xmldoc.ErrParentNotFound) {
			return Outcome{Rule: rule.Name, Tag: TagSkippedNoParent, Detail: err.Error()}
		}
		return Outcome{Rule: rule.Name, Tag: TagFailed, Detail: err.Error()}
	}
	return Outcome{Rule: rule.Name, Tag: TagCreated, Value: value}
}
