package engine

import (
	"bytes"
	"context"
	"testing"

	"ordercore/pkg/facts"
	"ordercore/pkg/rules"
	"ordercore/pkg/xmldoc"
)

const orderDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Envelope>
  <ReferenceInformation>
    <OrderId>
      <IdType>ContractID</IdType>
    </OrderId>
  </ReferenceInformation>
  <PositionCharacteristics>
    <PositionStatus>
      <Code>OLD</Code>
    </PositionStatus>
  </PositionCharacteristics>
  <WorkSite>
    <WorkSiteName>PLACEHOLDER</WorkSiteName>
  </WorkSite>
</Envelope>`

func exampleRecord(t *testing.T) facts.Record {
	t.Helper()
	return facts.NewRecord(map[string]string{
		"order_id":       "FU70001236",
		"emploi_cc":      "10A3071",
		"centre_analyse": "1FRA / PLADI/BP/PST04",
		"site_mission":   "LYON",
	})
}

func mustSet(t *testing.T, rs []rules.Rule) rules.Set {
	t.Helper()
	set, err := rules.NewSet(rs)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	return set
}

func mustDoc(t *testing.T, data string) *xmldoc.Document {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// End-to-end example: a creating rule plus a conditional updating rule,
// then a second pass that must converge to updates with no structural
// change.
func TestApplyCreateThenUpdateConvergence(t *testing.T) {
	set := mustSet(t, []rules.Rule{
		{
			Name:           "numero_commande",
			TargetLocation: "//ReferenceInformation/OrderId/IdValue",
			SourceKey:      "order_id",
			ParentLocation: "//ReferenceInformation/OrderId",
		},
		{
			Name:           "worksite_conditional",
			TargetLocation: "//WorkSite/WorkSiteName",
			SourceKey:      "centre_analyse",
			Condition:      facts.FlagSiteNotGemenos,
			ParentLocation: "//WorkSite",
		},
	})
	record := exampleRecord(t)
	doc := mustDoc(t, orderDocument)

	first := Apply(context.Background(), doc, record, set)
	if got := first.Outcomes[0]; got.Tag != TagCreated || got.Value != "FU70001236" {
		t.Fatalf("first pass rule 1: %+v", got)
	}
	if got := first.Outcomes[1]; got.Tag != TagUpdated || got.Value != "1FRA / PLADI/BP/PST04" {
		t.Fatalf("first pass rule 2: %+v", got)
	}

	afterFirst, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	second := Apply(context.Background(), doc, record, set)
	for i, outcome := range second.Outcomes {
		if outcome.Tag != TagUpdated {
			t.Fatalf("second pass outcome %d: %+v", i, outcome)
		}
	}
	afterSecond, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(afterFirst, afterSecond) {
		t.Fatalf("second pass changed the document:\n%s\n---\n%s", afterFirst, afterSecond)
	}
	if bytes.Count(afterSecond, []byte("<IdValue>")) != 1 {
		t.Fatalf("duplicate node created:\n%s", afterSecond)
	}
}

func TestApplyConditionGating(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "worksite_conditional",
		TargetLocation: "//WorkSite/WorkSiteName",
		SourceKey:      "centre_analyse",
		Condition:      facts.FlagSiteNotGemenos,
		ParentLocation: "//WorkSite",
	}})
	record := facts.NewRecord(map[string]string{
		"centre_analyse": "1FRA",
		"site_mission":   "GEMENOS",
	})
	doc := mustDoc(t, orderDocument)
	result := Apply(context.Background(), doc, record, set)
	if got := result.Outcomes[0]; got.Tag != TagSkippedCondition {
		t.Fatalf("expected condition skip despite existing target, got %+v", got)
	}
	node, err := doc.Find("//WorkSite/WorkSiteName")
	if err != nil || node == nil || node.Text() != "PLACEHOLDER" {
		t.Fatalf("gated rule must not touch the document: %v %v", node, err)
	}
}

func TestApplyUnknownConditionSkips(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "gated",
		TargetLocation: "//WorkSite/WorkSiteName",
		SourceKey:      "centre_analyse",
		Condition:      "no_such_flag",
	}})
	result := Apply(context.Background(), mustDoc(t, orderDocument), exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagSkippedCondition {
		t.Fatalf("absent flag must skip, got %+v", got)
	}
}

func TestApplyMissingValueLeavesDocumentUnchanged(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "categorie_socio_position_level",
		TargetLocation: "//PositionCharacteristics/PositionLevel",
		SourceKey:      "categorie_socio",
		ParentLocation: "//PositionCharacteristics",
	}})
	doc := mustDoc(t, orderDocument)
	before, _ := doc.Render()
	result := Apply(context.Background(), doc, exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagSkippedNoValue {
		t.Fatalf("expected no-value skip, got %+v", got)
	}
	after, _ := doc.Render()
	if !bytes.Equal(before, after) {
		t.Fatalf("document changed on skipped rule")
	}
}

func TestApplyRuleIsolation(t *testing.T) {
	set := mustSet(t, []rules.Rule{
		{Name: "broken", TargetLocation: "not-a-locator", SourceKey: "order_id"},
		{
			Name:           "emploi_cc_position_code",
			TargetLocation: "//PositionCharacteristics/PositionStatus/Code",
			SourceKey:      "emploi_cc",
			ParentLocation: "//PositionCharacteristics/PositionStatus",
		},
	})
	result := Apply(context.Background(), mustDoc(t, orderDocument), exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagFailed || got.Detail == "" {
		t.Fatalf("expected failed outcome with detail, got %+v", got)
	}
	if got := result.Outcomes[1]; got.Tag != TagUpdated || got.Value != "10A3071" {
		t.Fatalf("valid rule after failure must still run, got %+v", got)
	}
	if len(result.Failures()) != 1 {
		t.Fatalf("expected exactly one failure, got %v", result.Failures())
	}
}

func TestApplySkippedNoParent(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "centre_analyse_cost_center_code",
		TargetLocation: "//CustomerReportingRequirements/CostCenterCode",
		SourceKey:      "centre_analyse_prefix",
		ParentLocation: "//CustomerReportingRequirements",
	}})
	result := Apply(context.Background(), mustDoc(t, orderDocument), exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagSkippedNoParent {
		t.Fatalf("expected structural miss, got %+v", got)
	}
}

func TestApplyMissingTargetWithoutParentFails(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "orphan",
		TargetLocation: "//PositionCharacteristics/PositionLevel",
		SourceKey:      "emploi_cc",
	}})
	result := Apply(context.Background(), mustDoc(t, orderDocument), exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagFailed {
		t.Fatalf("unsatisfiable rule must fail, not no-op: %+v", got)
	}
}

func TestApplyMalformedParentLocatorFails(t *testing.T) {
	set := mustSet(t, []rules.Rule{{
		Name:           "bad_parent",
		TargetLocation: "//PositionCharacteristics/PositionLevel",
		SourceKey:      "emploi_cc",
		ParentLocation: "Position[Characteristics",
	}})
	result := Apply(context.Background(), mustDoc(t, orderDocument), exampleRecord(t), set)
	if got := result.Outcomes[0]; got.Tag != TagFailed {
		t.Fatalf("malformed parent locator must fail the rule: %+v", got)
	}
}

func TestResultCounts(t *testing.T) {
	result := Result{Outcomes: []Outcome{
		{Rule: "a", Tag: TagUpdated},
		{Rule: "b", Tag: TagCreated},
		{Rule: "c", Tag: TagSkippedNoValue},
		{Rule: "d", Tag: TagFailed},
	}}
	counts := result.Counts()
	if counts[TagUpdated] != 1 || counts[TagCreated] != 1 || counts[TagSkippedNoValue] != 1 || counts[TagFailed] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if result.Applied() != 2 {
		t.Fatalf("expected 2 applied, got %d", result.Applied())
	}
}
