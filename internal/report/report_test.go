package report

import (
	"strings"
	"testing"

	"ordercore/internal/engine"
)

func sampleResult() engine.Result {
	return engine.Result{Outcomes: []engine.Outcome{
		{Rule: "numero_commande", Tag: engine.TagCreated, Value: "FU70001236"},
		{Rule: "emploi_cc_position_code", Tag: engine.TagUpdated, Value: "10A3071"},
		{Rule: "categorie_socio_position_level", Tag: engine.TagSkippedNoValue, Detail: "no value for categorie_socio"},
		{Rule: "broken", Tag: engine.TagFailed, Detail: "locator not-a-locator: must start with //"},
	}}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleResult())
	if summary.Total != 4 || summary.Applied != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Counts[engine.TagCreated] != 1 || summary.Counts[engine.TagFailed] != 1 {
		t.Fatalf("unexpected counts: %v", summary.Counts)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Rule != "broken" {
		t.Fatalf("unexpected failures: %v", summary.Failures)
	}
}

func TestRender(t *testing.T) {
	var buf strings.Builder
	if err := Render(&buf, "order-FU70001236.xml", sampleResult()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"document order-FU70001236.xml",
		`created`,
		`value="FU70001236"`,
		"(no value for categorie_socio)",
		"2/4 rules applied, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
}
