package engine

// Tag classifies the result of applying one correction rule.
type Tag string

// Per-rule outcome tags. Skips are expected filtering behavior; Failed
// marks a broken rule (malformed locator or unsatisfiable creation) and
// is surfaced distinctly so operators can tell "this document lacks the
// field" from "this rule is broken".
const (
	// TagUpdated means the target node existed and its text was set.
	TagUpdated Tag = "updated"
	// TagCreated means the target was missing and a new leaf child was
	// appended under the parent location.
	TagCreated Tag = "created"
	// TagSkippedCondition means the rule's condition flag was absent or false.
	TagSkippedCondition Tag = "skipped_condition"
	// TagSkippedNoValue means the source key resolved to no value.
	TagSkippedNoValue Tag = "skipped_no_value"
	// TagSkippedNoParent means the parent location matched nothing in
	// this document variant.
	TagSkippedNoParent Tag = "skipped_no_parent"
	// TagFailed marks a rule configuration error; other rules still run.
	TagFailed Tag = "failed"
)

// Outcome records the result of one rule execution.
type Outcome struct {
	Rule   string `json:"rule"`
	Tag    Tag    `json:"tag"`
	Value  string `json:"value,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Result aggregates the ordered outcome log of one engine invocation.
// Outcomes appear in rule order and are never retracted.
type Result struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Counts returns the number of outcomes per tag.
func (r Result) Counts() map[Tag]int {
	counts := make(map[Tag]int, len(r.Outcomes))
	for _, o := range r.Outcomes {
		counts[o.Tag]++
	}
	return counts
}

// Applied returns the number of rules that mutated the document.
func (r Result) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Tag == TagUpdated || o.Tag == TagCreated {
			n++
		}
	}
	return n
}

// Failures returns the outcomes tagged Failed, preserving order.
func (r Result) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Tag == TagFailed {
			out = append(out, o)
		}
	}
	return out
}
