// Package rules defines the declarative correction rule table: an
// ordered, immutable sequence of rules binding fact keys to document
// locations.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rule binds a fact key to a document location. TargetLocation and
// ParentLocation are descendant-anchored locators (see pkg/xmldoc).
// Condition names a derived boolean flag; when set, the rule is skipped
// unless the flag is present and true. Position and Group are advisory
// metadata carried for reporting; creation is always append-only.
type Rule struct {
	Name           string `json:"name"`
	TargetLocation string `json:"target_location"`
	SourceKey      string `json:"source_key"`
	Condition      string `json:"condition,omitempty"`
	ParentLocation string `json:"parent_location,omitempty"`
	Group          string `json:"group,omitempty"`
	Position       string `json:"position,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Set is an ordered, immutable rule sequence. Construct via NewSet.
type Set struct {
	rules []Rule
}

// NewSet validates and freezes an ordered rule sequence. Rule names
// must be unique and non-empty; target location and source key are
// required. Locator syntax is not validated here: a malformed locator
// is a per-rule engine failure, not a construction error.
func NewSet(rules []Rule) (Set, error) {
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return Set{}, fmt.Errorf("rule %d: name required", i)
		}
		if _, dup := seen[name]; dup {
			return Set{}, fmt.Errorf("rule %s: duplicate name", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(rule.TargetLocation) == "" {
			return Set{}, fmt.Errorf("rule %s: target_location required", name)
		}
		if strings.TrimSpace(rule.SourceKey) == "" {
			return Set{}, fmt.Errorf("rule %s: source_key required", name)
		}
	}
	return Set{rules: append([]Rule(nil), rules...)}, nil
}

// ParseSet decodes a serialized rule array and validates it as a Set.
func ParseSet(data []byte) (Set, error) {
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return Set{}, fmt.Errorf("decode rules: %w", err)
	}
	return NewSet(rules)
}

// Rules returns a defensive copy of the ordered rule sequence.
func (s Set) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Len reports the number of rules in the set.
func (s Set) Len() int { return len(s.rules) }

// Names returns rule names in declared order.
func (s Set) Names() []string {
	out := make([]string, len(s.rules))
	for i, rule := range s.rules {
		out[i] = rule.Name
	}
	return out
}

// Contains reports whether the set declares a rule with the given name.
func (s Set) Contains(name string) bool {
	for _, rule := range s.rules {
		if rule.Name == name {
			return true
		}
	}
	return false
}
