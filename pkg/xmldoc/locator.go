package xmldoc

import (
	"fmt"
	"regexp"
	"strings"
)

// LocatorError reports a locator that cannot be parsed. It marks a
// configuration problem in the rule set, distinct from a locator that
// simply matches nothing in a given document.
type LocatorError struct {
	Locator string
	Reason  string
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("malformed locator %q: %s", e.Locator, e.Reason)
}

var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ParseLocator splits a descendant-anchored locator into its element
// label segments. The locator must start with "//" and every segment
// must be a plain element label; predicates, wildcards and attribute
// axes are not part of the locator language.
func ParseLocator(locator string) ([]string, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return nil, &LocatorError{Locator: locator, Reason: "empty"}
	}
	if !strings.HasPrefix(trimmed, "//") {
		return nil, &LocatorError{Locator: locator, Reason: `must start with "//"`}
	}
	segments := strings.Split(trimmed[2:], "/")
	for _, segment := range segments {
		if segment == "" {
			return nil, &LocatorError{Locator: locator, Reason: "empty path segment"}
		}
		if !segmentPattern.MatchString(segment) {
			return nil, &LocatorError{Locator: locator, Reason: fmt.Sprintf("invalid segment %q", segment)}
		}
	}
	return segments, nil
}

// LeafLabel returns the final segment of a locator: the element label
// used when a missing target node is created under its parent.
func LeafLabel(locator string) (string, error) {
	segments, err := ParseLocator(locator)
	if err != nil {
		return "", err
	}
	return segments[len(segments)-1], nil
}
