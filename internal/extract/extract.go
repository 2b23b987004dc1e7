// Package extract pulls order identifiers and fact records out of raw
// inputs: uploaded XML documents and labeled free-text such as order
// confirmation emails.
package extract

import (
	"regexp"
	"strings"

	"ordercore/pkg/facts"
)

// Order identifiers are FU followed by eight digits. Element-scoped
// patterns are preferred so an id mentioned in an unrelated field does
// not win over the declared one.
var (
	idValuePattern   = regexp.MustCompile(`<IdValue[^>]*>\s*(FU\d{8})\s*</IdValue>`)
	jobCodePattern   = regexp.MustCompile(`<CustomerJobCode[^>]*>\s*(FU\d{8})\s*</CustomerJobCode>`)
	orderIDPattern   = regexp.MustCompile(`<OrderId[^>]*>[\s\S]*?(FU\d{8})`)
	bareOrderPattern = regexp.MustCompile(`\b(FU\d{8})\b`)
)

// OrderID detects the order identifier carried by a raw XML document.
// It tries element-scoped matches first and falls back to the first
// bare identifier anywhere in the payload.
func OrderID(xml []byte) (string, bool) {
	for _, pattern := range []*regexp.Regexp{idValuePattern, jobCodePattern, orderIDPattern, bareOrderPattern} {
		if m := pattern.FindSubmatch(xml); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}

// OrderIDFromName detects an order identifier embedded in a file name,
// e.g. "commande_FU70001236.xml".
func OrderIDFromName(name string) (string, bool) {
	if m := bareOrderPattern.FindStringSubmatch(name); m != nil {
		return m[1], true
	}
	return "", false
}

// Labels recognized in confirmation emails, mapped to fact keys.
var emailLabels = map[string]string{
	"commande":        facts.KeyOrderID,
	"numero commande": facts.KeyOrderID,
	"client":          facts.KeyClient,
	"code agence":     facts.KeyAgencyCode,
	"emploi cc":       facts.KeyJobCode,
	"categorie socio": facts.KeySocioCategory,
	"classement cc":   facts.KeyRanking,
	"centre analyse":  facts.KeyCostCenter,
	"site mission":    facts.KeySiteMission,
	"date debut":      facts.KeyStartDate,
	"date fin":        facts.KeyEndDate,
}

// RecordFromText extracts a fact record from labeled free text, one
// "Label: value" pair per line. It returns false when no order
// identifier can be found, since a record without an id cannot be
// matched to a document.
func RecordFromText(text string) (facts.Record, bool) {
	raw := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, known := emailLabels[normalizeLabel(label)]
		if !known {
			continue
		}
		value = strings.TrimSpace(value)
		if key == facts.KeyStartDate || key == facts.KeyEndDate {
			value = facts.NormalizeDate(value)
		}
		if _, exists := raw[key]; !exists && value != "" {
			raw[key] = value
		}
	}

	if id, ok := raw[facts.KeyOrderID]; !ok || !bareOrderPattern.MatchString(id) {
		return facts.Record{}, false
	}
	return facts.NewRecord(raw), true
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	replacer := strings.NewReplacer("é", "e", "è", "e", "ê", "e", "_", " ", "-", " ")
	label = replacer.Replace(label)
	return strings.Join(strings.Fields(label), " ")
}
