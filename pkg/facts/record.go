// Package facts defines the normalized key/value record describing one
// order, together with the derived flags computed at construction time.
package facts

import (
	"sort"
	"strings"
)

// Well-known fact keys shared between record producers and the default
// correction rule table.
const (
	KeyOrderID             = "order_id"
	KeyClient              = "client"
	KeyAgencyCode          = "code_agence"
	KeyJobCode             = "emploi_cc"
	KeySocioCategory       = "categorie_socio"
	KeyRanking             = "classement_cc"
	KeyCostCenter          = "centre_analyse"
	KeyCostCenterPrefix    = "centre_analyse_prefix"
	KeyClientSIRET         = "siret_client"
	KeySiteMission         = "site_mission"
	KeyStartDate           = "date_debut"
	KeyEndDate             = "date_fin"
	KeySourceFile          = "nom_fichier"
	KeyProcessingTimestamp = "timestamp_traitement"
)

// FlagSiteNotGemenos is true when the mission site does not mention the
// GEMENOS marker. It gates the conditional worksite rule.
const FlagSiteNotGemenos = "site_not_gemenos"

const siteMarker = "GEMENOS"

// Placeholder values treated as "no fact" during normalization.
var placeholders = map[string]struct{}{
	"":        {},
	"nan":     {},
	"missing": {},
	"n/a":     {},
}

// Record holds the normalized facts for a single order plus derived
// boolean flags. Records are immutable once constructed: the correction
// engine only ever reads from them.
type Record struct {
	values map[string]string
	flags  map[string]bool
}

// NewRecord normalizes the supplied raw key/value pairs into a Record.
// Values are trimmed, placeholder sentinels are dropped, and derived
// facts and flags are computed eagerly:
//
//   - centre_analyse_prefix: first token of centre_analyse before a
//     space or slash, unless already supplied.
//   - site_not_gemenos: true when the upper-cased site_mission does NOT
//     contain the GEMENOS marker.
func NewRecord(raw map[string]string) Record {
	values := make(map[string]string, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if _, drop := placeholders[strings.ToLower(value)]; drop {
			continue
		}
		values[key] = value
	}

	if _, ok := values[KeyCostCenterPrefix]; !ok {
		if prefix := CostCenterPrefix(values[KeyCostCenter]); prefix != "" {
			values[KeyCostCenterPrefix] = prefix
		}
	}

	flags := map[string]bool{
		FlagSiteNotGemenos: !strings.Contains(strings.ToUpper(values[KeySiteMission]), siteMarker),
	}

	return Record{values: values, flags: flags}
}

// Value returns the fact stored under key. Derived boolean flags share
// the lookup namespace and stringify to "true"/"false".
func (r Record) Value(key string) (string, bool) {
	if v, ok := r.values[key]; ok {
		return v, true
	}
	if f, ok := r.flags[key]; ok {
		if f {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// Flag returns the named derived flag and whether it is defined.
func (r Record) Flag(name string) (value, ok bool) {
	value, ok = r.flags[name]
	return value, ok
}

// Keys returns the sorted fact keys present in the record.
func (r Record) Keys() []string {
	out := make([]string, 0, len(r.values))
	for k := range r.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of raw facts held by the record.
func (r Record) Len() int { return len(r.values) }

// Facts returns a defensive copy of the raw fact map.
func (r Record) Facts() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// CostCenterPrefix extracts the leading cost-center token, e.g. "1FRA"
// from "1FRA / PLADI/BP/PST04".
func CostCenterPrefix(costCenter string) string {
	costCenter = strings.TrimSpace(costCenter)
	if costCenter == "" {
		return ""
	}
	fields := strings.Fields(costCenter)
	if len(fields) == 0 {
		return ""
	}
	prefix, _, _ := strings.Cut(fields[0], "/")
	return strings.TrimSpace(prefix)
}

// NormalizeDate converts DD/MM/YYYY dates to ISO YYYY-MM-DD form.
// Timestamps (anything containing 'T') and unrecognized layouts pass
// through unchanged.
func NormalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" || strings.Contains(date, "T") {
		return date
	}
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return date
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) != 4 {
		return date
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
