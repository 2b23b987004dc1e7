package facts

import "testing"

func TestNewRecordNormalizes(t *testing.T) {
	record := NewRecord(map[string]string{
		"order_id":        "  FU70001236 ",
		"emploi_cc":       "10A3071",
		"categorie_socio": "nan",
		"classement_cc":   "",
		"centre_analyse":  "1FRA / PLADI/BP/PST04",
		"site_mission":    "LYON",
	})
	if got, ok := record.Value("order_id"); !ok || got != "FU70001236" {
		t.Fatalf("expected trimmed order_id, got %q ok=%v", got, ok)
	}
	if _, ok := record.Value("categorie_socio"); ok {
		t.Fatalf("expected nan placeholder dropped")
	}
	if _, ok := record.Value("classement_cc"); ok {
		t.Fatalf("expected empty value dropped")
	}
	if got, ok := record.Value(KeyCostCenterPrefix); !ok || got != "1FRA" {
		t.Fatalf("expected derived prefix 1FRA, got %q ok=%v", got, ok)
	}
}

func TestSiteNotGemenosFlag(t *testing.T) {
	cases := []struct {
		name string
		site string
		want bool
	}{
		{"other site", "LYON", true},
		{"marker present", "Gemenos - Site 2", false},
		{"marker lowercase", "gemenos", false},
		{"missing site", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := NewRecord(map[string]string{KeySiteMission: tc.site})
			got, ok := record.Flag(FlagSiteNotGemenos)
			if !ok {
				t.Fatalf("expected flag defined")
			}
			if got != tc.want {
				t.Fatalf("site %q: flag=%v want %v", tc.site, got, tc.want)
			}
		})
	}
}

func TestFlagSharesValueNamespace(t *testing.T) {
	record := NewRecord(map[string]string{KeySiteMission: "LYON"})
	if got, ok := record.Value(FlagSiteNotGemenos); !ok || got != "true" {
		t.Fatalf("expected stringified flag, got %q ok=%v", got, ok)
	}
	record = NewRecord(map[string]string{KeySiteMission: "GEMENOS"})
	if got, ok := record.Value(FlagSiteNotGemenos); !ok || got != "false" {
		t.Fatalf("expected false flag value, got %q ok=%v", got, ok)
	}
}

func TestRecordImmutableFacts(t *testing.T) {
	record := NewRecord(map[string]string{"order_id": "FU70001236"})
	exported := record.Facts()
	exported["order_id"] = "mutated"
	if got, _ := record.Value("order_id"); got != "FU70001236" {
		t.Fatalf("record mutated through exported map: %q", got)
	}
}

func TestCostCenterPrefix(t *testing.T) {
	cases := map[string]string{
		"1FRA / PLADI/BP/PST04": "1FRA",
		"1FRA/PLADI":            "1FRA",
		"  2BEL stuff":          "2BEL",
		"":                      "",
	}
	for in, want := range cases {
		if got := CostCenterPrefix(in); got != want {
			t.Fatalf("prefix(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"01/02/2024":           "2024-02-01",
		"1/2/2024":             "2024-02-01",
		"2024-02-01T10:00:00Z": "2024-02-01T10:00:00Z",
		"whenever":             "whenever",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("normalize(%q)=%q want %q", in, got, want)
		}
	}
}
