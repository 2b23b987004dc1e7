package extract

import (
	"testing"

	"ordercore/pkg/facts"
)

func TestOrderID(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
		ok   bool
	}{
		{
			name: "id value element",
			xml:  `<OrderId><IdType>ContractID</IdType><IdValue>FU70001236</IdValue></OrderId>`,
			want: "FU70001236",
			ok:   true,
		},
		{
			name: "customer job code element",
			xml:  `<CustomerJobCode>FU70009999</CustomerJobCode>`,
			want: "FU70009999",
			ok:   true,
		},
		{
			name: "scoped match wins over earlier bare mention",
			xml:  `<Comment>see FU70001111</Comment><IdValue>FU70002222</IdValue>`,
			want: "FU70002222",
			ok:   true,
		},
		{
			name: "bare fallback",
			xml:  `<Notes>commande FU70003333 confirmee</Notes>`,
			want: "FU70003333",
			ok:   true,
		},
		{
			name: "too few digits",
			xml:  `<IdValue>FU1234</IdValue>`,
		},
		{
			name: "no id at all",
			xml:  `<Envelope><WorkSite/></Envelope>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OrderID([]byte(tt.xml))
			if ok != tt.ok || got != tt.want {
				t.Fatalf("OrderID(%q) = %q, %v; want %q, %v", tt.xml, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOrderIDFromName(t *testing.T) {
	if id, ok := OrderIDFromName("commande_FU70001236.xml"); !ok || id != "FU70001236" {
		t.Fatalf("got %q, %v", id, ok)
	}
	if _, ok := OrderIDFromName("commande.xml"); ok {
		t.Fatalf("expected no id in plain name")
	}
}

func TestRecordFromText(t *testing.T) {
	text := "Bonjour,\n" +
		"Numéro Commande: FU70001236\n" +
		"Client: THALES\n" +
		"Code Agence: AG01\n" +
		"Emploi CC: 10A3071\n" +
		"Centre Analyse: 1FRA / PLADI/BP/PST04\n" +
		"Site Mission: LYON\n" +
		"Date Début: 05/01/2026\n" +
		"Cordialement\n"

	record, ok := RecordFromText(text)
	if !ok {
		t.Fatalf("expected a record")
	}
	checks := map[string]string{
		facts.KeyOrderID:          "FU70001236",
		facts.KeyClient:           "THALES",
		facts.KeyJobCode:          "10A3071",
		facts.KeyCostCenterPrefix: "1FRA",
		facts.KeyStartDate:        "2026-01-05",
	}
	for key, want := range checks {
		if got, _ := record.Value(key); got != want {
			t.Fatalf("%s = %q, want %q", key, got, want)
		}
	}
	if flag, _ := record.Flag(facts.FlagSiteNotGemenos); !flag {
		t.Fatalf("LYON must set site_not_gemenos")
	}
}

func TestRecordFromTextRequiresOrderID(t *testing.T) {
	if _, ok := RecordFromText("Client: THALES\nEmploi CC: 10A3071\n"); ok {
		t.Fatalf("text without an order id must yield no record")
	}
	if _, ok := RecordFromText("Commande: not-an-id\nClient: THALES\n"); ok {
		t.Fatalf("malformed order id must yield no record")
	}
}

func TestRecordFromTextFirstLabelWins(t *testing.T) {
	record, ok := RecordFromText("Commande: FU70001111\nCommande: FU70002222\n")
	if !ok {
		t.Fatalf("expected a record")
	}
	if id, _ := record.Value(facts.KeyOrderID); id != "FU70001111" {
		t.Fatalf("first labeled value must win, got %q", id)
	}
}
