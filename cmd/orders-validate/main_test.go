package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"ordercore/internal/orders"
)

func writeOrders(t *testing.T, file *orders.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thales_orders.json")
	if err := file.Save(path); err != nil {
		t.Fatalf("save orders: %v", err)
	}
	return path
}

func sampleFile() *orders.File {
	return &orders.File{
		Metadata: orders.Metadata{
			LastUpdated: "2026-08-01T09:00:00Z",
			Version:     "1.0.0",
			Client:      "THALES",
			Source:      "sheet sync",
		},
		Orders: []map[string]string{{
			"order_id":       "FU70001236",
			"client":         "THALES",
			"code_agence":    "AG01",
			"emploi_cc":      "10A3071",
			"centre_analyse": "1FRA / PLADI/BP/PST04",
		}},
	}
}

func TestCLIAcceptsCleanFile(t *testing.T) {
	path := writeOrders(t, sampleFile())

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := cli([]string{"-orders", path}, stdout, stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "OK (1 orders, client THALES)") {
		t.Fatalf("unexpected output:\n%s", stdout.String())
	}
}

func TestCLIReportsProblems(t *testing.T) {
	file := sampleFile()
	file.Orders = append(file.Orders, map[string]string{
		"order_id": "FU70001236", // duplicate
		"client":   "OTHER",
	})
	path := writeOrders(t, file)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := cli([]string{"-orders", path}, stdout, stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "duplicate order id") || !strings.Contains(out, `client "OTHER"`) {
		t.Fatalf("unexpected findings:\n%s", out)
	}
	if !strings.Contains(stderr.String(), "problems in") {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
}

func TestCLIPrintsStatistics(t *testing.T) {
	path := writeOrders(t, sampleFile())

	stdout := &bytes.Buffer{}
	code := cli([]string{"-orders", path, "-stats"}, stdout, &bytes.Buffer{})
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "total orders:     1") || !strings.Contains(out, "agency codes:     AG01") {
		t.Fatalf("unexpected statistics:\n%s", out)
	}
}

func TestCLIMissingFile(t *testing.T) {
	stderr := &bytes.Buffer{}
	if code := cli([]string{"-orders", "/nonexistent.json"}, &bytes.Buffer{}, stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
