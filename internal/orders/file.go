// Package orders models the orders exchange file: the JSON document
// produced upstream from spreadsheet rows that carries the fact maps,
// the serialized rule set, and aggregate statistics for one client.
package orders

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"ordercore/pkg/facts"
	"ordercore/pkg/rules"
)

// Metadata describes the provenance of one orders file.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
	Version     string `json:"version"`
	Client      string `json:"client"`
	Source      string `json:"source"`
	Repository  string `json:"repository,omitempty"`
}

// File is the top-level orders document. Orders are raw fact maps as
// written by the upstream sync; normalization into Records happens at
// read time via Index.
type File struct {
	Metadata   Metadata            `json:"metadata"`
	Orders     []map[string]string `json:"orders"`
	Rules      []rules.Rule        `json:"rules"`
	Statistics Statistics          `json:"statistics"`
}

// Parse decodes an orders file from JSON bytes.
func Parse(data []byte) (*File, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse orders file: %w", err)
	}
	return &file, nil
}

// Load reads and decodes an orders file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	return Parse(data)
}

// Save writes the file as indented JSON, refreshing the metadata and
// statistics timestamps.
func (f *File) Save(path string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	f.Metadata.LastUpdated = now
	f.Statistics = BuildStatistics(f.Orders)
	f.Statistics.LastUpdated = now

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode orders file: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write orders file: %w", err)
	}
	return nil
}

// RuleSet builds the ordered rule set carried by the file, or the
// built-in default table when the file declares none.
func (f *File) RuleSet() (rules.Set, error) {
	if len(f.Rules) == 0 {
		return rules.DefaultSet(), nil
	}
	return rules.NewSet(f.Rules)
}

// Index maps order identifiers to normalized fact records. Orders
// without an order_id fact are dropped; on duplicate identifiers the
// first occurrence wins.
func (f *File) Index() map[string]facts.Record {
	index := make(map[string]facts.Record, len(f.Orders))
	for _, raw := range f.Orders {
		record := facts.NewRecord(raw)
		id, ok := record.Value(facts.KeyOrderID)
		if !ok {
			continue
		}
		if _, exists := index[id]; exists {
			continue
		}
		index[id] = record
	}
	return index
}

// Record returns the normalized fact record for one order identifier.
func (f *File) Record(orderID string) (facts.Record, bool) {
	record, ok := f.Index()[orderID]
	return record, ok
}

// OrderIDs returns the sorted identifiers present in the file.
func (f *File) OrderIDs() []string {
	index := f.Index()
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
