package probe

import (
	"testing"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// TestPredicateHolds tests clause evaluation against the probe result
func TestPredicateHolds(t *testing.T) {
	ext := catalog.Extension{
		Name:        "VK_EXT_test",
		Alias:       "test",
		HasFeatures: true,
		Conditions:  []catalog.Clause{catalog.FeatureFlag("flagX")},
	}

	tests := []struct {
		name   string
		fields Fields
		holds  bool
	}{
		{name: "flag set", fields: Fields{"flagX": 1}, holds: true},
		{name: "flag clear", fields: Fields{"flagX": 0}, holds: false},
		{name: "field absent reads zero", fields: Fields{}, holds: false},
		{name: "structure never filled reads zero", fields: nil, holds: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newResult(catalog.MakeVersion(1, 2, 0), nil)
			if tt.fields != nil {
				res.ExtensionFeatures["test"] = tt.fields
			}
			if got := predicateHolds(ext, res); got != tt.holds {
				t.Errorf("Expected predicate %v, got %v", tt.holds, got)
			}
		})
	}
}

// TestPredicateEmptyConditions tests that an extension without conditions
// always passes
func TestPredicateEmptyConditions(t *testing.T) {
	ext := catalog.Extension{Name: "VK_EXT_test"}
	res := newResult(catalog.MakeVersion(1, 2, 0), nil)
	if !predicateHolds(ext, res) {
		t.Errorf("Expected empty condition list to pass")
	}
}

// TestPredicateAllClausesMustHold tests the AND combination of clauses
func TestPredicateAllClausesMustHold(t *testing.T) {
	ext := catalog.Extension{
		Name:          "VK_EXT_test",
		Alias:         "test",
		HasProperties: true,
		Conditions: []catalog.Clause{
			catalog.PropertyFlag("srcColor"),
			catalog.PropertyFlag("dstColor"),
		},
	}

	res := newResult(catalog.MakeVersion(1, 2, 0), nil)
	res.ExtensionProperties["test"] = Fields{"srcColor": 1, "dstColor": 0}
	if predicateHolds(ext, res) {
		t.Errorf("Expected predicate to fail when one clause fails")
	}

	res.ExtensionProperties["test"]["dstColor"] = 1
	if !predicateHolds(ext, res) {
		t.Errorf("Expected predicate to pass when all clauses hold")
	}
}

// TestPredicateSourceSelection tests that clauses read the structure their
// source names
func TestPredicateSourceSelection(t *testing.T) {
	ext := catalog.Extension{
		Name:          "VK_EXT_test",
		Alias:         "test",
		HasFeatures:   true,
		HasProperties: true,
		Conditions:    []catalog.Clause{catalog.PropertyFlag("limit")},
	}

	res := newResult(catalog.MakeVersion(1, 2, 0), nil)
	// Same field name present in features only; the property clause must not
	// see it.
	res.ExtensionFeatures["test"] = Fields{"limit": 1}
	if predicateHolds(ext, res) {
		t.Errorf("Expected property clause to read the property structure")
	}
}
