package probe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// fakeDevice implements DeviceQueries for tests.
type fakeDevice struct {
	api      catalog.Version
	exts     []string
	extErr   error
	chained  bool
	features Fields
	heaps    []MemoryHeap

	verFeats map[string]Fields
	verProps map[string]Fields
	extFeats map[string]Fields
	extProps map[string]Fields
}

func (d *fakeDevice) APIVersion() catalog.Version { return d.api }

func (d *fakeDevice) ExtensionNames() ([]string, error) {
	if d.extErr != nil {
		return nil, d.extErr
	}
	return d.exts, nil
}

func (d *fakeDevice) HasChainedQueries() bool { return d.chained }
func (d *fakeDevice) BaseFeatures() Fields    { return d.features }
func (d *fakeDevice) BaseProperties() Fields  { return Fields{} }
func (d *fakeDevice) MemoryHeaps() []MemoryHeap {
	return d.heaps
}

func (d *fakeDevice) FillFeatureChain(head *Link) {
	d.fill(head, d.verFeats, d.extFeats)
}

func (d *fakeDevice) FillPropertyChain(head *Link) {
	d.fill(head, d.verProps, d.extProps)
}

func (d *fakeDevice) fill(head *Link, byVersion, byAlias map[string]Fields) {
	for l := head; l != nil; l = l.Next {
		var src Fields
		if l.IsVersion() {
			src = byVersion[l.Struct.String()]
		} else {
			src = byAlias[l.Alias]
		}
		if src == nil {
			continue
		}
		l.Fields = make(Fields, len(src))
		for k, v := range src {
			l.Fields[k] = v
		}
	}
}

func predicateCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.CoreVersion{
			{DeviceVersion: catalog.MakeVersion(1, 2, 0), StructVersion: catalog.StructVersion{Major: 1, Minor: 1}},
		},
		[]catalog.Extension{
			{Name: "VK_EXT_plain"},
			{
				Name:        "VK_EXT_d",
				Alias:       "d",
				HasFeatures: true,
				Conditions:  []catalog.Clause{catalog.FeatureFlag("flagX")},
			},
			{Name: "VK_EXT_guarded", Guarded: true},
		},
	)
	if err != nil {
		t.Fatalf("Failed to build test catalog: %v", err)
	}
	return cat
}

// TestNegotiateEnabledMatchesAdvertised tests that an extension with no
// conditions and no guard is enabled exactly when advertised
func TestNegotiateEnabledMatchesAdvertised(t *testing.T) {
	cat := predicateCatalog(t)

	tests := []struct {
		name    string
		exts    []string
		enabled bool
	}{
		{name: "advertised", exts: []string{"VK_EXT_plain"}, enabled: true},
		{name: "not advertised", exts: nil, enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{api: catalog.MakeVersion(1, 2, 0), exts: tt.exts, chained: true}
			info, err := Negotiate(dev, cat, Options{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if info.Have["VK_EXT_plain"] != tt.enabled {
				t.Errorf("Expected enabled=%v for VK_EXT_plain, got %v", tt.enabled, info.Have["VK_EXT_plain"])
			}
			if info.Enabled.Has("VK_EXT_plain") != tt.enabled {
				t.Errorf("Expected enabled set membership %v", tt.enabled)
			}
		})
	}
}

// TestNegotiatePredicate tests predicate evaluation against the filled
// feature structure
func TestNegotiatePredicate(t *testing.T) {
	cat := predicateCatalog(t)

	tests := []struct {
		name    string
		flagX   uint64
		enabled bool
	}{
		{name: "flag set", flagX: 1, enabled: true},
		{name: "flag clear", flagX: 0, enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{
				api:      catalog.MakeVersion(1, 2, 0),
				exts:     []string{"VK_EXT_d"},
				chained:  true,
				extFeats: map[string]Fields{"d": {"flagX": tt.flagX}},
			}
			info, err := Negotiate(dev, cat, Options{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if info.Have["VK_EXT_d"] != tt.enabled {
				t.Errorf("Expected enabled=%v with flagX=%d, got %v", tt.enabled, tt.flagX, info.Have["VK_EXT_d"])
			}
		})
	}
}

// TestNegotiateGuardInactive tests that a guarded extension is disabled
// regardless of advertisement when its guard is inactive
func TestNegotiateGuardInactive(t *testing.T) {
	cat := predicateCatalog(t)
	dev := &fakeDevice{
		api:     catalog.MakeVersion(1, 2, 0),
		exts:    []string{"VK_EXT_guarded"},
		chained: true,
	}

	info, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Have["VK_EXT_guarded"] {
		t.Errorf("Expected guarded extension to be disabled without an active guard")
	}

	info, err = Negotiate(dev, cat, Options{Guards: GuardSet{"VK_EXT_guarded": true}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !info.Have["VK_EXT_guarded"] {
		t.Errorf("Expected guarded extension to be enabled with an active guard")
	}
}

// TestNegotiateRequiredMissing tests the fatal required-extension path
func TestNegotiateRequiredMissing(t *testing.T) {
	cat, err := catalog.New(nil, []catalog.Extension{
		{Name: "VK_KHR_required", Required: true},
		{Name: "VK_EXT_optional"},
	})
	if err != nil {
		t.Fatalf("Failed to build test catalog: %v", err)
	}

	dev := &fakeDevice{
		api:     catalog.MakeVersion(1, 2, 0),
		exts:    []string{"VK_EXT_optional"},
		chained: true,
	}

	info, err := Negotiate(dev, cat, Options{})
	if info != nil {
		t.Errorf("Expected no device info on required-missing failure")
	}
	var missing *RequiredMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected RequiredMissingError, got %v", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0] != "VK_KHR_required" {
		t.Errorf("Expected diagnostic naming VK_KHR_required, got %v", missing.Missing)
	}
}

// TestNegotiateEnumerationFailure tests that a failed extension enumeration
// fails the whole negotiation
func TestNegotiateEnumerationFailure(t *testing.T) {
	cat := predicateCatalog(t)
	cause := errors.New("out of host memory")
	dev := &fakeDevice{api: catalog.MakeVersion(1, 2, 0), extErr: cause}

	info, err := Negotiate(dev, cat, Options{})
	if info != nil {
		t.Errorf("Expected no device info on enumeration failure")
	}
	var enumErr *EnumerationError
	if !errors.As(err, &enumErr) {
		t.Fatalf("Expected EnumerationError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected wrapped cause to be preserved")
	}
}

// TestNegotiateDegradedDevice tests negotiation without chained query
// support: predicates read zero-initialized structures
func TestNegotiateDegradedDevice(t *testing.T) {
	cat := predicateCatalog(t)
	dev := &fakeDevice{
		api:  catalog.MakeVersion(1, 0, 0),
		exts: []string{"VK_EXT_plain", "VK_EXT_d"},
		// Even with the data present, the device cannot be asked for it.
		extFeats: map[string]Fields{"d": {"flagX": 1}},
		chained:  false,
	}

	info, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !info.Have["VK_EXT_plain"] {
		t.Errorf("Expected unconditioned extension to stay enabled on degraded device")
	}
	if info.Have["VK_EXT_d"] {
		t.Errorf("Expected feature-conditioned extension to be disabled on degraded device")
	}
	if len(info.HaveVersion) != 0 {
		t.Errorf("Expected no versioned structures on degraded device")
	}
}

// TestNegotiateIdempotent tests that two passes over the same snapshot
// produce identical results
func TestNegotiateIdempotent(t *testing.T) {
	cat := predicateCatalog(t)
	dev := &fakeDevice{
		api:      catalog.MakeVersion(1, 2, 0),
		exts:     []string{"VK_EXT_plain", "VK_EXT_d"},
		chained:  true,
		extFeats: map[string]Fields{"d": {"flagX": 1}},
		verFeats: map[string]Fields{"1.1": {"shaderDrawParameters": 1}},
	}

	first, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Enabled, second.Enabled) {
		t.Errorf("Expected identical enabled sets, got %v and %v", first.Enabled, second.Enabled)
	}
	if !reflect.DeepEqual(first.Have, second.Have) {
		t.Errorf("Expected identical decisions, got %v and %v", first.Have, second.Have)
	}
}

// TestNegotiateEnabledOrder tests that the enabled set preserves catalog
// declaration order
func TestNegotiateEnabledOrder(t *testing.T) {
	cat, err := catalog.New(nil, []catalog.Extension{
		{Name: "VK_EXT_one"},
		{Name: "VK_EXT_two"},
		{Name: "VK_EXT_three"},
	})
	if err != nil {
		t.Fatalf("Failed to build test catalog: %v", err)
	}

	// Advertised in reverse order; the enabled set must follow the catalog.
	dev := &fakeDevice{
		api:     catalog.MakeVersion(1, 0, 0),
		exts:    []string{"VK_EXT_three", "VK_EXT_one"},
		chained: true,
	}

	info, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"VK_EXT_one", "VK_EXT_three"}
	if !reflect.DeepEqual(info.Enabled.Names, want) {
		t.Errorf("Expected enabled order %v, got %v", want, info.Enabled.Names)
	}
	if info.Enabled.Count() != 2 {
		t.Errorf("Expected count 2, got %d", info.Enabled.Count())
	}
}

// TestNegotiateVersionedStructures tests that versioned structure values are
// copied into the result
func TestNegotiateVersionedStructures(t *testing.T) {
	cat := predicateCatalog(t)
	dev := &fakeDevice{
		api:      catalog.MakeVersion(1, 2, 0),
		chained:  true,
		verFeats: map[string]Fields{"1.1": {"shaderDrawParameters": 1}},
	}

	info, err := Negotiate(dev, cat, Options{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	sv := catalog.StructVersion{Major: 1, Minor: 1}
	if !info.HaveVersion[sv] {
		t.Errorf("Expected struct version 1.1 to be active")
	}
	if info.VersionFeatures[sv]["shaderDrawParameters"] != 1 {
		t.Errorf("Expected versioned feature fields in result")
	}
}
