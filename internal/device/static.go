// Package device provides the query providers a negotiation pass runs
// against: a snapshot-backed provider for offline use and tests, and a live
// provider on top of the system Vulkan loader when compiled with the vulkan
// build tag.
package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
	"github.com/darkace1998/vulkan-device-info/internal/probe"
)

// Snapshot is a serializable record of everything a negotiation pass can
// observe about one physical device. Versioned structures are keyed by
// struct version ("1.1"), extension structures by catalog alias.
type Snapshot struct {
	DeviceName     string          `yaml:"device_name,omitempty"`
	APIVersion     catalog.Version `yaml:"api_version"`
	ChainedQueries bool            `yaml:"chained_queries"`
	Extensions     []string        `yaml:"extensions"`

	Features    probe.Fields       `yaml:"features,omitempty"`
	Properties  probe.Fields       `yaml:"properties,omitempty"`
	MemoryHeaps []probe.MemoryHeap `yaml:"memory_heaps,omitempty"`

	VersionFeatures     map[string]probe.Fields `yaml:"version_features,omitempty"`
	VersionProperties   map[string]probe.Fields `yaml:"version_properties,omitempty"`
	ExtensionFeatures   map[string]probe.Fields `yaml:"extension_features,omitempty"`
	ExtensionProperties map[string]probe.Fields `yaml:"extension_properties,omitempty"`
}

// LoadSnapshot reads a device snapshot from a yaml file.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return snap, nil
}

// WriteFile writes the snapshot to path as yaml.
func (s Snapshot) WriteFile(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// StaticProvider serves device queries from a Snapshot instead of live
// native calls. It implements probe.DeviceQueries.
type StaticProvider struct {
	snap Snapshot
}

// NewStaticProvider creates a provider backed by snap.
func NewStaticProvider(snap Snapshot) *StaticProvider {
	return &StaticProvider{snap: snap}
}

// APIVersion returns the snapshot's reported API version.
func (p *StaticProvider) APIVersion() catalog.Version {
	return p.snap.APIVersion
}

// ExtensionNames returns the snapshot's advertised extension names.
func (p *StaticProvider) ExtensionNames() ([]string, error) {
	out := make([]string, len(p.snap.Extensions))
	copy(out, p.snap.Extensions)
	return out, nil
}

// HasChainedQueries reports whether the snapshot recorded batched-query
// support.
func (p *StaticProvider) HasChainedQueries() bool {
	return p.snap.ChainedQueries
}

// BaseFeatures returns the snapshot's base feature structure.
func (p *StaticProvider) BaseFeatures() probe.Fields {
	return cloneFields(p.snap.Features)
}

// BaseProperties returns the snapshot's base property structure.
func (p *StaticProvider) BaseProperties() probe.Fields {
	return cloneFields(p.snap.Properties)
}

// MemoryHeaps returns the snapshot's memory heaps.
func (p *StaticProvider) MemoryHeaps() []probe.MemoryHeap {
	out := make([]probe.MemoryHeap, len(p.snap.MemoryHeaps))
	copy(out, p.snap.MemoryHeaps)
	return out
}

// FillFeatureChain fills every feature chain link the snapshot has data for.
func (p *StaticProvider) FillFeatureChain(head *probe.Link) {
	fillChain(head, p.snap.VersionFeatures, p.snap.ExtensionFeatures)
}

// FillPropertyChain fills every property chain link the snapshot has data
// for.
func (p *StaticProvider) FillPropertyChain(head *probe.Link) {
	fillChain(head, p.snap.VersionProperties, p.snap.ExtensionProperties)
}

func fillChain(head *probe.Link, byVersion, byAlias map[string]probe.Fields) {
	for l := head; l != nil; l = l.Next {
		var src probe.Fields
		if l.IsVersion() {
			src = byVersion[l.Struct.String()]
		} else {
			src = byAlias[l.Alias]
		}
		if src == nil {
			continue
		}
		l.Fields = cloneFields(src)
	}
}

func cloneFields(src probe.Fields) probe.Fields {
	out := make(probe.Fields, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
