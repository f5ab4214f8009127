package probe

import (
	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// MemoryHeap describes one device memory heap from the base memory query.
type MemoryHeap struct {
	Size        uint64 `yaml:"size"`
	DeviceLocal bool   `yaml:"device_local"`
}

// Result holds everything one probing pass learned about a device. The
// structure chains themselves are pass-scoped; their values are copied here
// before the chains are discarded.
type Result struct {
	APIVersion catalog.Version

	// Advertised is the raw extension-name set the device enumerated.
	Advertised map[string]bool

	// HaveVersion records which versioned structure sets were probed.
	HaveVersion map[catalog.StructVersion]bool

	BaseFeatures   Fields
	BaseProperties Fields
	MemoryHeaps    []MemoryHeap

	// Filled versioned structures, keyed by struct version.
	VersionFeatures   map[catalog.StructVersion]Fields
	VersionProperties map[catalog.StructVersion]Fields

	// Filled extension structures, keyed by extension alias. Extensions the
	// device does not advertise never appear here, so their fields read as
	// zero during predicate evaluation.
	ExtensionFeatures   map[string]Fields
	ExtensionProperties map[string]Fields
}

func newResult(api catalog.Version, advertised map[string]bool) *Result {
	return &Result{
		APIVersion:          api,
		Advertised:          advertised,
		HaveVersion:         make(map[catalog.StructVersion]bool),
		VersionFeatures:     make(map[catalog.StructVersion]Fields),
		VersionProperties:   make(map[catalog.StructVersion]Fields),
		ExtensionFeatures:   make(map[string]Fields),
		ExtensionProperties: make(map[string]Fields),
	}
}
