//go:build !vulkan

package device

import (
	"errors"
	"log/slog"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
	"github.com/darkace1998/vulkan-device-info/internal/probe"
)

// ErrVulkanUnavailable is returned by Open when the binary was built
// without the vulkan build tag.
var ErrVulkanUnavailable = errors.New("vulkan support not compiled in")

// Detector opens a live query provider on top of the system Vulkan loader.
// This is a stub implementation when Vulkan support is not compiled in.
type Detector struct {
	preferred string
}

// NewDetector creates a Detector. This is a stub implementation when Vulkan
// support is not compiled in.
func NewDetector(preferred string) *Detector {
	slog.Info("Vulkan support not compiled in, using stub detector")
	return &Detector{preferred: preferred}
}

// Open always fails in the stub implementation; negotiate against a
// snapshot instead.
func (d *Detector) Open() (*LiveProvider, error) {
	return nil, ErrVulkanUnavailable
}

// LiveProvider implements probe.DeviceQueries against a live physical
// device. This is a stub implementation when Vulkan support is not compiled
// in; it is never constructed.
type LiveProvider struct{}

// DeviceName returns an empty name in the stub implementation.
func (p *LiveProvider) DeviceName() string { return "" }

// APIVersion returns a zero version in the stub implementation.
func (p *LiveProvider) APIVersion() catalog.Version { return catalog.Version{} }

// ExtensionNames reports Vulkan as unavailable in the stub implementation.
func (p *LiveProvider) ExtensionNames() ([]string, error) {
	return nil, ErrVulkanUnavailable
}

// HasChainedQueries returns false in the stub implementation.
func (p *LiveProvider) HasChainedQueries() bool { return false }

// BaseFeatures returns an empty structure in the stub implementation.
func (p *LiveProvider) BaseFeatures() probe.Fields { return probe.Fields{} }

// BaseProperties returns an empty structure in the stub implementation.
func (p *LiveProvider) BaseProperties() probe.Fields { return probe.Fields{} }

// MemoryHeaps returns nil in the stub implementation.
func (p *LiveProvider) MemoryHeaps() []probe.MemoryHeap { return nil }

// FillFeatureChain is a no-op in the stub implementation.
func (p *LiveProvider) FillFeatureChain(head *probe.Link) {}

// FillPropertyChain is a no-op in the stub implementation.
func (p *LiveProvider) FillPropertyChain(head *probe.Link) {}

// Capture reports Vulkan as unavailable in the stub implementation.
func (p *LiveProvider) Capture() (Snapshot, error) {
	return Snapshot{}, ErrVulkanUnavailable
}

// Close is a no-op in the stub implementation.
func (p *LiveProvider) Close() {}
