//go:build vulkan

package device

import (
	"fmt"
	"log/slog"
	"strings"

	vk "github.com/darkace1998/golang-vulkan-api"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
	"github.com/darkace1998/vulkan-device-info/internal/probe"
)

// Detector opens a live query provider on top of the system Vulkan loader.
type Detector struct {
	preferred string
}

// NewDetector creates a Detector. When preferred is non-empty the physical
// device whose name contains it (case-insensitive) is selected; otherwise
// discrete devices win over integrated ones.
func NewDetector(preferred string) *Detector {
	return &Detector{preferred: preferred}
}

// Open creates a Vulkan instance, selects a physical device and returns a
// provider bound to it. Callers must Close the provider when done.
func (d *Detector) Open() (*LiveProvider, error) {
	appInfo := &vk.ApplicationInfo{
		ApplicationName:    "vulkan-device-info",
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		APIVersion:         vk.Version13,
	}

	instance, err := vk.CreateInstance(&vk.InstanceCreateInfo{ApplicationInfo: appInfo})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vulkan instance: %w", err)
	}

	devices, err := vk.EnumeratePhysicalDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance)
		return nil, fmt.Errorf("failed to enumerate physical devices: %w", err)
	}
	if len(devices) == 0 {
		vk.DestroyInstance(instance)
		return nil, fmt.Errorf("no Vulkan-capable devices found")
	}

	dev := d.selectDevice(devices)
	props := vk.GetPhysicalDeviceProperties(dev)

	p := &LiveProvider{
		instance: instance,
		dev:      dev,
		name:     props.DeviceName,
		api: catalog.Version{
			Major: uint32(props.APIVersion.Major()),
			Minor: uint32(props.APIVersion.Minor()),
			Patch: uint32(props.APIVersion.Patch()),
		},
		baseProps: probe.Fields{
			"apiVersion":    uint64(props.APIVersion),
			"driverVersion": uint64(props.DriverVersion),
			"vendorID":      uint64(props.VendorID),
			"deviceID":      uint64(props.DeviceID),
		},
	}

	slog.Info("Selected Vulkan device",
		"name", p.name,
		"api_version", p.api.String(),
	)
	return p, nil
}

// selectDevice picks a physical device: preferred-name match first, then
// discrete over integrated, then the first device enumerated.
func (d *Detector) selectDevice(devices []vk.PhysicalDevice) vk.PhysicalDevice {
	if d.preferred != "" {
		want := strings.ToLower(d.preferred)
		for _, dev := range devices {
			props := vk.GetPhysicalDeviceProperties(dev)
			if strings.Contains(strings.ToLower(props.DeviceName), want) {
				return dev
			}
		}
		slog.Warn("Preferred device not found, falling back to auto selection", "preferred", d.preferred)
	}

	for _, dev := range devices {
		if vk.GetPhysicalDeviceProperties(dev).DeviceType == 1 { // VK_PHYSICAL_DEVICE_TYPE_DISCRETE_GPU
			return dev
		}
	}
	for _, dev := range devices {
		if vk.GetPhysicalDeviceProperties(dev).DeviceType == 2 { // VK_PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU
			return dev
		}
	}
	return devices[0]
}

// LiveProvider implements probe.DeviceQueries against a live physical
// device.
type LiveProvider struct {
	instance  vk.Instance
	dev       vk.PhysicalDevice
	name      string
	api       catalog.Version
	baseProps probe.Fields
}

// DeviceName returns the selected device's name.
func (p *LiveProvider) DeviceName() string {
	return p.name
}

// APIVersion returns the device's reported core API version.
func (p *LiveProvider) APIVersion() catalog.Version {
	return p.api
}

// ExtensionNames enumerates the device's supported extension names.
func (p *LiveProvider) ExtensionNames() ([]string, error) {
	exts, err := vk.EnumerateDeviceExtensionProperties(p.dev, "")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate device extensions: %w", err)
	}
	names := make([]string, 0, len(exts))
	for _, ext := range exts {
		names = append(names, ext.ExtensionName)
	}
	return names, nil
}

// HasChainedQueries reports false: the binding exposes the core 1.0
// enumeration surface without a vkGetPhysicalDeviceFeatures2 entry point, so
// live negotiation runs the base-features path.
func (p *LiveProvider) HasChainedQueries() bool {
	return false
}

// BaseFeatures returns an empty structure; the binding does not expose the
// base feature query.
func (p *LiveProvider) BaseFeatures() probe.Fields {
	return probe.Fields{}
}

// BaseProperties returns the core identification properties of the device.
func (p *LiveProvider) BaseProperties() probe.Fields {
	return cloneFields(p.baseProps)
}

// MemoryHeaps returns nil; the binding does not expose the memory query.
func (p *LiveProvider) MemoryHeaps() []probe.MemoryHeap {
	return nil
}

// FillFeatureChain is a no-op; the provider never reports chained-query
// support.
func (p *LiveProvider) FillFeatureChain(head *probe.Link) {}

// FillPropertyChain is a no-op; the provider never reports chained-query
// support.
func (p *LiveProvider) FillPropertyChain(head *probe.Link) {}

// Capture records the provider's observable state as a Snapshot for later
// offline negotiation.
func (p *LiveProvider) Capture() (Snapshot, error) {
	names, err := p.ExtensionNames()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		DeviceName:     p.name,
		APIVersion:     p.api,
		ChainedQueries: false,
		Extensions:     names,
		Properties:     p.BaseProperties(),
	}, nil
}

// Close destroys the underlying Vulkan instance.
func (p *LiveProvider) Close() {
	vk.DestroyInstance(p.instance)
}
