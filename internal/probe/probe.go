// Package probe runs the device capability negotiation pass: it sequences
// the native queries, assembles the structure chains, evaluates extension
// enable conditions against the filled structures, and resolves the final
// enabled-extension set.
package probe

import (
	"log/slog"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// DeviceQueries is the native query surface one negotiation pass consumes.
// Implementations are expected to block until each query returns.
type DeviceQueries interface {
	// APIVersion returns the device's reported core API version.
	APIVersion() catalog.Version

	// ExtensionNames enumerates the extension names the device advertises.
	// An error here fails the whole negotiation.
	ExtensionNames() ([]string, error)

	// HasChainedQueries reports whether the device supports the batched
	// chain-filling queries. Older devices without them are probed in a
	// degraded mode where only base features are available.
	HasChainedQueries() bool

	// BaseFeatures, BaseProperties and MemoryHeaps return the unversioned
	// base structures, which every device can report.
	BaseFeatures() Fields
	BaseProperties() Fields
	MemoryHeaps() []MemoryHeap

	// FillFeatureChain and FillPropertyChain perform one batched query each,
	// writing Fields into every chain link the device recognizes and leaving
	// the rest untouched.
	FillFeatureChain(head *Link)
	FillPropertyChain(head *Link)
}

// GuardSet holds the names of guarded extensions whose guard is active for
// this target. Guarded extensions outside the set are unconditionally
// unsupported.
type GuardSet map[string]bool

// Active reports whether the guard for name is active.
func (g GuardSet) Active(name string) bool {
	return g[name]
}

// Options configures one negotiation pass.
type Options struct {
	// Guards marks which extension guards are active.
	Guards GuardSet
	// PassID, when set, is attached to every log line of the pass.
	PassID string
}

// DeviceInfo is the negotiated capability model for one physical device: the
// probe result plus the per-extension decisions and the final enabled set.
type DeviceInfo struct {
	Result

	// Have records the enablement decision for every catalog extension.
	Have map[string]bool

	// Enabled is the externally consumed artifact: enabled extension names
	// in catalog order.
	Enabled EnabledSet
}

// Negotiate runs one synchronous capability negotiation pass against a
// device. The query order is fixed: extension-name enumeration, batched
// feature query, batched property query, predicate evaluation, resolution.
// The pass is one-shot; callers wanting retry semantics run a fresh pass.
func Negotiate(dev DeviceQueries, cat *catalog.Catalog, opts Options) (*DeviceInfo, error) {
	log := slog.Default()
	if opts.PassID != "" {
		log = log.With("pass", opts.PassID)
	}

	api := dev.APIVersion()
	log.Debug("Probing device capabilities", "api_version", api.String())

	names, err := dev.ExtensionNames()
	if err != nil {
		return nil, &EnumerationError{Err: err}
	}
	advertised := make(map[string]bool, len(names))
	for _, n := range names {
		advertised[n] = true
	}

	res := newResult(api, advertised)
	res.BaseFeatures = dev.BaseFeatures()
	res.BaseProperties = dev.BaseProperties()
	res.MemoryHeaps = dev.MemoryHeaps()

	if dev.HasChainedQueries() {
		featHead, propHead, active := buildChains(cat, api, advertised, opts.Guards)
		if featHead != nil {
			dev.FillFeatureChain(featHead)
		}
		if propHead != nil {
			dev.FillPropertyChain(propHead)
		}
		res.VersionFeatures, res.ExtensionFeatures = collect(featHead)
		res.VersionProperties, res.ExtensionProperties = collect(propHead)
		for _, v := range active {
			res.HaveVersion[v] = true
			log.Debug("Versioned structures probed", "struct_version", v.String())
		}
	} else {
		log.Warn("Device lacks chained capability queries, probing base features only",
			"api_version", api.String(),
		)
	}

	enabled, have, err := resolve(cat, res, opts.Guards, log)
	if err != nil {
		return nil, err
	}

	log.Info("Device capability negotiation complete",
		"api_version", api.String(),
		"advertised", len(names),
		"enabled", enabled.Count(),
	)
	return &DeviceInfo{Result: *res, Have: have, Enabled: enabled}, nil
}
