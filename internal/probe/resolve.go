package probe

import (
	"log/slog"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// EnabledSet is the ordered list of extension names that passed resolution,
// in catalog declaration order.
type EnabledSet struct {
	Names []string
}

// Count returns the number of enabled extensions.
func (s EnabledSet) Count() int {
	return len(s.Names)
}

// Has reports whether name is in the enabled set.
func (s EnabledSet) Has(name string) bool {
	for _, n := range s.Names {
		if n == name {
			return true
		}
	}
	return false
}

// resolve computes the final enabled set from the probe result. Per
// extension, in catalog order: enabled = advertised AND predicate, forced
// false when the extension is guarded and its guard inactive. A missing
// required extension fails the whole resolution, but only after every entry
// has been evaluated, so the diagnostics are complete.
func resolve(cat *catalog.Catalog, res *Result, guards GuardSet, log *slog.Logger) (EnabledSet, map[string]bool, error) {
	var set EnabledSet
	var missing []string
	have := make(map[string]bool)

	for _, ext := range cat.Extensions() {
		enabled := false
		if !ext.Guarded || guards.Active(ext.Name) {
			enabled = res.Advertised[ext.Name] && predicateHolds(ext, res)
		}
		have[ext.Name] = enabled

		if enabled {
			set.Names = append(set.Names, ext.Name)
		} else if ext.Required {
			log.Error("Required device extension not supported", "extension", ext.Name)
			missing = append(missing, ext.Name)
		}
	}

	if len(missing) > 0 {
		return EnabledSet{}, nil, &RequiredMissingError{Missing: missing}
	}
	return set, have, nil
}
