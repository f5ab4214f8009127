package probe

import (
	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// predicateHolds reports whether every enable condition of ext is satisfied
// by the structures the pass filled. An extension without conditions always
// passes. Clauses only ever read the extension's own structures; when a
// structure was never filled (degraded device, or the extension was not
// advertised) its fields read as zero, so feature-bit conditions fail
// closed.
func predicateHolds(ext catalog.Extension, res *Result) bool {
	for _, c := range ext.Conditions {
		var fields Fields
		switch c.Source {
		case catalog.SourceProperties:
			fields = res.ExtensionProperties[ext.Alias]
		default:
			fields = res.ExtensionFeatures[ext.Alias]
		}
		if !c.Holds(fields[c.Field]) {
			return false
		}
	}
	return true
}
