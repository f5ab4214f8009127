package probe

import (
	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// Fields models one filled feature or property structure as a flat
// field-to-value mapping. Feature flags follow VkBool32 semantics (nonzero
// means supported); property fields carry numeric limits. A field that was
// never filled reads as zero.
type Fields map[string]uint64

// LinkKind tells a provider which batched query a chain belongs to.
type LinkKind int

const (
	FeatureLink LinkKind = iota
	PropertyLink
)

// Link is one node of the singly linked structure chain submitted to the
// device in a batched query, the moral equivalent of a pNext entry. Exactly
// one of Struct and Alias identifies the structure: core version links carry
// Struct, extension links carry the extension's alias.
type Link struct {
	Struct catalog.StructVersion
	Alias  string
	Kind   LinkKind
	Next   *Link

	// Fields is written by the provider during the batched call. Links the
	// provider does not recognize are left untouched.
	Fields Fields
}

// IsVersion reports whether the link carries a core version structure.
func (l *Link) IsVersion() bool {
	return l.Alias == ""
}

// buildChains assembles the feature and property chains for one probing
// pass: every core revision at or below the reported API version in
// ascending struct-version order, then every advertised extension in catalog
// order, skipping guarded extensions whose guard is inactive. It also
// returns the struct versions that became active.
func buildChains(cat *catalog.Catalog, api catalog.Version, advertised map[string]bool, guards GuardSet) (featHead, propHead *Link, active []catalog.StructVersion) {
	featTail, propTail := &featHead, &propHead

	appendLink := func(tail **Link, l *Link) **Link {
		*tail = l
		return &l.Next
	}

	for _, v := range cat.Versions() {
		if !api.AtLeast(v.DeviceVersion) {
			continue
		}
		featTail = appendLink(featTail, &Link{Struct: v.StructVersion, Kind: FeatureLink})
		propTail = appendLink(propTail, &Link{Struct: v.StructVersion, Kind: PropertyLink})
		active = append(active, v.StructVersion)
	}

	for _, ext := range cat.Extensions() {
		if ext.Guarded && !guards.Active(ext.Name) {
			continue
		}
		if !advertised[ext.Name] {
			continue
		}
		if ext.HasFeatures {
			featTail = appendLink(featTail, &Link{Alias: ext.Alias, Kind: FeatureLink})
		}
		if ext.HasProperties {
			propTail = appendLink(propTail, &Link{Alias: ext.Alias, Kind: PropertyLink})
		}
	}

	return featHead, propHead, active
}

// collect copies the filled values out of a chain so the chain itself can be
// discarded when the pass ends.
func collect(head *Link) (byVersion map[catalog.StructVersion]Fields, byAlias map[string]Fields) {
	byVersion = make(map[catalog.StructVersion]Fields)
	byAlias = make(map[string]Fields)
	for l := head; l != nil; l = l.Next {
		fields := make(Fields, len(l.Fields))
		for k, v := range l.Fields {
			fields[k] = v
		}
		if l.IsVersion() {
			byVersion[l.Struct] = fields
		} else {
			byAlias[l.Alias] = fields
		}
	}
	return byVersion, byAlias
}
