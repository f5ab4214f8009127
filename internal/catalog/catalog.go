// Package catalog defines the declarative registry of Vulkan core versions
// and device extensions that capability negotiation knows about.
package catalog

import (
	"fmt"
	"strings"
)

// Version is a device API version triple, compared with Vulkan's packed
// version encoding.
type Version struct {
	Major uint32 `yaml:"major"`
	Minor uint32 `yaml:"minor"`
	Patch uint32 `yaml:"patch"`
}

// MakeVersion builds a Version from its components.
func MakeVersion(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Packed returns the VK_MAKE_VERSION encoding of v.
func (v Version) Packed() uint32 {
	return v.Major<<22 | v.Minor<<12 | v.Patch
}

// AtLeast reports whether v is greater than or equal to o.
func (v Version) AtLeast(o Version) bool {
	return v.Packed() >= o.Packed()
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// StructVersion identifies which versioned feature/property structure pair
// applies to a core revision, e.g. 1.1 for the Vulkan11 structures.
type StructVersion struct {
	Major uint32 `yaml:"major"`
	Minor uint32 `yaml:"minor"`
}

func (s StructVersion) String() string {
	return fmt.Sprintf("%d.%d", s.Major, s.Minor)
}

func (s StructVersion) ordinal() uint64 {
	return uint64(s.Major)<<32 | uint64(s.Minor)
}

// CoreVersion declares one core API revision whose versioned structures are
// probed when the device reports at least DeviceVersion.
type CoreVersion struct {
	DeviceVersion Version
	StructVersion StructVersion
}

// ClauseSource selects which of an extension's own structures a clause
// reads from.
type ClauseSource int

const (
	SourceFeatures ClauseSource = iota
	SourceProperties
)

func (s ClauseSource) String() string {
	if s == SourceProperties {
		return "properties"
	}
	return "features"
}

// Comparator is the comparison operator of a clause.
type Comparator int

const (
	CmpEq Comparator = iota
	CmpNe
	CmpGe
)

func (c Comparator) String() string {
	switch c {
	case CmpNe:
		return "!="
	case CmpGe:
		return ">="
	default:
		return "=="
	}
}

// Clause is one enable condition: a comparison of a field of the owning
// extension's feature or property structure against a literal. Feature flags
// follow VkBool32 semantics, so nonzero means true.
type Clause struct {
	Source ClauseSource
	Field  string
	Op     Comparator
	Value  uint64
}

// FeatureFlag builds the common truthy condition on a feature bit.
func FeatureFlag(field string) Clause {
	return Clause{Source: SourceFeatures, Field: field, Op: CmpNe, Value: 0}
}

// PropertyFlag builds the common truthy condition on a property bit.
func PropertyFlag(field string) Clause {
	return Clause{Source: SourceProperties, Field: field, Op: CmpNe, Value: 0}
}

// Holds reports whether the clause is satisfied by the given field value.
func (c Clause) Holds(v uint64) bool {
	switch c.Op {
	case CmpNe:
		return v != c.Value
	case CmpGe:
		return v >= c.Value
	default:
		return v == c.Value
	}
}

func (c Clause) String() string {
	return fmt.Sprintf("%s.%s %s %d", c.Source, c.Field, c.Op, c.Value)
}

// Extension declares one optional device extension and how to decide whether
// it ends up enabled.
type Extension struct {
	// Name is the canonical extension identifier, e.g. "VK_EXT_robustness2".
	Name string
	// Alias is the short identifier used to name the extension's feature and
	// property structures. Mandatory when either structure is declared.
	Alias string
	// Required marks extensions whose absence fails the whole negotiation.
	Required bool
	// HasFeatures and HasProperties declare which structures to probe.
	HasFeatures   bool
	HasProperties bool
	// Conditions are the enable clauses, combined with logical AND. When
	// empty the extension is enabled whenever the device advertises Name.
	Conditions []Clause
	// Guarded extensions are only considered when their guard is active;
	// with the guard inactive they are unconditionally unsupported.
	Guarded bool
}

// ConfigError reports one invalid catalog entry.
type ConfigError struct {
	Entry  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("catalog entry %s: %s", e.Entry, e.Reason)
}

// ConfigErrors collects every invalid entry found during construction.
type ConfigErrors []ConfigError

func (e ConfigErrors) Error() string {
	if len(e) == 0 {
		return "no catalog errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d catalog errors: ", len(e)))
	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Catalog is the immutable, ordered registry of core versions and
// extensions. Declaration order is a semantic contract: it dictates probe
// chain order and the order of the final enabled-extension list.
type Catalog struct {
	versions   []CoreVersion
	extensions []Extension
}

// New validates the declarations and builds a Catalog. It rejects an
// extension that declares feature or property structures without an alias,
// duplicate names or aliases, and a core revision whose struct version lies
// above its device version.
func New(versions []CoreVersion, extensions []Extension) (*Catalog, error) {
	var errs ConfigErrors

	for i, v := range versions {
		if v.StructVersion.Major > v.DeviceVersion.Major ||
			(v.StructVersion.Major == v.DeviceVersion.Major && v.StructVersion.Minor > v.DeviceVersion.Minor) {
			errs = append(errs, ConfigError{
				Entry:  v.StructVersion.String(),
				Reason: fmt.Sprintf("struct version above device version %s", v.DeviceVersion),
			})
		}
		if i > 0 && versions[i-1].StructVersion.ordinal() >= v.StructVersion.ordinal() {
			errs = append(errs, ConfigError{
				Entry:  v.StructVersion.String(),
				Reason: "core versions must be declared in ascending struct-version order",
			})
		}
	}

	names := make(map[string]bool, len(extensions))
	aliases := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if ext.Name == "" {
			errs = append(errs, ConfigError{Entry: "(unnamed)", Reason: "name cannot be empty"})
			continue
		}
		if names[ext.Name] {
			errs = append(errs, ConfigError{Entry: ext.Name, Reason: "duplicate extension name"})
		}
		names[ext.Name] = true

		if ext.Alias == "" && (ext.HasFeatures || ext.HasProperties) {
			errs = append(errs, ConfigError{
				Entry:  ext.Name,
				Reason: "alias must be set when feature or property structures are declared",
			})
		}
		if ext.Alias != "" && !ext.HasFeatures && !ext.HasProperties {
			errs = append(errs, ConfigError{
				Entry:  ext.Name,
				Reason: "alias is only meaningful when feature or property structures are declared",
			})
		}
		if ext.Alias != "" {
			if aliases[ext.Alias] {
				errs = append(errs, ConfigError{Entry: ext.Name, Reason: fmt.Sprintf("duplicate alias %q", ext.Alias)})
			}
			aliases[ext.Alias] = true
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	c := &Catalog{
		versions:   make([]CoreVersion, len(versions)),
		extensions: make([]Extension, len(extensions)),
	}
	copy(c.versions, versions)
	copy(c.extensions, extensions)
	return c, nil
}

// Versions returns the core revisions in declaration order.
func (c *Catalog) Versions() []CoreVersion {
	out := make([]CoreVersion, len(c.versions))
	copy(out, c.versions)
	return out
}

// Extensions returns the extension declarations in declaration order.
func (c *Catalog) Extensions() []Extension {
	out := make([]Extension, len(c.extensions))
	copy(out, c.extensions)
	return out
}
