package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/darkace1998/vulkan-device-info/internal/catalog"
)

// catalogFile is the yaml schema of a user-supplied capability catalog.
// Schema-level constraints live in the validate tags; the semantic
// invariants (alias rules, duplicates, version ordering) are enforced by
// catalog.New.
type catalogFile struct {
	Versions   []versionSpec   `yaml:"versions" validate:"dive"`
	Extensions []extensionSpec `yaml:"extensions" validate:"required,min=1,dive"`
}

type versionSpec struct {
	Device catalog.Version       `yaml:"device"`
	Struct catalog.StructVersion `yaml:"struct"`
}

type extensionSpec struct {
	Name       string          `yaml:"name" validate:"required"`
	Alias      string          `yaml:"alias"`
	Required   bool            `yaml:"required"`
	Features   bool            `yaml:"features"`
	Properties bool            `yaml:"properties"`
	Conditions []conditionSpec `yaml:"conditions" validate:"dive"`
	Guard      bool            `yaml:"guard"`
}

type conditionSpec struct {
	Source string `yaml:"source" validate:"required,oneof=features properties"`
	Field  string `yaml:"field" validate:"required"`
	// Op defaults to "ne" with value 0, the truthy check on a VkBool32 flag.
	Op    string `yaml:"op" validate:"omitempty,oneof=eq ne ge"`
	Value uint64 `yaml:"value"`
}

// LoadCatalog reads a capability catalog from a yaml file and constructs
// the validated catalog.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	versions := make([]catalog.CoreVersion, 0, len(file.Versions))
	for _, v := range file.Versions {
		versions = append(versions, catalog.CoreVersion{
			DeviceVersion: v.Device,
			StructVersion: v.Struct,
		})
	}

	extensions := make([]catalog.Extension, 0, len(file.Extensions))
	for _, e := range file.Extensions {
		ext := catalog.Extension{
			Name:          e.Name,
			Alias:         e.Alias,
			Required:      e.Required,
			HasFeatures:   e.Features,
			HasProperties: e.Properties,
			Guarded:       e.Guard,
		}
		for _, c := range e.Conditions {
			ext.Conditions = append(ext.Conditions, buildClause(c))
		}
		extensions = append(extensions, ext)
	}

	cat, err := catalog.New(versions, extensions)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	return cat, nil
}

func buildClause(c conditionSpec) catalog.Clause {
	clause := catalog.Clause{Field: c.Field, Value: c.Value}
	if c.Source == "properties" {
		clause.Source = catalog.SourceProperties
	}
	switch c.Op {
	case "eq":
		clause.Op = catalog.CmpEq
	case "ge":
		clause.Op = catalog.CmpGe
	default:
		clause.Op = catalog.CmpNe
	}
	return clause
}
