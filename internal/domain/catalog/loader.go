package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"gopkg.in/yaml.v3"
)

// ErrCatalogNotFound is returned when the override file does not exist
var ErrCatalogNotFound = errors.New("catalog file not found")

// overrideFile is the YAML layout of a catalog override. A nil list keeps the
// base catalog's entries for that kind; an explicit empty list clears them.
type overrideFile struct {
	Tasks              []servicepack.Task              `yaml:"tasks"`
	Skills             []servicepack.Skill             `yaml:"skills"`
	BOMItems           []servicepack.BOMItem           `yaml:"bom_items"`
	Tools              []servicepack.Tool              `yaml:"tools"`
	SOPs               []servicepack.SOP               `yaml:"sops"`
	SafetyInstructions []servicepack.SafetyInstruction `yaml:"safety_instructions"`
}

// LoadFile reads a YAML override and merges it over base
func LoadFile(path string, base *Catalog) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return LoadBytes(data, base)
}

// LoadBytes parses a YAML override and merges it over base. Every entry in
// the override is validated with the same rules applied on insertion.
func LoadBytes(data []byte, base *Catalog) (*Catalog, error) {
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	merged := base.Composition()
	if f.Tasks != nil {
		merged.Tasks = f.Tasks
	}
	if f.Skills != nil {
		merged.Skills = f.Skills
	}
	if f.BOMItems != nil {
		merged.BOMItems = f.BOMItems
	}
	if f.Tools != nil {
		merged.Tools = f.Tools
	}
	if f.SOPs != nil {
		merged.SOPs = f.SOPs
	}
	if f.SafetyInstructions != nil {
		merged.SafetyInstructions = f.SafetyInstructions
	}

	if err := validateAll(merged.Tasks); err != nil {
		return nil, err
	}
	if err := validateAll(merged.Skills); err != nil {
		return nil, err
	}
	if err := validateAll(merged.BOMItems); err != nil {
		return nil, err
	}
	if err := validateAll(merged.Tools); err != nil {
		return nil, err
	}
	if err := validateAll(merged.SOPs); err != nil {
		return nil, err
	}
	if err := validateAll(merged.SafetyInstructions); err != nil {
		return nil, err
	}
	return New(merged), nil
}

func validateAll[T servicepack.Entry](entries []T) error {
	for i, e := range entries {
		if err := servicepack.ValidateEntry(e); err != nil {
			return fmt.Errorf("catalog %s entry %d: %w", e.Kind(), i, err)
		}
	}
	return nil
}
