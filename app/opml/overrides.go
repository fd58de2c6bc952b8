package opml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type overridesFile struct {
	Mappings []mappingOverride `yaml:"mappings"`
	Remove   []string          `yaml:"remove"`
}

type mappingOverride struct {
	Raw      string `yaml:"raw"`
	Internal string `yaml:"internal"`
}

// LoadOverrides applies attribute-mapping overrides from a YAML file to
// the map. Entries without an internal name derive it from the raw name,
// the same rule Set uses. Names listed under remove are dropped from the
// table.
//
//	mappings:
//	  - raw: EMAIL
//	    internal: owner_email
//	  - raw: FEEDURL
//	remove:
//	  - RATING
func (m AttributeMap) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mappings file: %w", err)
	}

	var overrides overridesFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse mappings file: %w", err)
	}

	for _, entry := range overrides.Mappings {
		if entry.Raw == "" {
			return fmt.Errorf("mapping entry in %s has no raw attribute name", path)
		}
		if entry.Internal != "" {
			m.Set(entry.Raw, entry.Internal)
		} else {
			m.Set(entry.Raw)
		}
	}

	for _, raw := range overrides.Remove {
		m.Unset(raw)
	}

	return nil
}
