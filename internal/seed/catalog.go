package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var catalogYAML []byte

// Catalog is the vocabulary demo profiles are drawn from.
type Catalog struct {
	AcademicInterests    []string `yaml:"academic_interests"`
	NonAcademicInterests []string `yaml:"non_academic_interests"`
	LookingFor           []string `yaml:"looking_for"`
	Genders              []string `yaml:"genders"`
	Bios                 []string `yaml:"bios"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document and checks that every list the
// factory draws from is populated.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	required := map[string][]string{
		"academic_interests":     c.AcademicInterests,
		"non_academic_interests": c.NonAcademicInterests,
		"looking_for":            c.LookingFor,
		"bios":                   c.Bios,
	}
	for name, list := range required {
		if len(list) == 0 {
			return nil, fmt.Errorf("seed catalog: %s is empty", name)
		}
	}
	if len(c.Genders) == 0 {
		c.Genders = []string{""}
	}
	return &c, nil
}
