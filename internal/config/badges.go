package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// BadgeSeed is one entry of the badge catalog file.
type BadgeSeed struct {
	NameEn        string `yaml:"name_en"`
	NameUr        string `yaml:"name_ur"`
	DescriptionEn string `yaml:"description_en"`
	DescriptionUr string `yaml:"description_ur"`
	Icon          string `yaml:"icon"`
	Threshold     int    `yaml:"required_points"`
}

type badgeCatalogFile struct {
	Badges []BadgeSeed `yaml:"badges"`
}

// LoadBadgeCatalog parses the yaml badge catalog and validates the threshold
// uniqueness invariant before anything touches the database.
func LoadBadgeCatalog(path string) ([]BadgeSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge catalog: %w", err)
	}

	var file badgeCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse badge catalog: %w", err)
	}

	seen := make(map[int]string, len(file.Badges))
	for _, b := range file.Badges {
		if b.NameEn == "" || b.NameUr == "" {
			return nil, fmt.Errorf("badge catalog entry missing bilingual name")
		}
		if b.Threshold < 0 {
			return nil, fmt.Errorf("badge %q has negative required_points", b.NameEn)
		}
		if prev, dup := seen[b.Threshold]; dup {
			return nil, fmt.Errorf("badges %q and %q share required_points %d", prev, b.NameEn, b.Threshold)
		}
		seen[b.Threshold] = b.NameEn
	}

	sort.Slice(file.Badges, func(i, j int) bool {
		return file.Badges[i].Threshold < file.Badges[j].Threshold
	})

	return file.Badges, nil
}
