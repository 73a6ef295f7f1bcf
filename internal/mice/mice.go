// Package mice holds the built-in mouse reference list.
package mice

import (
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed mice.yaml
var miceYAML []byte

// ErrUnknownBrand is returned when a brand is not in the catalog.
var ErrUnknownBrand = errors.New("unknown mouse brand")

// Brand is a manufacturer and its models.
type Brand struct {
	Name   string   `yaml:"name"`
	Models []string `yaml:"models"`
}

// Catalog is an ordered list of brands.
type Catalog struct {
	Brands []Brand `yaml:"brands"`
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Parse(miceYAML)
	if err != nil {
		panic(errors.AssertionFailedf("embedded mice catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, errors.Wrap(err, "failed to decode mice catalog")
	}
	seen := make(map[string]struct{}, len(c.Brands))
	for _, b := range c.Brands {
		if strings.TrimSpace(b.Name) == "" {
			return Catalog{}, errors.New("mice catalog: brand without name")
		}
		key := strings.ToLower(b.Name)
		if _, dup := seen[key]; dup {
			return Catalog{}, errors.Newf("mice catalog: duplicate brand %q", b.Name)
		}
		seen[key] = struct{}{}
	}
	return c, nil
}

// Brand looks up a brand case-insensitively.
func (c Catalog) Brand(name string) (Brand, error) {
	for _, b := range c.Brands {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return Brand{}, errors.Wrapf(ErrUnknownBrand, "%q", name)
}

// Find reports whether a "Brand Model" label names a catalog mouse.
func (c Catalog) Find(label string) (Brand, string, bool) {
	label = strings.TrimSpace(label)
	for _, b := range c.Brands {
		prefix := b.Name + " "
		if len(label) <= len(prefix) || !strings.EqualFold(label[:len(prefix)], prefix) {
			continue
		}
		rest := label[len(prefix):]
		for _, m := range b.Models {
			if strings.EqualFold(m, rest) {
				return b, m, true
			}
		}
	}
	return Brand{}, "", false
}
