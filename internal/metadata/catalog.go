// Package metadata holds the resource and property class definitions that
// give interchange properties their meaning.
package metadata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielolaszy/specif-jira/pkg/models"
)

// Well-known class and property titles used by the adapter.
const (
	TitleProperty       = "dcterms:title"
	DescriptionProperty = "dcterms:description"
	PerspectiveProperty = "SpecIF:Perspective"
	StatusProperty      = "SpecIF:Status"

	UserPerspective = "user-perspective"
)

// Resource class keys used by the adapter.
var (
	HierarchyClass   = models.NewKey("RC-Hierarchy", "1.1")
	RequirementClass = models.NewKey("RC-Requirement", "1.1")
)

// ErrUnknownClass is returned when a class key is not in the catalog.
var ErrUnknownClass = errors.New("unknown class")

//go:embed classes.yaml
var builtinCatalog []byte

// Reader provides resource-class and property-class definitions.
type Reader interface {
	ResourceClass(key models.Key) (*ResourceClass, error)
	PropertyClass(key models.Key) (*PropertyClass, error)
}

// ResourceClass describes a kind of resource and the properties it carries.
type ResourceClass struct {
	ID              string       `yaml:"id"`
	Revision        string       `yaml:"revision"`
	Title           string       `yaml:"title"`
	PropertyClasses []models.Key `yaml:"propertyClasses"`
}

// PropertyClass describes one property: its title and value format, plus
// the allowed values when it is an enumeration.
type PropertyClass struct {
	ID       string   `yaml:"id"`
	Revision string   `yaml:"revision"`
	Title    string   `yaml:"title"`
	Format   string   `yaml:"format"`
	Values   []string `yaml:"values,omitempty"`
}

// Key returns the key of the property class.
func (p *PropertyClass) Key() models.Key {
	return models.NewKey(p.ID, p.Revision)
}

// Catalog is a Reader backed by a YAML document.
type Catalog struct {
	ResourceClasses []ResourceClass `yaml:"resourceClasses"`
	PropertyClasses []PropertyClass `yaml:"propertyClasses"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	catalog, err := Load(bytes.NewReader(builtinCatalog))
	if err != nil {
		panic(fmt.Sprintf("built-in class catalog is invalid: %v", err))
	}
	return catalog
}

// LoadFile reads a catalog from path. An empty path yields the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load decodes a catalog and checks that every referenced property class exists.
func Load(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode class catalog: %w", err)
	}

	for _, rc := range catalog.ResourceClasses {
		for _, pcKey := range rc.PropertyClasses {
			if _, err := catalog.PropertyClass(pcKey); err != nil {
				return nil, fmt.Errorf("resource class %s: %w", rc.ID, err)
			}
		}
	}

	return &catalog, nil
}

// ResourceClass looks up a resource class. An empty revision matches any.
func (c *Catalog) ResourceClass(key models.Key) (*ResourceClass, error) {
	for i := range c.ResourceClasses {
		rc := &c.ResourceClasses[i]
		if rc.ID == key.ID && (key.Revision == "" || rc.Revision == key.Revision) {
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: resource class %s", ErrUnknownClass, key.ID)
}

// PropertyClass looks up a property class. An empty revision matches any.
func (c *Catalog) PropertyClass(key models.Key) (*PropertyClass, error) {
	for i := range c.PropertyClasses {
		pc := &c.PropertyClasses[i]
		if pc.ID == key.ID && (key.Revision == "" || pc.Revision == key.Revision) {
			return pc, nil
		}
	}
	return nil, fmt.Errorf("%w: property class %s", ErrUnknownClass, key.ID)
}
