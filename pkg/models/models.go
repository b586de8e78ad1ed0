// Package models defines the interchange data structures shared across the application.
package models

import (
	"time"
)

// Key addresses a resource, node or statement by ID and revision.
// An empty Revision means the latest revision.
type Key struct {
	ID       string `json:"id" yaml:"id"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// NewKey returns a key for the given ID and revision.
func NewKey(id, revision string) Key {
	return Key{ID: id, Revision: revision}
}

// Matches reports whether k addresses the same revision as other.
func (k Key) Matches(other Key) bool {
	return k.ID == other.ID && k.Revision == other.Revision
}

// MultilanguageText is a single text value with optional format and language.
type MultilanguageText struct {
	Text     string `json:"text" yaml:"text"`
	Format   string `json:"format,omitempty" yaml:"format,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Text formats used for property values.
const (
	FormatPlain = "plain"
	FormatXHTML = "xhtml"
)

// Property is a named value attached to a resource. The property class
// identifies what the value means (title, description, ...).
type Property struct {
	// Class references the property class in the metadata catalog
	Class Key `json:"class" yaml:"class"`

	// Values holds the property values, usually exactly one
	Values []MultilanguageText `json:"values" yaml:"values"`
}

// Resource is the unit of content in the interchange model, e.g. one requirement.
type Resource struct {
	// ID is the stable identifier of the resource
	ID string `json:"id" yaml:"id"`

	// Revision identifies this version of the resource
	Revision string `json:"revision" yaml:"revision"`

	// Class references the resource class (e.g. "RC-Requirement")
	Class Key `json:"class" yaml:"class"`

	// Properties are the ordered property values of the resource
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`

	// ChangedAt is when the resource was last modified
	ChangedAt time.Time `json:"changedAt,omitempty" yaml:"changedAt,omitempty"`

	// ChangedBy names who last modified the resource
	ChangedBy string `json:"changedBy,omitempty" yaml:"changedBy,omitempty"`
}

// Key returns the key addressing this revision of the resource.
func (r *Resource) Key() Key {
	return Key{ID: r.ID, Revision: r.Revision}
}

// Node is a position in a hierarchy tree that references a resource.
type Node struct {
	ID                string  `json:"id" yaml:"id"`
	Revision          string  `json:"revision" yaml:"revision"`
	IsHierarchyRoot   bool    `json:"isHierarchyRoot,omitempty" yaml:"isHierarchyRoot,omitempty"`
	ProjectID         string  `json:"project,omitempty" yaml:"project,omitempty"`
	ResourceReference Key     `json:"resource" yaml:"resource"`
	Nodes             []*Node `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// Statement relates two resources. The Jira adapter does not produce statements.
type Statement struct {
	ID       string `json:"id" yaml:"id"`
	Revision string `json:"revision" yaml:"revision"`
	Class    Key    `json:"class" yaml:"class"`
	Subject  Key    `json:"subject" yaml:"subject"`
	Object   Key    `json:"object" yaml:"object"`
}

// ProjectDescriptor summarises a project offered by a data provider.
type ProjectDescriptor struct {
	ID               string              `json:"id" yaml:"id"`
	Title            []MultilanguageText `json:"title" yaml:"title"`
	Generator        string              `json:"generator,omitempty" yaml:"generator,omitempty"`
	GeneratorVersion string              `json:"generatorVersion,omitempty" yaml:"generatorVersion,omitempty"`
}

// Project is a complete interchange dataset.
type Project struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Resources   []*Resource  `json:"resources" yaml:"resources"`
	Statements  []*Statement `json:"statements" yaml:"statements"`
	Hierarchies []*Node      `json:"hierarchies" yaml:"hierarchies"`
}
