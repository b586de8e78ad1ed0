package metadata

import (
	"fmt"

	"github.com/danielolaszy/specif-jira/pkg/models"
)

// NewResource creates a resource of the given class with one empty property
// per property class the resource class declares.
func NewResource(reader Reader, class models.Key) (*models.Resource, error) {
	rc, err := reader.ResourceClass(class)
	if err != nil {
		return nil, err
	}

	resource := &models.Resource{
		Class: models.NewKey(rc.ID, rc.Revision),
	}
	for _, pcKey := range rc.PropertyClasses {
		resource.Properties = append(resource.Properties, models.Property{Class: pcKey})
	}
	return resource, nil
}

// GetPropertyValue returns the first value of the property whose class has
// the given title, or "" when the resource has no such value.
func GetPropertyValue(reader Reader, resource *models.Resource, title string) string {
	if resource == nil {
		return ""
	}

	for _, property := range resource.Properties {
		pc, err := reader.PropertyClass(property.Class)
		if err != nil || pc.Title != title {
			continue
		}
		if len(property.Values) > 0 {
			return property.Values[0].Text
		}
	}
	return ""
}

// SetPropertyValue replaces the value of the property whose class has the
// given title. The property is added when the resource class declares it
// but the resource does not carry it yet.
func SetPropertyValue(reader Reader, resource *models.Resource, title, value string) error {
	for i := range resource.Properties {
		pc, err := reader.PropertyClass(resource.Properties[i].Class)
		if err != nil || pc.Title != title {
			continue
		}
		resource.Properties[i].Values = []models.MultilanguageText{textValue(pc, value)}
		return nil
	}

	rc, err := reader.ResourceClass(resource.Class)
	if err != nil {
		return err
	}
	for _, pcKey := range rc.PropertyClasses {
		pc, err := reader.PropertyClass(pcKey)
		if err != nil || pc.Title != title {
			continue
		}
		resource.Properties = append(resource.Properties, models.Property{
			Class:  pcKey,
			Values: []models.MultilanguageText{textValue(pc, value)},
		})
		return nil
	}

	return fmt.Errorf("resource class %s has no property %s", resource.Class.ID, title)
}

func textValue(pc *PropertyClass, value string) models.MultilanguageText {
	format := pc.Format
	if format == "" {
		format = models.FormatPlain
	}
	return models.MultilanguageText{Text: value, Format: format}
}
