// Package transcode maps Jira issues and projects to interchange resources
// and interchange resources back to Jira issue drafts.
package transcode

import (
	"fmt"
	"strings"

	jiraapi "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/specif-jira/internal/guid"
	"github.com/danielolaszy/specif-jira/internal/jira"
	"github.com/danielolaszy/specif-jira/internal/metadata"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

// Jira issue type names the adapter reads and writes.
const (
	RequirementType         = "Requirement"
	CustomerRequirementType = "Customer Requirement"
)

// HierarchyRevision is the fixed revision of synthetic hierarchy resources and nodes.
const HierarchyRevision = "1"

// IssueConverter converts Jira issues into interchange resources.
type IssueConverter struct {
	meta     metadata.Reader
	statuses map[string]string
}

// NewIssueConverter returns a converter that names statuses after the given
// status list.
func NewIssueConverter(meta metadata.Reader, statuses []jiraapi.Status) *IssueConverter {
	byID := make(map[string]string, len(statuses))
	for _, status := range statuses {
		byID[status.ID] = status.Name
	}
	return &IssueConverter{meta: meta, statuses: byID}
}

// IssueToResource transcodes an issue into a requirement resource.
func (c *IssueConverter) IssueToResource(issue *jira.Issue) (*models.Resource, error) {
	if issue == nil || issue.Fields == nil {
		return nil, fmt.Errorf("issue has no fields")
	}
	if issue.ID == "" || issue.Self == "" {
		return nil, fmt.Errorf("issue %s lacks id or self url", issue.Key)
	}

	updated, err := jira.ParseTimestamp(issue.Fields.Updated)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", issue.Key, err)
	}

	description, err := jira.ParseDescription(issue.Fields.Description)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", issue.Key, err)
	}

	resource, err := metadata.NewResource(c.meta, metadata.RequirementClass)
	if err != nil {
		return nil, err
	}

	resource.ID = IssueResourceID(issue)
	resource.Revision = guid.ToRevision(updated)
	resource.ChangedAt = updated
	resource.ChangedBy = issue.LastAuthor()

	values := []struct {
		title string
		value string
	}{
		{metadata.TitleProperty, issue.Fields.Summary},
		{metadata.DescriptionProperty, ADFToXHTML(description)},
		{metadata.StatusProperty, c.statusName(issue)},
	}
	if issue.TypeName() == CustomerRequirementType {
		values = append(values, struct {
			title string
			value string
		}{metadata.PerspectiveProperty, metadata.UserPerspective})
	}

	for _, v := range values {
		if v.value == "" {
			continue
		}
		if err := metadata.SetPropertyValue(c.meta, resource, v.title, v.value); err != nil {
			return nil, err
		}
	}

	return resource, nil
}

func (c *IssueConverter) statusName(issue *jira.Issue) string {
	status := issue.Fields.Status
	if status == nil {
		return ""
	}
	if name, ok := c.statuses[status.ID]; ok {
		return name
	}
	return status.Name
}

// IssueResourceID derives the interchange ID of an issue's resource.
func IssueResourceID(issue *jira.Issue) string {
	return guid.ToInterchangeID(issue.Self, issue.ID)
}

// IssueRevision derives the revision of an issue's resource from its
// last-updated timestamp.
func IssueRevision(issue *jira.Issue) (string, error) {
	if issue.Fields == nil {
		return "", fmt.Errorf("issue %s has no fields", issue.Key)
	}
	updated, err := jira.ParseTimestamp(issue.Fields.Updated)
	if err != nil {
		return "", fmt.Errorf("issue %s: %w", issue.Key, err)
	}
	return guid.ToRevision(updated), nil
}

// ProjectID derives the interchange project ID of a Jira project.
func ProjectID(project *jiraapi.Project) string {
	return guid.ToInterchangeID(project.Self, project.ID)
}

// ProjectToHierarchyResource builds the synthetic hierarchy resource that represents a
// Jira project as a hierarchy root.
func ProjectToHierarchyResource(meta metadata.Reader, project *jiraapi.Project) (*models.Resource, error) {
	resource, err := metadata.NewResource(meta, metadata.HierarchyClass)
	if err != nil {
		return nil, err
	}

	resource.ID = guid.HierarchyRootID(project.Key)
	resource.Revision = HierarchyRevision

	if err := metadata.SetPropertyValue(meta, resource, metadata.TitleProperty, "Jira Project "+project.Key); err != nil {
		return nil, err
	}
	if err := metadata.SetPropertyValue(meta, resource, metadata.DescriptionProperty, project.Name); err != nil {
		return nil, err
	}

	return resource, nil
}

// IssueTypeName selects the Jira issue type for a resource. Requirements
// written from the user perspective become customer requirements. The
// second result is false for resource classes that have no issue type.
func IssueTypeName(meta metadata.Reader, resource *models.Resource) (string, bool) {
	if resource.Class.ID != metadata.RequirementClass.ID {
		return "", false
	}
	if metadata.GetPropertyValue(meta, resource, metadata.PerspectiveProperty) == metadata.UserPerspective {
		return CustomerRequirementType, true
	}
	return RequirementType, true
}

// FindIssueType returns the ID of the project's issue type called name.
func FindIssueType(project *jiraapi.Project, name string) (string, bool) {
	for _, issueType := range project.IssueTypes {
		if issueType.Name == name {
			return issueType.ID, true
		}
	}
	return "", false
}

// ResourceToIssueDraft builds the create request for a resource in the given
// project with the given issue type.
func ResourceToIssueDraft(meta metadata.Reader, resource *models.Resource, project *jiraapi.Project, issueTypeID string) (*jira.IssueDraft, error) {
	doc, err := XHTMLToADF(metadata.GetPropertyValue(meta, resource, metadata.DescriptionProperty))
	if err != nil {
		return nil, err
	}
	// Markup without any text, such as <p></p>, is sent as no description.
	if strings.TrimSpace(doc.PlainText()) == "" {
		doc = nil
	}
	description, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	return &jira.IssueDraft{
		Fields: jira.IssueDraftFields{
			Project:     jira.Ref{ID: project.ID},
			Summary:     metadata.GetPropertyValue(meta, resource, metadata.TitleProperty),
			Description: description,
			IssueType:   jira.Ref{ID: issueTypeID},
		},
	}, nil
}
