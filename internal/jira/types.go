package jira

import (
	"encoding/json"

	jira "github.com/andygrunwald/go-jira"
)

// ProjectSearchResponse is the paged body of the project search endpoint.
type ProjectSearchResponse struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	IsLast     bool           `json:"isLast"`
	Values     []jira.Project `json:"values"`
}

// SearchResponse is the body of the JQL issue search endpoint.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue represents a Jira issue from the REST API.
type Issue struct {
	ID        string            `json:"id"`
	Key       string            `json:"key"`
	Self      string            `json:"self"`
	Fields    *IssueFields      `json:"fields,omitempty"`
	Names     map[string]string `json:"names,omitempty"`
	Changelog *jira.Changelog   `json:"changelog,omitempty"`
}

// IssueFields contains the fields of a Jira issue the adapter reads.
type IssueFields struct {
	Project     *jira.Project   `json:"project,omitempty"`
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"` // plain text (v2) or ADF (v3)
	Type        *jira.IssueType `json:"issuetype,omitempty"`
	Status      *jira.Status    `json:"status,omitempty"`
	Reporter    *jira.User      `json:"reporter,omitempty"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
}

// Ref references a Jira entity by ID, key or name in request bodies.
type Ref struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// IssueDraft is the body of an issue create request.
type IssueDraft struct {
	Fields IssueDraftFields `json:"fields"`
}

// IssueDraftFields are the fields set on a newly created issue.
type IssueDraftFields struct {
	Project     Ref             `json:"project"`
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	IssueType   Ref             `json:"issuetype"`
}

// TypeName returns the issue type name, or "" when absent.
func (i *Issue) TypeName() string {
	if i.Fields == nil || i.Fields.Type == nil {
		return ""
	}
	return i.Fields.Type.Name
}

// LastAuthor returns the display name of the author of the most recent
// changelog entry, falling back to the reporter.
func (i *Issue) LastAuthor() string {
	if i.Changelog != nil && len(i.Changelog.Histories) > 0 {
		histories := i.Changelog.Histories
		latest := histories[0]
		for _, h := range histories[1:] {
			if h.Created > latest.Created {
				latest = h
			}
		}
		if latest.Author.DisplayName != "" {
			return latest.Author.DisplayName
		}
	}
	if i.Fields != nil && i.Fields.Reporter != nil {
		return i.Fields.Reporter.DisplayName
	}
	return ""
}
