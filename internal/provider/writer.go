package provider

import (
	"context"
	"errors"
	"fmt"

	jiraapi "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/specif-jira/internal/guid"
	"github.com/danielolaszy/specif-jira/internal/jira"
	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/internal/metadata"
	"github.com/danielolaszy/specif-jira/internal/transcode"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

// IssueCreator creates Jira issues.
type IssueCreator interface {
	CreateIssue(ctx context.Context, draft *jira.IssueDraft) (*jira.Issue, error)
}

// ProjectLookup resolves an interchange project ID to the Jira project and
// its issue types.
type ProjectLookup interface {
	GetProjectInfo(ctx context.Context, projectID string) (*jiraapi.Project, error)
}

// ResourceGetter reads a resource back after it was created.
type ResourceGetter interface {
	GetResourceByKey(ctx context.Context, key models.Key) (*models.Resource, error)
}

// Writer creates Jira issues from interchange resources. SaveResource is the
// only supported write.
type Writer struct {
	client    IssueCreator
	projects  ProjectLookup
	resources ResourceGetter
	meta      metadata.Reader
}

// NewWriter returns a Writer. A *Reader serves as both projects and resources.
func NewWriter(client IssueCreator, projects ProjectLookup, resources ResourceGetter, meta metadata.Reader) *Writer {
	return &Writer{
		client:    client,
		projects:  projects,
		resources: resources,
		meta:      meta,
	}
}

// SaveResource creates an issue for resource in the project with the given
// interchange ID and returns the resource as read back from Jira. When the
// read-back fails the issue still exists; the error names its key and must
// not be retried as a fresh save.
func (w *Writer) SaveResource(ctx context.Context, resource *models.Resource, projectID string) (*models.Resource, error) {
	if projectID == "" {
		return nil, ErrProjectRequired
	}
	if resource == nil {
		return nil, fmt.Errorf("no resource to save")
	}

	project, err := w.projects.GetProjectInfo(ctx, projectID)
	if err != nil {
		return nil, err
	}

	typeName, ok := transcode.IssueTypeName(w.meta, resource)
	if !ok {
		return nil, fmt.Errorf("%w: class %s", ErrUnsupportedMapping, resource.Class.ID)
	}
	issueTypeID, ok := transcode.FindIssueType(project, typeName)
	if !ok {
		return nil, fmt.Errorf("%w: project %s has no issue type %q", ErrUnsupportedMapping, project.Key, typeName)
	}

	draft, err := transcode.ResourceToIssueDraft(w.meta, resource, project, issueTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to build issue draft: %w", err)
	}

	created, err := w.client.CreateIssue(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue in project %s: %w", project.Key, err)
	}

	logging.Info("created issue",
		"project", project.Key,
		"issue", created.Key,
		"type", typeName)

	id := guid.ToInterchangeID(created.Self, created.ID)
	saved, err := w.resources.GetResourceByKey(ctx, models.NewKey(id, ""))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logging.Warn("created issue could not be read back", "issue", created.Key)
		}
		return nil, fmt.Errorf("issue %s created but not readable: %w", created.Key, err)
	}
	return saved, nil
}

func (w *Writer) AddHierarchy(ctx context.Context, hierarchy *models.Node, projectID string) error {
	return unsupported("AddHierarchy")
}

func (w *Writer) AddNodeAsFirstChild(ctx context.Context, parentNodeID string, node *models.Node) error {
	return unsupported("AddNodeAsFirstChild")
}

func (w *Writer) AddNodeAsPredecessor(ctx context.Context, predecessorID string, node *models.Node) error {
	return unsupported("AddNodeAsPredecessor")
}

func (w *Writer) AddProject(ctx context.Context, project *models.Project, integrationID string) error {
	return unsupported("AddProject")
}

func (w *Writer) AddResource(ctx context.Context, resource *models.Resource) error {
	return unsupported("AddResource")
}

func (w *Writer) AddStatement(ctx context.Context, statement *models.Statement) error {
	return unsupported("AddStatement")
}

func (w *Writer) DeleteNode(ctx context.Context, nodeID string) error {
	return unsupported("DeleteNode")
}

func (w *Writer) DeleteProject(ctx context.Context, projectID string) error {
	return unsupported("DeleteProject")
}

func (w *Writer) InitializeIdentificators(ctx context.Context) error {
	return unsupported("InitializeIdentificators")
}

func (w *Writer) MoveNode(ctx context.Context, nodeID, newParentID, newSiblingID string) error {
	return unsupported("MoveNode")
}

func (w *Writer) SaveIdentificators(ctx context.Context) error {
	return unsupported("SaveIdentificators")
}

func (w *Writer) SaveStatement(ctx context.Context, statement *models.Statement, projectID string) (*models.Statement, error) {
	return nil, unsupported("SaveStatement")
}

func (w *Writer) UpdateHierarchy(ctx context.Context, hierarchy *models.Node, parentID, predecessorID string) (*models.Node, error) {
	return nil, unsupported("UpdateHierarchy")
}

func (w *Writer) UpdateProject(ctx context.Context, project *models.Project) error {
	return unsupported("UpdateProject")
}

func (w *Writer) UpdateResource(ctx context.Context, resource *models.Resource) (*models.Resource, error) {
	return nil, unsupported("UpdateResource")
}
