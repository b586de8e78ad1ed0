package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jiraapi "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/specif-jira/internal/cache"
	"github.com/danielolaszy/specif-jira/internal/guid"
	"github.com/danielolaszy/specif-jira/internal/jira"
	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/internal/metadata"
	"github.com/danielolaszy/specif-jira/internal/transcode"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

// GeneratorVersion tags project descriptors with the API they were read from.
const GeneratorVersion = "Jira REST API 2"

// IssueSource is the part of the Jira client the Reader calls.
type IssueSource interface {
	BaseURL() string
	SearchProjects(ctx context.Context) ([]jiraapi.Project, error)
	SearchIssues(ctx context.Context, jql string) ([]jira.Issue, error)
	GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error)
}

// Reader presents Jira projects as hierarchies and requirement issues as
// resources. Remote failures on read paths are logged and degrade to empty
// or not-found results.
type Reader struct {
	client   IssueSource
	projects *cache.ProjectCache
	meta     metadata.Reader

	// roots holds the hierarchy resources built by the latest hierarchy
	// construction; GetResourceByKey falls back to them.
	mu    sync.Mutex
	roots []*models.Resource
}

// NewReader returns a Reader and populates the project cache. A failed
// population is logged; the cache retries on the next lookup.
func NewReader(ctx context.Context, client IssueSource, projects *cache.ProjectCache, meta metadata.Reader) *Reader {
	if err := projects.Ensure(ctx); err != nil {
		logging.Warn("failed to initialize project cache", "error", err)
	}
	return &Reader{
		client:   client,
		projects: projects,
		meta:     meta,
	}
}

// RequirementsJQL is the query selecting the requirement issues of a project.
func RequirementsJQL(projectKey string) string {
	return fmt.Sprintf(`project = "%s" and type in (%s, "%s")`,
		projectKey, transcode.RequirementType, transcode.CustomerRequirementType)
}

// GetProjectDescriptors lists one descriptor per Jira project.
func (r *Reader) GetProjectDescriptors(ctx context.Context) ([]*models.ProjectDescriptor, error) {
	projects, err := r.client.SearchProjects(ctx)
	if err != nil {
		logging.Error("failed to search projects", "error", err)
		return []*models.ProjectDescriptor{}, nil
	}

	descriptors := make([]*models.ProjectDescriptor, 0, len(projects))
	for i := range projects {
		descriptors = append(descriptors, &models.ProjectDescriptor{
			ID:               transcode.ProjectID(&projects[i]),
			Title:            []models.MultilanguageText{{Text: projects[i].Name, Format: models.FormatPlain}},
			Generator:        r.client.BaseURL(),
			GeneratorVersion: GeneratorVersion,
		})
	}
	return descriptors, nil
}

// GetAllHierarchyRootNodes returns one root node per project, without
// children. A non-empty projectFilter keeps only the project with that
// interchange ID.
func (r *Reader) GetAllHierarchyRootNodes(ctx context.Context, projectFilter string) ([]*models.Node, error) {
	return r.buildHierarchies(ctx, true, projectFilter), nil
}

// GetAllHierarchies returns one hierarchy per project with a child node per
// requirement issue, in search order.
func (r *Reader) GetAllHierarchies(ctx context.Context) ([]*models.Node, error) {
	return r.buildHierarchies(ctx, false, ""), nil
}

// GetProjectHierarchies returns the hierarchy of the project with the given
// interchange ID, or no hierarchy when the project is unknown.
func (r *Reader) GetProjectHierarchies(ctx context.Context, projectID string) ([]*models.Node, error) {
	return r.buildHierarchies(ctx, false, projectID), nil
}

// GetHierarchyByKey returns the hierarchy whose root node ID matches key.
// The revision is not compared.
func (r *Reader) GetHierarchyByKey(ctx context.Context, key models.Key) (*models.Node, error) {
	for _, hierarchy := range r.buildHierarchies(ctx, false, "") {
		if hierarchy.ID == key.ID {
			return hierarchy, nil
		}
	}
	return nil, fmt.Errorf("%w: hierarchy %s", ErrNotFound, key.ID)
}

// buildHierarchies constructs hierarchy nodes from a live project search and
// replaces the remembered root resources. Remote failures end construction
// early and return what was built so far.
func (r *Reader) buildHierarchies(ctx context.Context, rootsOnly bool, projectFilter string) []*models.Node {
	nodes := []*models.Node{}
	var roots []*models.Resource
	defer func() {
		r.mu.Lock()
		r.roots = roots
		r.mu.Unlock()
	}()

	projects, err := r.client.SearchProjects(ctx)
	if err != nil {
		logging.Error("failed to search projects", "error", err)
		return nodes
	}

	for i := range projects {
		project := &projects[i]
		projectID := transcode.ProjectID(project)
		if projectFilter != "" && projectID != projectFilter {
			continue
		}

		rootResource, err := transcode.ProjectToHierarchyResource(r.meta, project)
		if err != nil {
			logging.Error("failed to build hierarchy resource", "project", project.Key, "error", err)
			return nodes
		}
		roots = append(roots, rootResource)

		root := &models.Node{
			ID:                guid.NodeID(rootResource.ID),
			Revision:          transcode.HierarchyRevision,
			IsHierarchyRoot:   true,
			ProjectID:         projectID,
			ResourceReference: rootResource.Key(),
			Nodes:             []*models.Node{},
		}
		nodes = append(nodes, root)

		if rootsOnly {
			continue
		}

		issues, err := r.client.SearchIssues(ctx, RequirementsJQL(project.Key))
		if err != nil {
			logging.Error("failed to search project issues", "project", project.Key, "error", err)
			return nodes
		}
		for j := range issues {
			issue := &issues[j]
			revision, err := transcode.IssueRevision(issue)
			if err != nil {
				logging.Warn("skipping issue without usable update time", "issue", issue.Key, "error", err)
				continue
			}
			resourceID := transcode.IssueResourceID(issue)
			root.Nodes = append(root.Nodes, &models.Node{
				ID:                guid.NodeID(resourceID),
				Revision:          transcode.HierarchyRevision,
				ProjectID:         projectID,
				ResourceReference: models.NewKey(resourceID, revision),
			})
		}
		logging.Debug("built project hierarchy", "project", project.Key, "children", len(root.Nodes))
	}

	return nodes
}

// GetResourceByKey fetches the issue behind key and transcodes it. Any
// failure falls back to the hierarchy resources of the latest hierarchy
// construction, matched by ID and revision.
func (r *Reader) GetResourceByKey(ctx context.Context, key models.Key) (*models.Resource, error) {
	resource, err := r.fetchResource(ctx, key)
	if err == nil {
		return resource, nil
	}
	logging.Debug("resource fetch failed, scanning hierarchy resources", "id", key.ID, "error", err)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, root := range r.roots {
		if key.Matches(models.NewKey(root.ID, root.Revision)) {
			return root, nil
		}
	}
	return nil, fmt.Errorf("%w: resource %s", ErrNotFound, key.ID)
}

func (r *Reader) fetchResource(ctx context.Context, key models.Key) (*models.Resource, error) {
	issueKey, err := guid.ResolveIssueKey(r.client.BaseURL(), key.ID)
	if err != nil {
		return nil, err
	}

	issue, err := r.client.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	converter := transcode.NewIssueConverter(r.meta, r.projects.Statuses())
	return converter.IssueToResource(issue)
}

// GetProjectInfo returns the cached Jira project with the given interchange
// ID, refreshing the cache once on a miss.
func (r *Reader) GetProjectInfo(ctx context.Context, projectID string) (*jiraapi.Project, error) {
	project, err := r.projects.Project(ctx, projectID)
	if errors.Is(err, cache.ErrProjectNotFound) {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project %s: %w", projectID, err)
	}
	return project, nil
}

// Statuses returns the cached Jira status list.
func (r *Reader) Statuses() []jiraapi.Status {
	return r.projects.Statuses()
}

func (r *Reader) GetAllResourceRevisions(ctx context.Context, resourceID string) ([]*models.Resource, error) {
	return nil, unsupported("GetAllResourceRevisions")
}

func (r *Reader) GetAllStatementRevisions(ctx context.Context, statementID string) ([]*models.Statement, error) {
	return nil, unsupported("GetAllStatementRevisions")
}

func (r *Reader) GetAllStatements(ctx context.Context) ([]*models.Statement, error) {
	return nil, unsupported("GetAllStatements")
}

func (r *Reader) GetAllStatementsForResource(ctx context.Context, resourceKey models.Key) ([]*models.Statement, error) {
	return nil, unsupported("GetAllStatementsForResource")
}

func (r *Reader) GetChildNodes(ctx context.Context, parentKey models.Key) ([]*models.Node, error) {
	return nil, unsupported("GetChildNodes")
}

func (r *Reader) GetContainingHierarchyRoots(ctx context.Context, resourceKey models.Key) ([]*models.Node, error) {
	return nil, unsupported("GetContainingHierarchyRoots")
}

func (r *Reader) GetFile(ctx context.Context, filename string) ([]byte, error) {
	return nil, unsupported("GetFile")
}

func (r *Reader) GetLatestHierarchyRevision(ctx context.Context, hierarchyID string) (string, error) {
	return "", unsupported("GetLatestHierarchyRevision")
}

func (r *Reader) GetLatestResourceRevisionForBranch(ctx context.Context, resourceID, branch string) (string, error) {
	return "", unsupported("GetLatestResourceRevisionForBranch")
}

func (r *Reader) GetLatestStatementRevision(ctx context.Context, statementID string) (string, error) {
	return "", unsupported("GetLatestStatementRevision")
}

func (r *Reader) GetNodeByKey(ctx context.Context, key models.Key) (*models.Node, error) {
	return nil, unsupported("GetNodeByKey")
}

func (r *Reader) GetParentNode(ctx context.Context, childKey models.Key) (*models.Node, error) {
	return nil, unsupported("GetParentNode")
}

func (r *Reader) GetProject(ctx context.Context, projectID string, hierarchyFilter []models.Key, includeMetadata bool) (*models.Project, error) {
	return nil, unsupported("GetProject")
}

func (r *Reader) GetStatementByKey(ctx context.Context, key models.Key) (*models.Statement, error) {
	return nil, unsupported("GetStatementByKey")
}

func unsupported(operation string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, operation)
}
