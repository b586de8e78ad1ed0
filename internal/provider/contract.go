// Package provider exposes Jira through the interchange data-provider
// contract: a Reader presenting projects and issues as hierarchies and
// resources, and a Writer creating issues from resources.
package provider

import (
	"context"

	"github.com/danielolaszy/specif-jira/pkg/models"
)

// DataReader is the read side of the interchange data-provider contract.
type DataReader interface {
	GetProjectDescriptors(ctx context.Context) ([]*models.ProjectDescriptor, error)
	GetAllHierarchyRootNodes(ctx context.Context, projectFilter string) ([]*models.Node, error)
	GetAllHierarchies(ctx context.Context) ([]*models.Node, error)
	GetHierarchyByKey(ctx context.Context, key models.Key) (*models.Node, error)
	GetResourceByKey(ctx context.Context, key models.Key) (*models.Resource, error)

	GetAllResourceRevisions(ctx context.Context, resourceID string) ([]*models.Resource, error)
	GetAllStatementRevisions(ctx context.Context, statementID string) ([]*models.Statement, error)
	GetAllStatements(ctx context.Context) ([]*models.Statement, error)
	GetAllStatementsForResource(ctx context.Context, resourceKey models.Key) ([]*models.Statement, error)
	GetChildNodes(ctx context.Context, parentKey models.Key) ([]*models.Node, error)
	GetContainingHierarchyRoots(ctx context.Context, resourceKey models.Key) ([]*models.Node, error)
	GetFile(ctx context.Context, filename string) ([]byte, error)
	GetLatestHierarchyRevision(ctx context.Context, hierarchyID string) (string, error)
	GetLatestResourceRevisionForBranch(ctx context.Context, resourceID, branch string) (string, error)
	GetLatestStatementRevision(ctx context.Context, statementID string) (string, error)
	GetNodeByKey(ctx context.Context, key models.Key) (*models.Node, error)
	GetParentNode(ctx context.Context, childKey models.Key) (*models.Node, error)
	GetProject(ctx context.Context, projectID string, hierarchyFilter []models.Key, includeMetadata bool) (*models.Project, error)
	GetStatementByKey(ctx context.Context, key models.Key) (*models.Statement, error)
}

// DataWriter is the write side of the interchange data-provider contract.
type DataWriter interface {
	SaveResource(ctx context.Context, resource *models.Resource, projectID string) (*models.Resource, error)

	AddHierarchy(ctx context.Context, hierarchy *models.Node, projectID string) error
	AddNodeAsFirstChild(ctx context.Context, parentNodeID string, node *models.Node) error
	AddNodeAsPredecessor(ctx context.Context, predecessorID string, node *models.Node) error
	AddProject(ctx context.Context, project *models.Project, integrationID string) error
	AddResource(ctx context.Context, resource *models.Resource) error
	AddStatement(ctx context.Context, statement *models.Statement) error
	DeleteNode(ctx context.Context, nodeID string) error
	DeleteProject(ctx context.Context, projectID string) error
	InitializeIdentificators(ctx context.Context) error
	MoveNode(ctx context.Context, nodeID, newParentID, newSiblingID string) error
	SaveIdentificators(ctx context.Context) error
	SaveStatement(ctx context.Context, statement *models.Statement, projectID string) (*models.Statement, error)
	UpdateHierarchy(ctx context.Context, hierarchy *models.Node, parentID, predecessorID string) (*models.Node, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	UpdateResource(ctx context.Context, resource *models.Resource) (*models.Resource, error)
}

var (
	_ DataReader = (*Reader)(nil)
	_ DataWriter = (*Writer)(nil)
)
