package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/specif-jira/internal/guid"
	"github.com/danielolaszy/specif-jira/internal/metadata"
	"github.com/danielolaszy/specif-jira/internal/transcode"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

func TestRequirementsJQL(t *testing.T) {
	assert.Equal(t, `project = "REQ" and type in (Requirement, "Customer Requirement")`, RequirementsJQL("REQ"))
}

func TestGetProjectDescriptors(t *testing.T) {
	f := newFakeJira(t)
	req := f.addProject("10000", "REQ", "Requirements")
	f.addProject("10001", "OPS", "Operations")
	reader, _ := newProvider(t, f)

	descriptors, err := reader.GetProjectDescriptors(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, guid.ToInterchangeID(req.Self, req.ID), descriptors[0].ID)
	assert.Equal(t, "Requirements", descriptors[0].Title[0].Text)
	assert.Equal(t, f.url(), descriptors[0].Generator)
	assert.Equal(t, GeneratorVersion, descriptors[0].GeneratorVersion)
	assert.Equal(t, "Operations", descriptors[1].Title[0].Text)
}

func TestGetProjectDescriptorsRemoteDown(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	reader, _ := newProvider(t, f)

	f.setDown(true)
	descriptors, err := reader.GetProjectDescriptors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func TestGetAllHierarchyRootNodes(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	f.addProject("10001", "OPS", "Operations")
	f.addIssue("REQ", "10100", transcode.RequirementType, "Login", "", "2024-01-15T10:30:00.000+0000")
	reader, _ := newProvider(t, f)

	roots, err := reader.GetAllHierarchyRootNodes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Empty(t, f.issueSearches())

	meta := metadata.Default()
	for i, want := range []struct{ key, name string }{{"REQ", "Requirements"}, {"OPS", "Operations"}} {
		root := roots[i]
		assert.True(t, root.IsHierarchyRoot)
		assert.Empty(t, root.Nodes)
		assert.Equal(t, guid.HierarchyRootID(want.key), root.ResourceReference.ID)
		assert.Equal(t, guid.NodeID(root.ResourceReference.ID), root.ID)
		assert.Equal(t, "1", root.Revision)

		resource, err := reader.GetResourceByKey(context.Background(), root.ResourceReference)
		require.NoError(t, err)
		assert.Equal(t, want.name, metadata.GetPropertyValue(meta, resource, metadata.DescriptionProperty))
		assert.Equal(t, "Jira Project "+want.key, metadata.GetPropertyValue(meta, resource, metadata.TitleProperty))
	}
}

func TestGetAllHierarchyRootNodesFiltered(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	ops := f.addProject("10001", "OPS", "Operations")
	reader, _ := newProvider(t, f)

	roots, err := reader.GetAllHierarchyRootNodes(context.Background(), guid.ToInterchangeID(ops.Self, ops.ID))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, guid.HierarchyRootID("OPS"), roots[0].ResourceReference.ID)
	assert.Equal(t, guid.ToInterchangeID(ops.Self, ops.ID), roots[0].ProjectID)
}

func TestGetAllHierarchiesKeepsSearchOrder(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	f.addProject("10001", "OPS", "Operations")
	third := f.addIssue("REQ", "10103", transcode.RequirementType, "Third", "", "2024-01-03T00:00:00.000+0000")
	first := f.addIssue("REQ", "10101", transcode.CustomerRequirementType, "First", "", "2024-01-01T00:00:00.000+0000")
	second := f.addIssue("REQ", "10102", transcode.RequirementType, "Second", "", "2024-01-02T00:00:00.000+0000")
	f.addIssue("OPS", "10200", transcode.RequirementType, "Ops", "", "2024-02-01T00:00:00.000+0000")
	reader, _ := newProvider(t, f)

	hierarchies, err := reader.GetAllHierarchies(context.Background())
	require.NoError(t, err)
	require.Len(t, hierarchies, 2)

	children := hierarchies[0].Nodes
	require.Len(t, children, 3)
	for i, issue := range []struct {
		id, self, revision string
	}{
		{third.ID, third.Self, "20240103T000000.000Z"},
		{first.ID, first.Self, "20240101T000000.000Z"},
		{second.ID, second.Self, "20240102T000000.000Z"},
	} {
		resourceID := guid.ToInterchangeID(issue.self, issue.id)
		assert.Equal(t, models.NewKey(resourceID, issue.revision), children[i].ResourceReference)
		assert.Equal(t, guid.NodeID(resourceID), children[i].ID)
		assert.Equal(t, "1", children[i].Revision)
		assert.False(t, children[i].IsHierarchyRoot)
	}
	assert.Len(t, hierarchies[1].Nodes, 1)

	assert.Equal(t, []string{RequirementsJQL("REQ"), RequirementsJQL("OPS")}, f.issueSearches())
}

func TestGetProjectHierarchies(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	ops := f.addProject("10001", "OPS", "Operations")
	f.addIssue("REQ", "10100", transcode.RequirementType, "Login", "", "2024-01-01T00:00:00.000+0000")
	f.addIssue("OPS", "10200", transcode.RequirementType, "Deploy", "", "2024-01-02T00:00:00.000+0000")
	reader, _ := newProvider(t, f)

	hierarchies, err := reader.GetProjectHierarchies(context.Background(), transcode.ProjectID(&ops))
	require.NoError(t, err)
	require.Len(t, hierarchies, 1)
	assert.Equal(t, guid.HierarchyRootID("OPS"), hierarchies[0].ResourceReference.ID)
	require.Len(t, hierarchies[0].Nodes, 1)
	assert.Equal(t, "20240102T000000.000Z", hierarchies[0].Nodes[0].ResourceReference.Revision)
	assert.Equal(t, []string{RequirementsJQL("OPS")}, f.issueSearches())
}

func TestGetAllHierarchiesPartialOnSearchFailure(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	f.addProject("10001", "OPS", "Operations")
	reader, _ := newProvider(t, f)

	f.setFailJQL(true)
	hierarchies, err := reader.GetAllHierarchies(context.Background())
	require.NoError(t, err)
	require.Len(t, hierarchies, 1)
	assert.Empty(t, hierarchies[0].Nodes)
}

func TestGetHierarchyByKey(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	f.addIssue("REQ", "10100", transcode.RequirementType, "Login", "", "2024-01-15T10:30:00.000+0000")
	reader, _ := newProvider(t, f)

	nodeID := guid.NodeID(guid.HierarchyRootID("REQ"))
	hierarchy, err := reader.GetHierarchyByKey(context.Background(), models.NewKey(nodeID, "42"))
	require.NoError(t, err)
	assert.Equal(t, nodeID, hierarchy.ID)
	assert.Len(t, hierarchy.Nodes, 1)

	_, err = reader.GetHierarchyByKey(context.Background(), models.NewKey("_missing_Node", ""))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetResourceByKey(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	issue := f.addIssue("REQ", "10100", transcode.CustomerRequirementType, "Login", "Users log in.", "2024-01-15T10:30:00.000+0000")
	reader, _ := newProvider(t, f)

	hierarchies, err := reader.GetAllHierarchies(context.Background())
	require.NoError(t, err)
	key := hierarchies[0].Nodes[0].ResourceReference
	assert.Equal(t, guid.ToInterchangeID(issue.Self, issue.ID), key.ID)

	resource, err := reader.GetResourceByKey(context.Background(), key)
	require.NoError(t, err)

	meta := metadata.Default()
	assert.Equal(t, key, resource.Key())
	assert.Equal(t, metadata.RequirementClass, resource.Class)
	assert.Equal(t, "Login", metadata.GetPropertyValue(meta, resource, metadata.TitleProperty))
	assert.Equal(t, "<p>Users log in.</p>", metadata.GetPropertyValue(meta, resource, metadata.DescriptionProperty))
	assert.Equal(t, metadata.UserPerspective, metadata.GetPropertyValue(meta, resource, metadata.PerspectiveProperty))
}

func TestGetResourceByKeyNothingFound(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	reader, _ := newProvider(t, f)

	keys := []models.Key{
		models.NewKey("not-an-id", ""),
		models.NewKey(guid.ToInterchangeID("https://other.example.com/rest/api/2/issue/5", "5"), ""),
		models.NewKey(guid.ToInterchangeID(f.url()+"/rest/api/2/issue/99999", "99999"), ""),
		models.NewKey(guid.HierarchyRootID("REQ"), "1"),
	}
	for _, key := range keys {
		resource, err := reader.GetResourceByKey(context.Background(), key)
		assert.Nil(t, resource)
		assert.True(t, errors.Is(err, ErrNotFound), "key %s", key.ID)
	}
}

func TestGetResourceByKeyFallsBackToHierarchyResources(t *testing.T) {
	f := newFakeJira(t)
	f.addProject("10000", "REQ", "Requirements")
	reader, _ := newProvider(t, f)

	_, err := reader.GetAllHierarchyRootNodes(context.Background(), "")
	require.NoError(t, err)

	f.setDown(true)
	resource, err := reader.GetResourceByKey(context.Background(), models.NewKey(guid.HierarchyRootID("REQ"), "1"))
	require.NoError(t, err)
	assert.Equal(t, metadata.HierarchyClass, resource.Class)

	_, err = reader.GetResourceByKey(context.Background(), models.NewKey(guid.HierarchyRootID("REQ"), "2"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetProjectInfo(t *testing.T) {
	f := newFakeJira(t)
	req := f.addProject("10000", "REQ", "Requirements", transcode.RequirementType)
	reader, _ := newProvider(t, f)

	project, err := reader.GetProjectInfo(context.Background(), guid.ToInterchangeID(req.Self, req.ID))
	require.NoError(t, err)
	assert.Equal(t, "REQ", project.Key)
	assert.Len(t, project.IssueTypes, 1)

	ops := f.addProject("10001", "OPS", "Operations")
	project, err = reader.GetProjectInfo(context.Background(), guid.ToInterchangeID(ops.Self, ops.ID))
	require.NoError(t, err)
	assert.Equal(t, "OPS", project.Key)

	_, err = reader.GetProjectInfo(context.Background(), "_nope_1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReaderUnsupportedOperations(t *testing.T) {
	f := newFakeJira(t)
	reader, _ := newProvider(t, f)
	ctx := context.Background()
	key := models.NewKey("x", "1")

	calls := map[string]func() error{
		"GetAllResourceRevisions":            func() error { _, err := reader.GetAllResourceRevisions(ctx, "x"); return err },
		"GetAllStatementRevisions":           func() error { _, err := reader.GetAllStatementRevisions(ctx, "x"); return err },
		"GetAllStatements":                   func() error { _, err := reader.GetAllStatements(ctx); return err },
		"GetAllStatementsForResource":        func() error { _, err := reader.GetAllStatementsForResource(ctx, key); return err },
		"GetChildNodes":                      func() error { _, err := reader.GetChildNodes(ctx, key); return err },
		"GetContainingHierarchyRoots":        func() error { _, err := reader.GetContainingHierarchyRoots(ctx, key); return err },
		"GetFile":                            func() error { _, err := reader.GetFile(ctx, "a.png"); return err },
		"GetLatestHierarchyRevision":         func() error { _, err := reader.GetLatestHierarchyRevision(ctx, "x"); return err },
		"GetLatestResourceRevisionForBranch": func() error { _, err := reader.GetLatestResourceRevisionForBranch(ctx, "x", "main"); return err },
		"GetLatestStatementRevision":         func() error { _, err := reader.GetLatestStatementRevision(ctx, "x"); return err },
		"GetNodeByKey":                       func() error { _, err := reader.GetNodeByKey(ctx, key); return err },
		"GetParentNode":                      func() error { _, err := reader.GetParentNode(ctx, key); return err },
		"GetProject":                         func() error { _, err := reader.GetProject(ctx, "x", nil, true); return err },
		"GetStatementByKey":                  func() error { _, err := reader.GetStatementByKey(ctx, key); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.True(t, errors.Is(err, ErrUnsupportedOperation))
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}
}
