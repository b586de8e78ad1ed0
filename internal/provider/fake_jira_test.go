package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jiraapi "github.com/andygrunwald/go-jira"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/specif-jira/internal/cache"
	"github.com/danielolaszy/specif-jira/internal/config"
	"github.com/danielolaszy/specif-jira/internal/jira"
	"github.com/danielolaszy/specif-jira/internal/metadata"
)

// fakeJira serves the handful of REST endpoints the adapter uses from
// in-memory projects and issues.
type fakeJira struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	projects []jiraapi.Project
	issues   map[string][]jira.Issue // by project key, in search order
	statuses []jiraapi.Status
	nextID   int
	down     bool
	failJQL  bool
	searches []string
	created  []jira.IssueDraft
}

func newFakeJira(t *testing.T) *fakeJira {
	t.Helper()

	f := &fakeJira{
		t:      t,
		issues: make(map[string][]jira.Issue),
		nextID: 20000,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeJira) url() string {
	return f.server.URL
}

func (f *fakeJira) addProject(id, key, name string, issueTypes ...string) jiraapi.Project {
	f.mu.Lock()
	defer f.mu.Unlock()

	project := jiraapi.Project{
		ID:   id,
		Key:  key,
		Name: name,
		Self: f.server.URL + "/rest/api/2/project/" + id,
	}
	for i, name := range issueTypes {
		project.IssueTypes = append(project.IssueTypes, jiraapi.IssueType{ID: fmt.Sprint(i + 1), Name: name})
	}
	f.projects = append(f.projects, project)
	return project
}

func (f *fakeJira) addIssue(projectKey, id, issueType, summary, description, updated string) jira.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()

	issue := jira.Issue{
		ID:   id,
		Key:  fmt.Sprintf("%s-%s", projectKey, id),
		Self: f.server.URL + "/rest/api/2/issue/" + id,
		Fields: &jira.IssueFields{
			Summary:     summary,
			Description: adfJSON(description),
			Type:        &jiraapi.IssueType{Name: issueType},
			Status:      &jiraapi.Status{ID: "1", Name: "Open"},
			Updated:     updated,
		},
	}
	f.issues[projectKey] = append(f.issues[projectKey], issue)
	return issue
}

func (f *fakeJira) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeJira) setFailJQL(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failJQL = fail
}

func (f *fakeJira) issueSearches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeJira) createdDrafts() []jira.IssueDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]jira.IssueDraft(nil), f.created...)
}

func adfJSON(text string) json.RawMessage {
	if text == "" {
		return nil
	}
	raw, err := jira.PlainTextToADF(text).Marshal()
	if err != nil {
		panic(err)
	}
	return raw
}

func (f *fakeJira) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.down {
		http.Error(w, `{"errorMessages":["service unavailable"]}`, http.StatusServiceUnavailable)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/rest/api/2/project/search":
		summaries := make([]jiraapi.Project, 0, len(f.projects))
		for _, p := range f.projects {
			summaries = append(summaries, jiraapi.Project{ID: p.ID, Key: p.Key, Name: p.Name, Self: p.Self})
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"values": summaries, "isLast": true})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/rest/api/2/project/"):
		key := strings.TrimPrefix(path, "/rest/api/2/project/")
		for _, p := range f.projects {
			if p.Key == key {
				f.writeJSON(w, http.StatusOK, p)
				return
			}
		}
		f.writeJSON(w, http.StatusNotFound, map[string]any{"errorMessages": []string{"no project"}})

	case r.Method == http.MethodGet && path == "/rest/api/3/status":
		f.writeJSON(w, http.StatusOK, f.statuses)

	case r.Method == http.MethodGet && path == "/rest/api/2/search":
		jql := r.URL.Query().Get("jql")
		f.searches = append(f.searches, jql)
		if f.failJQL {
			f.writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessages": []string{"bad jql"}})
			return
		}
		var found []jira.Issue
		for key, issues := range f.issues {
			if strings.HasPrefix(jql, fmt.Sprintf(`project = "%s" `, key)) {
				found = issues
			}
		}
		f.writeJSON(w, http.StatusOK, map[string]any{"issues": found, "total": len(found)})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/rest/api/3/issue/"):
		id := strings.TrimPrefix(path, "/rest/api/3/issue/")
		for _, issues := range f.issues {
			for _, issue := range issues {
				if issue.ID == id {
					issue.Self = f.server.URL + "/rest/api/3/issue/" + id
					f.writeJSON(w, http.StatusOK, issue)
					return
				}
			}
		}
		f.writeJSON(w, http.StatusNotFound, map[string]any{"errorMessages": []string{"no issue"}})

	case r.Method == http.MethodPost && path == "/rest/api/3/issue":
		f.create(w, r)

	default:
		f.writeJSON(w, http.StatusNotFound, map[string]any{"errorMessages": []string{"no route " + path}})
	}
}

func (f *fakeJira) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)

	var draft jira.IssueDraft
	require.NoError(f.t, json.Unmarshal(body, &draft))
	f.created = append(f.created, draft)

	var project *jiraapi.Project
	for i := range f.projects {
		if f.projects[i].ID == draft.Fields.Project.ID {
			project = &f.projects[i]
		}
	}
	if project == nil {
		f.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]string{"project": "invalid"}})
		return
	}

	var issueType string
	for _, it := range project.IssueTypes {
		if it.ID == draft.Fields.IssueType.ID {
			issueType = it.Name
		}
	}

	f.nextID++
	id := fmt.Sprint(f.nextID)
	issue := jira.Issue{
		ID:   id,
		Key:  fmt.Sprintf("%s-%s", project.Key, id),
		Self: f.server.URL + "/rest/api/3/issue/" + id,
		Fields: &jira.IssueFields{
			Summary:     draft.Fields.Summary,
			Description: draft.Fields.Description,
			Type:        &jiraapi.IssueType{ID: draft.Fields.IssueType.ID, Name: issueType},
			Status:      &jiraapi.Status{ID: "1", Name: "Open"},
			Updated:     "2024-03-01T09:00:00.000+0000",
		},
	}
	f.issues[project.Key] = append(f.issues[project.Key], issue)

	f.writeJSON(w, http.StatusCreated, map[string]string{"id": issue.ID, "key": issue.Key, "self": issue.Self})
}

func (f *fakeJira) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(f.t, json.NewEncoder(w).Encode(v))
}

// newProvider wires a Reader and Writer against the fake server.
func newProvider(t *testing.T, f *fakeJira) (*Reader, *Writer) {
	t.Helper()

	client, err := jira.NewClient(config.JiraConfig{URL: f.url(), Username: "bot@example.com", Token: "secret"})
	require.NoError(t, err)

	meta := metadata.Default()
	reader := NewReader(context.Background(), client, cache.New(client), meta)
	writer := NewWriter(client, reader, reader, meta)
	return reader, writer
}
