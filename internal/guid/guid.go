// Package guid derives interchange identifiers from Jira entities and back.
package guid

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrUnresolvableIdentifier is returned when an interchange ID cannot be
// traced back to a Jira issue under the configured base URL.
var ErrUnresolvableIdentifier = errors.New("unresolvable identifier")

// RevisionLayout is the fixed-width UTC layout used for revision tokens.
const RevisionLayout = "20060102T150405.000Z"

const nodeSuffix = "_Node"

var (
	apiVersionPattern    = regexp.MustCompile(`/rest/api/[^/]+/`)
	interchangeIDPattern = regexp.MustCompile(`^_([0-9a-f]{40})_([0-9]+)$`)
)

// ToInterchangeID derives the interchange ID of a Jira entity from its self
// URL and numeric ID. The numeric ID is kept readable at the end of the ID
// so that ResolveIssueKey can recover it.
func ToInterchangeID(selfURL, numericID string) string {
	return "_" + sha1Hex(canonicalSelf(selfURL)+"|"+numericID) + "_" + numericID
}

// HierarchyRootID derives the resource ID of a project's hierarchy root from
// the project key alone.
func HierarchyRootID(projectKey string) string {
	return "_" + sha1Hex(projectKey)
}

// NodeID returns the ID of the hierarchy node that represents resourceID.
func NodeID(resourceID string) string {
	return resourceID + nodeSuffix
}

// IssueSelfURL returns the canonical self URL of the issue with the given
// numeric ID on the Jira instance at baseURL.
func IssueSelfURL(baseURL, numericID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/rest/api/2/issue/" + numericID
}

// ResolveIssueKey recovers the numeric Jira issue ID that interchangeID was
// derived from. The ID is accepted only if it re-derives from an issue URL
// under baseURL.
func ResolveIssueKey(baseURL, interchangeID string) (string, error) {
	m := interchangeIDPattern.FindStringSubmatch(interchangeID)
	if m == nil {
		return "", fmt.Errorf("%w: %q is not a jira issue identifier", ErrUnresolvableIdentifier, interchangeID)
	}

	numericID := m[2]
	if ToInterchangeID(IssueSelfURL(baseURL, numericID), numericID) != interchangeID {
		return "", fmt.Errorf("%w: %q does not belong to %s", ErrUnresolvableIdentifier, interchangeID, baseURL)
	}

	return numericID, nil
}

// ToRevision encodes a last-modified timestamp as a revision token. Tokens
// of the same entity sort chronologically when compared as strings.
func ToRevision(t time.Time) string {
	return t.UTC().Format(RevisionLayout)
}

// canonicalSelf normalises the API version segment so that v2 and v3
// payloads of the same entity derive the same ID.
func canonicalSelf(selfURL string) string {
	self := strings.TrimSuffix(selfURL, "/")
	return apiVersionPattern.ReplaceAllString(self, "/rest/api/2/")
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
