package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/docdex/internal/search"
)

func runQuery(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newQueryCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestQueryCmd_FindsSections(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: querying for a term in one section
	output, err := runQuery(t, "kubectl", "--root", root)

	// Then: the matching section should be listed
	require.NoError(t, err)
	assert.Contains(t, output, "ops.md")
	assert.Contains(t, output, "Kubernetes")
	assert.NotContains(t, output, "cloud.md")
}

func TestQueryCmd_JSONFormat(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: querying with --format json
	output, err := runQuery(t, "s3", "--root", root, "--format", "json")

	// Then: results should decode and rank the S3-heavy section first
	require.NoError(t, err)
	var results []*search.Result
	require.NoError(t, json.Unmarshal([]byte(output), &results), "Output should be valid JSON")
	require.NotEmpty(t, results)
	assert.Equal(t, "AWS", results[0].Heading)
	assert.Equal(t, "cloud.md", results[0].DocPath)
}

func TestQueryCmd_NoResults(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: querying for a term that appears nowhere
	output, err := runQuery(t, "xyzzy", "--root", root)

	// Then: it should say so without failing
	require.NoError(t, err)
	assert.Contains(t, output, "no results")
}

func TestQueryCmd_LimitFlag(t *testing.T) {
	// Given: an indexed tree where a term matches two sections
	root := writeTestDocs(t)

	// When: querying with --limit 1
	output, err := runQuery(t, "s3", "--root", root, "--format", "json", "--limit", "1")

	// Then: only one result should come back
	require.NoError(t, err)
	var results []*search.Result
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	assert.Len(t, results, 1)
}

func TestQueryCmd_UnknownFormat(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: querying with a bogus format
	_, err := runQuery(t, "s3", "--root", root, "--format", "xml")

	// Then: it should reject the flag value
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
