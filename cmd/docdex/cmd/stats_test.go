package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/docdex/internal/search"
)

func TestStatsCmd_TextOutput(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: running docdex stats <root>
	cmd := newStatsCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root})
	err := cmd.Execute()

	// Then: counts should be printed
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "documents: 2")
	assert.Contains(t, output, "sections:  3")
	assert.Contains(t, output, "terms:")
}

func TestStatsCmd_JSONOutput(t *testing.T) {
	// Given: an indexed tree
	root := writeTestDocs(t)

	// When: running docdex stats <root> --json
	cmd := newStatsCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{root, "--json"})
	err := cmd.Execute()

	// Then: stats should decode with matching counts
	require.NoError(t, err)
	var stats search.Stats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stats), "Output should be valid JSON")
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 3, stats.Sections)
	assert.Positive(t, stats.Terms)
}
