package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_PlainMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlain(&buf)

	w.Success("indexed 12 documents")
	w.Warning("2 files skipped")
	w.Error("root not found")
	w.Dim("elapsed 40ms")

	out := buf.String()
	assert.Contains(t, out, "✓ indexed 12 documents")
	assert.Contains(t, out, "! 2 files skipped")
	assert.Contains(t, out, "✗ root not found")
	assert.Contains(t, out, "elapsed 40ms")
}

func TestWriter_FormattedMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlain(&buf)

	w.Successf("indexed %d documents in %s", 3, "12ms")
	w.Warningf("skipped %d files", 2)
	w.Errorf("backend %q unknown", "sqlite")

	out := buf.String()
	assert.Contains(t, out, "indexed 3 documents in 12ms")
	assert.Contains(t, out, "skipped 2 files")
	assert.Contains(t, out, `backend "sqlite" unknown`)
}

func TestWriter_Result(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlain(&buf)

	w.Result(1, "AWS", "cloud.md", 3.0, "Amazon S3 object storage.\nRegions and buckets.")

	out := buf.String()
	assert.Contains(t, out, " 1. AWS  cloud.md (3.00)")
	assert.Contains(t, out, "    Amazon S3 object storage.")
	assert.Contains(t, out, "    Regions and buckets.")
}

func TestWriter_Result_PreambleSection(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlain(&buf)

	w.Result(2, "", "notes.md", 1.0, "")

	assert.Contains(t, buf.String(), "(preamble)")
}

func TestWriter_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Success("done")
	// A bytes.Buffer is not a terminal, so no escape codes.
	assert.NotContains(t, buf.String(), "\x1b[")
}
