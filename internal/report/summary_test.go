package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_SuccessRate(t *testing.T) {
	assert.Zero(t, Summary{}.SuccessRate())
	assert.InDelta(t, 50.0, Summary{Success: 2, Skipped: 1, Failed: 1}.SuccessRate(), 0.001)
	assert.InDelta(t, 100.0, Summary{Success: 3}.SuccessRate(), 0.001)
}

func TestSummary_Render(t *testing.T) {
	s := Summary{Success: 3, Skipped: 1, Failed: 0, Deleted: 6, Elapsed: 1500 * time.Millisecond}

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "PROCESSING COMPLETE")
	assert.NotContains(t, out, "dry run")
	assert.Contains(t, out, "Successfully Merged")
	assert.Contains(t, out, "3 (75.0%)")
	assert.Contains(t, out, "Skipped (Exists)")
	assert.Contains(t, out, "Failures")
	assert.Contains(t, out, "Originals Deleted")
	assert.Contains(t, out, "1.5s")
}

func TestSummary_RenderDryRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary{DryRun: true}.Render(&buf))
	assert.Contains(t, buf.String(), "PROCESSING COMPLETE (dry run)")
}

func TestSummary_RenderItems(t *testing.T) {
	s := Summary{Items: []Item{
		{Video: "/in/Show/Show.S01E01.mkv", Status: "success", SubtitleCount: 2, AudioCount: 1, Detail: "merged"},
		{Video: "/in/Movie.mkv", Status: "skipped", Detail: "already exists"},
	}}

	var buf bytes.Buffer
	require.NoError(t, s.RenderItems(&buf))
	out := buf.String()

	assert.Contains(t, out, "Show.S01E01.mkv")
	assert.NotContains(t, out, "/in/Show/")
	assert.Contains(t, out, "already exists")
}

func TestSummary_RenderItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary{}.RenderItems(&buf))
	assert.Empty(t, buf.String())
}
