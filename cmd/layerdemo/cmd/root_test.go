package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storm = `
version: v1.0.0
name: storm
frames:
  - name: start
    nodes:
      - id: cone
        kind: ellipse
        center: [38, -82]
        radii: [500000, 300000]
        tilt: 15
        options: {color: blue, fill: true}
      - id: watch
        kind: group
        children:
          - id: inner
            kind: ellipse
            center: [30, -80]
            radii: [100000, 50000]
  - name: turn
    nodes:
      - id: cone
        kind: ellipse
        center: [38, -82]
        radii: [500000, 300000]
        tilt: 20
        options: {color: blue, fill: true}
`

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRun_PrintsTrace(t *testing.T) {
	path := writeScene(t, "storm.yaml", storm)
	pngDir := filepath.Join(t.TempDir(), "frames")

	out, _, err := execute(t, "run", "--png-dir", pngDir, path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "frame 0 (start)", lines[0])
	assert.Contains(t, out, "frame 1 (turn)")
	assert.Contains(t, out, "teardown")

	first, rest, _ := strings.Cut(out, "frame 1 (turn)")
	second, last, _ := strings.Cut(rest, "teardown")
	assert.Equal(t, 3, strings.Count(first, "  add "))
	assert.Equal(t, 1, strings.Count(second, "  tilt "))
	assert.Equal(t, 2, strings.Count(second, "  remove "), "inner leaves before its group")
	assert.Equal(t, 1, strings.Count(last, "  remove "))

	for _, name := range []string{"frame-000.png", "frame-001.png"} {
		info, err := os.Stat(filepath.Join(pngDir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRun_ReportsLayerErrors(t *testing.T) {
	path := writeScene(t, "bad.yaml", `
frames:
  - nodes:
      - id: ghost
        kind: ellipse
        center: [0, 0]
        radii: [10, 10]
        options: {opacity: 3}
`)

	_, _, err := execute(t, "run", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 layer errors reported")
}

func TestRun_MissingScene(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	good := writeScene(t, "good.yaml", storm)
	bad := writeScene(t, "bad.yaml", "version: v2.0.0\nframes:\n  - nodes: []\n")

	out, errOut, err := execute(t, "validate", good, bad)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scene files are invalid")
	assert.Contains(t, out, "good.yaml: ok (v1.0.0, 2 frames, 4 nodes)")
	assert.Contains(t, errOut, "unsupported scene version")
}

func TestConfigFlag(t *testing.T) {
	cfg := writeScene(t, "layerdemo.yaml", "render:\n  background: plaid\n")

	_, _, err := execute(t, "--config", cfg, "validate", writeScene(t, "s.yaml", storm))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.background")
}

func TestRun_TearsDownWhenFrameWriteFails(t *testing.T) {
	path := writeScene(t, "storm.yaml", storm)
	pngDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(pngDir, "frame-000.png"), 0o755))

	out, _, err := execute(t, "run", "--png-dir", pngDir, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame-000.png")

	assert.NotContains(t, out, "frame 1 (turn)")
	_, last, found := strings.Cut(out, "teardown")
	require.True(t, found, "teardown missing from:\n%s", out)
	assert.Equal(t, 3, strings.Count(last, "  remove "))
}
