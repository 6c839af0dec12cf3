package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/whiteout/erase"
)

//
// -----------------------------------------------------------------------------
// run() – usage errors
// -----------------------------------------------------------------------------

// Covers every exit-2 path: unknown flags, conflicting modes, and list flags
// without the capability they belong to.
func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		stderrContains string
	}{
		{
			name:           "unknown flag",
			args:           []string{"-bogus"},
			stderrContains: "flag provided but not defined",
		},
		{
			name:           "manifest and iface together",
			args:           []string{"-manifest", "whiteout.yaml", "-iface", "Score"},
			stderrContains: "usage: erasegen",
		},
		{
			name:           "erasers without iface",
			args:           []string{"-erasers", "Freeze"},
			stderrContains: "need -iface",
		},
		{
			name:           "checks without iface",
			args:           []string{"-checks", "Points"},
			stderrContains: "need -iface",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			code, stderr := runCapture(t, tc.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tc.stderrContains)
		})
	}
}

//
// -----------------------------------------------------------------------------
// run() – directive mode
// -----------------------------------------------------------------------------

func TestRun_DirectiveMode(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixtureWithDirectives)

	code, stderr := runCapture(t, "-dir", dir)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)

	out := readFileString(t, filepath.Join(dir, "erase.gen.go"))
	assert.True(t, strings.HasPrefix(out, "// Code generated by erasegen; DO NOT EDIT.\n"))
	assert.Contains(t, out, "// Source: directives")
	assert.Contains(t, out, "type freezeHandle struct {")
	assert.Contains(t, out, "func Freeze(v Score) Score {")
	assert.Contains(t, out, "func freezeBase(v Score) Score {")
	assert.Contains(t, out, "// Points must keep satisfying Score.")
}

func TestRun_DirectiveMode_Verbose(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixtureWithDirectives)

	code, stderr := runCapture(t, "-dir", dir, "-v")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "level=debug")
	assert.Contains(t, stderr, "msg=directive")
	assert.Contains(t, stderr, "msg=generated")
}

func TestRun_DirectiveMode_EmptyPlan(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixturePlain)

	code, stderr := runCapture(t, "-dir", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nothing to generate")
}

func TestRun_RegeneratesOverStaleOutput(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixtureWithDirectives)
	writeTempFile(t, dir, "erase.gen.go", "package fixture\n\nvar stale = definitelyMissing\n")

	code, stderr := runCapture(t, "-dir", dir)
	require.Equal(t, 0, code, stderr)

	out := readFileString(t, filepath.Join(dir, "erase.gen.go"))
	assert.NotContains(t, out, "definitelyMissing")
	assert.Contains(t, out, "func Freeze(v Score) Score {")
}

// Covers the format-failure fallback: when gofmt rejects the render, the raw
// bytes are persisted at the output path for inspection and the run fails.
func TestRun_FormatFailureKeepsRawOutput(t *testing.T) {
	// NOT parallel: mutates the generate seam.

	dir := writeFixtureModule(t, scoreFixtureWithDirectives)

	// What a broken render would look like: invalid Go that gofmt rejects.
	raw := []byte("package fixture\n\nfunc {\n")

	original := generate
	t.Cleanup(func() { generate = original })
	generate = func(job erase.Job) ([]byte, error) {
		return raw, erase.FormatError{Err: errors.New("expected '(', found '{'")}
	}

	code, stderr := runCapture(t, "-dir", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "generation failed")
	assert.Contains(t, stderr, "gofmt")

	got := readFileString(t, filepath.Join(dir, "erase.gen.go"))
	assert.Equal(t, string(raw), got)
}

//
// -----------------------------------------------------------------------------
// run() – flag mode
// -----------------------------------------------------------------------------

func TestRun_FlagMode(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixturePlain)

	code, stderr := runCapture(t,
		"-dir", dir,
		"-iface", "Score",
		"-erasers", "Freeze",
		"-once", "freezeBase",
		"-checks", "Points",
		"-out", "custom.gen.go",
	)
	require.Equal(t, 0, code, stderr)

	out := readFileString(t, filepath.Join(dir, "custom.gen.go"))
	assert.Contains(t, out, "// Source: flags")
	assert.Regexp(t, `// Source-SHA256: [0-9a-f]{64}`, out)
	assert.Contains(t, out, "func Freeze(v Score) Score {")
	assert.Contains(t, out, "func freezeBase(v Score) Score {")
	assert.Contains(t, out, "var _ Score = v")
}

func TestRun_FlagMode_MissingOperationDiagnostic(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixturePlain)

	code, stderr := runCapture(t, "-dir", dir, "-iface", "Score", "-checks", "Sticker")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "does not satisfy")
	assert.Contains(t, stderr, "missing operation")
	assert.Contains(t, stderr, "Plus")

	// A failed run must not leave an output file behind.
	_, err := os.Stat(filepath.Join(dir, "erase.gen.go"))
	assert.True(t, os.IsNotExist(err))
}

//
// -----------------------------------------------------------------------------
// run() – manifest mode
// -----------------------------------------------------------------------------

func TestRun_ManifestMode(t *testing.T) {
	t.Parallel()

	dir := writeFixtureModule(t, scoreFixturePlain)
	manifestPath := writeTempFile(t, dir, "whiteout.yaml", scoreManifestYAML)

	code, stderr := runCapture(t, "-manifest", manifestPath)
	require.Equal(t, 0, code, stderr)

	out := readFileString(t, filepath.Join(dir, "score_erase.gen.go"))
	assert.Contains(t, out, "// Source: manifest ")
	assert.Contains(t, out, "whiteout.yaml")
	assert.Contains(t, out, "func Freeze(v Score) Score {")
	assert.Contains(t, out, "func freezeBase(v Score) Score {")
}

func TestRun_ManifestMode_MissingFile(t *testing.T) {
	t.Parallel()

	code, stderr := runCapture(t, "-manifest", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "plan rejected")
}

//
// -----------------------------------------------------------------------------
// outName() / splitList()
// -----------------------------------------------------------------------------

func TestOutName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "flagged.gen.go", outName("flagged.gen.go", "manifested.gen.go"))
	assert.Equal(t, "manifested.gen.go", outName("", "manifested.gen.go"))
	assert.Equal(t, "erase.gen.go", outName("  ", ""))
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B"}, splitList("A,B"))
	assert.Equal(t, []string{"A", "B"}, splitList(" A , ,B, "))
	assert.Nil(t, splitList(""))
}
