// test_helpers.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// scoreFixtureWithDirectives is a loadable package that declares its own plan
// through //whiteout: comments.
const scoreFixtureWithDirectives = `package fixture

//whiteout:eraser Freeze Score
//whiteout:erase freezeBase Score
//whiteout:check Points Score

type Score interface {
	Plus(points int64) Score
	Value() int64
}

type Points int64

func (p Points) Plus(points int64) Score { return p + Points(points) }
func (p Points) Value() int64            { return int64(p) }

type Sticker struct{}

func (s Sticker) Value() int64 { return 0 }
`

// scoreFixturePlain is the same package without directives, for flag-driven
// and manifest-driven runs.
const scoreFixturePlain = `package fixture

type Score interface {
	Plus(points int64) Score
	Value() int64
}

type Points int64

func (p Points) Plus(points int64) Score { return p + Points(points) }
func (p Points) Value() int64            { return int64(p) }

type Sticker struct{}

func (s Sticker) Value() int64 { return 0 }
`

// scoreManifestYAML drives a manifest-mode run against scoreFixturePlain.
const scoreManifestYAML = `output: score_erase.gen.go
erasers:
  - name: Freeze
    capability: Score
  - name: freezeBase
    capability: Score
    oneoff: true
checks:
  - type: Points
    capability: Score
`

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// writeFixtureModule lays out a self-contained module with source as its only
// package file, so package loading runs against a real directory.
func writeFixtureModule(t *testing.T, source string) string {
	t.Helper()

	dir := t.TempDir()
	writeTempFile(t, dir, "go.mod", "module fixture\n\ngo 1.21\n")
	writeTempFile(t, dir, "models.go", source)
	return dir
}

// runCapture invokes run with stderr captured.
func runCapture(t *testing.T, args ...string) (int, string) {
	t.Helper()

	var stderr bytes.Buffer
	code := run(args, &stderr)
	return code, stderr.String()
}

// readFileString reads a file and returns its contents as string (fatal on error).
func readFileString(t *testing.T, p string) string {
	t.Helper()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}
