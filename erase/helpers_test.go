package erase

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// moneySource is the workhorse fixture: a capability, an embedding capability,
// a value-receiver implementation, a pointer-receiver implementation, and one
// failing type for every resolution error worth testing.
const moneySource = `package fixture

type Amount interface {
	Add(other Amount) Amount
	Total() int64
}

type Extended interface {
	Amount
	Scale(by int64) Extended
}

type Cents int64

func (c Cents) Add(other Amount) Amount { return c + Cents(other.Total()) }
func (c Cents) Total() int64            { return int64(c) }

type Account struct{ Balance int64 }

func (a *Account) Add(other Amount) Amount { return &Account{Balance: a.Balance + other.Total()} }
func (a *Account) Total() int64            { return a.Balance }

type Sticker struct{}

func (s Sticker) Total() int64 { return 0 }

type Odd struct{}

func (o Odd) Add(other Odd) Odd { return o }
func (o Odd) Total() int64      { return 0 }

type Box[T any] interface {
	Get() T
}

type IntBox = Box[int]

type Pocket struct{}

func (p Pocket) Get() int { return 7 }

type Number interface {
	~int64 | ~float64
}

type Totaler = interface {
	Total() int64
}

var NotAType = 1
`

// hiddenOpSource embeds testing.TB, whose private method can never be
// implemented outside package testing.
const hiddenOpSource = `package fixture

import "testing"

type Reporter interface {
	testing.TB
}
`

// clockSource exercises the renderer's corner cases: a variadic operation, a
// foreign result type, an operation without results, an unnamed parameter, a
// parameter colliding with the receiver name and a blank parameter whose
// positional replacement would collide with a declared name.
const clockSource = `package fixture

import "time"

type Clock interface {
	Merge(_ int, p0 string)
	Reset()
	Split(int) (Clock, error)
	Stamp(labels ...string) time.Time
	Swap(h Clock) Clock
}
`

// collisionSource pre-claims one eraser name and one handle name.
const collisionSource = `package fixture

type Amount interface {
	Total() int64
}

type wrapHandle struct{}

func Taken() {}
`

// staleOutputSource mimics a previous generation run: the declarations live
// in the output file itself, so regeneration must not treat them as taken.
const staleOutputSource = `package fixture

type Amount interface {
	Total() int64
}

type wrapHandle struct {
	impl Amount
}

func (h wrapHandle) Total() int64 { return h.impl.Total() }

func Wrap(v Amount) Amount {
	if v == nil {
		return nil
	}
	return wrapHandle{impl: v}
}
`

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

// typeCheckSource parses and type-checks src as a single-file package. The
// filename matters: emission exempts declarations positioned in the output
// file from collision checks.
func typeCheckSource(t *testing.T, filename, src string) (*types.Package, *token.FileSet) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	require.NoError(t, err)

	cfg := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := cfg.Check("fixture", fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	return pkg, fset
}

// mustPlan builds a Plan from erasers and checks, failing the test on any
// rejection.
func mustPlan(t *testing.T, erasers []Eraser, checks []Check) *Plan {
	t.Helper()

	plan := NewPlan()
	for _, e := range erasers {
		require.NoError(t, plan.AddEraser(e))
	}
	for _, c := range checks {
		require.NoError(t, plan.AddCheck(c))
	}
	return plan
}

// testJob wraps a type-checked fixture into an emission Job with the default
// output name.
func testJob(pkg *types.Package, fset *token.FileSet, plan *Plan) Job {
	return Job{
		Pkg:    pkg,
		Fset:   fset,
		Plan:   plan,
		Output: "erase.gen.go",
		Source: "directives",
		SHA:    "feedfacefeedface",
	}
}

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// writeFixtureModule lays out a self-contained module around moneySource so
// package loading runs against a real directory.
func writeFixtureModule(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeTempFile(t, dir, "go.mod", "module fixture\n\ngo 1.21\n")
	writeTempFile(t, dir, "models.go", moneySource)
	return dir
}

//
// -----------------------------------------------------------------------------
// WriteFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for WriteFileAtomic tests.
// It lets tests force errors on Write and Close without touching real files.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error { return f.closeErr }

// snapshotWriteFileSeams captures the current global file seams so tests can
// restore them. WriteFileAtomic uses these seams for testability.
func snapshotWriteFileSeams(t *testing.T) (
	origCreate func(string, string) (tempFile, error),
	origRemove func(string) error,
	origChmod func(string, os.FileMode) error,
	origRename func(string, string) error,
) {
	t.Helper()
	return createTempFile, removeFile, chmodFile, renameFile
}

// setWriteFileSeams overrides the global seams used by WriteFileAtomic.
// Pass nil for any seam you don't want to override.
func setWriteFileSeams(
	t *testing.T,
	createFn func(string, string) (tempFile, error),
	removeFn func(path string) error,
	chmodFn func(path string, mode os.FileMode) error,
	renameFn func(oldpath, newpath string) error,
) {
	t.Helper()

	if createFn != nil {
		createTempFile = createFn
	}
	if removeFn != nil {
		removeFile = removeFn
	}
	if chmodFn != nil {
		chmodFile = chmodFn
	}
	if renameFn != nil {
		renameFile = renameFn
	}
}
