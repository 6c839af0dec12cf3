// Package erase turns capability interfaces into sealed wrapper types and
// eraser functions.
//
// The package is the library behind cmd/erasegen. It loads and type-checks a
// target package, resolves capability sets (plain interfaces with a closed,
// fully known method set), verifies that requested concrete types satisfy
// them, and renders one generated file per run containing:
//
//   - an unexported handle struct per eraser, whose method set is exactly the
//     capability and whose payload field is unreachable from outside
//   - an eraser function per declaration that boxes a value into its handle
//   - a conformance guard per requested check, so a drifting concrete type
//     breaks the build instead of a downstream caller
//
// Inputs arrive in one of three shapes, all producing the same Plan:
//
//   - a YAML manifest (see Manifest)
//   - //whiteout: directives inside the target package (see ScanDirectives)
//   - a programmatic Plan, which cmd/erasegen builds from flags
//
// Quick guidance
//
// Use a named eraser when handles must combine: every handle it produces has
// one concrete type, so erased values can be passed to the same parameter,
// stored in the same slice, and folded through capability operations.
//
// Use a one-off eraser when a value should be opaque AND unmixable: each
// one-off eraser mints its own handle type, so handles from different erasers
// stay distinct even for the same capability.
//
// Re-wrapping covers exactly the eraser's capability: a result typed as the
// capability itself comes back inside the same handle, while a result typed
// as any other interface — an embedded capability's own type, say — is
// forwarded as the payload produced it, dynamic type included. Erase to the
// interface whose results must stay opaque.
//
// All validation happens before anything is written. Errors are typed (see
// MissingOperationError and friends) and name the operation or declaration
// that failed, so a go:generate run fails with an actionable message.
//
// Import
//
//	"github.com/sghaida/whiteout/erase"
package erase
