// Package whiteout provides compile-time capability erasure for Go.
//
// A capability set is a plain interface. Erasing a value behind it produces an
// opaque handle: the handle exposes exactly the interface's operations and
// nothing else, and its concrete type cannot be named (or asserted back to the
// payload) outside the generated package. There is no runtime machinery; the
// repository is a code generator in the stringer/mockgen family.
//
// Two flavors of erasure are supported:
//
//   - one-off erasers: each eraser gets its own private handle type, so two
//     independently erased values never share a concrete type even when they
//     share a capability
//   - named erasers: one eraser function with exactly one handle type, so
//     every value it erases can be combined with every other through the
//     capability's own operations and flow through a single signature
//
// All failures are generation-time failures: the generator type-checks the
// target package and rejects unresolved capabilities, open (generic)
// interfaces, constraint-only interfaces, and concrete types that miss an
// operation, naming the offending operation in the diagnostic. Generated
// files additionally carry compile-time conformance guards.
//
// See subpackages:
//   - erase: the generator library (capability resolution, satisfaction
//     checks, manifest/directive input, emission)
//   - cmd/erasegen: the go:generate command wrapping the library
//   - examples/*: runnable examples with checked-in generated output
package whiteout
