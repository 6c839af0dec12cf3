// Command erasegen — capability erasure wrappers for Go (codegen)
//
// erasegen turns capability declarations into generated erasure code:
//
//   - You declare a capability set as a plain Go interface.
//   - You request erasers (named or one-off) and conformance checks.
//   - erasegen generates, per eraser, an unexported handle type whose method
//     set is exactly the capability, plus the eraser function producing
//     handles; per check, a compile-time guard pinning a concrete type to its
//     capability.
//
// There is no runtime machinery and no reflection; handles forward every
// operation to a hidden payload, and nothing in the generated surface returns
// the payload or its identity.
//
// Input modes
//
// Exactly one of three modes drives a run:
//
//   - Directive mode (default): scan -dir for //whiteout: comments.
//
//     //whiteout:eraser Wrap Amount     named eraser
//     //whiteout:erase eraseTen Amount  one-off eraser
//     //whiteout:check Cents Amount     conformance guard
//
//   - Manifest mode (-manifest): a YAML file describing the run.
//
//     package: .
//     output: erase.gen.go
//     erasers:
//       - name: Wrap
//         capability: Amount
//       - name: eraseTen
//         capability: Amount
//         oneoff: true
//     checks:
//       - type: Cents
//         capability: Amount
//
//   - Flag mode (-iface): -erasers, -once and -checks list entries bound to
//     the one capability named by -iface.
//
// Typical go:generate usage
//
// Put this in a Go file of the package that declares the capability:
//
//	//go:generate go run github.com/sghaida/whiteout/cmd/erasegen
//
// Then:
//
//	go generate ./...
//
// go generate runs the tool in the owner file's directory, so the default
// -dir of "." lands on the right package.
//
// Named vs one-off erasers
//
// A named eraser mints ONE handle type: every value it erases — whatever its
// concrete type — comes back as that same handle, so independently erased
// values combine through the capability's own operations and flow through a
// single downstream signature. A one-off eraser mints its own private handle
// type; handles from different one-off erasers never share a concrete type,
// even for the same capability.
//
// Failure behavior
//
// All failures happen here, at generation time: unknown or generic
// capabilities, constraint-only interfaces, concrete types missing an
// operation (the diagnostic names it), and generated names already taken in
// the target package. Exit codes: 0 success, 1 generation failure, 2 usage.
//
// The generated header carries the plan source and its SHA-256, so drift
// between declarations and the checked-in file shows up in review. Output is
// written atomically, and a stale generated file never blocks its own
// regeneration.
package main
