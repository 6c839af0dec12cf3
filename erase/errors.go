package erase

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyPlan is returned when a generation run has no erasers and no checks
// to emit.
var ErrEmptyPlan = errors.New("whiteout: nothing to generate")

// UnknownIdentError is returned when a requested capability or concrete type
// is not declared in the target package.
type UnknownIdentError struct {
	// Name is the identifier that was looked up.
	Name string

	// Pkg is the import path of the package that was searched.
	Pkg string
}

// Error implements the error interface.
func (e UnknownIdentError) Error() string {
	// Example: whiteout: "Amount" not found in package "example.com/ops"
	return "whiteout: " + strconv.Quote(e.Name) + " not found in package " + strconv.Quote(e.Pkg)
}

// NotAnInterfaceError is returned when a requested capability resolves to
// something other than a named interface type.
type NotAnInterfaceError struct{ Name string }

// Error implements the error interface.
func (e NotAnInterfaceError) Error() string {
	// Example: whiteout: capability "Cents" is not an interface
	return "whiteout: capability " + strconv.Quote(e.Name) + " is not an interface"
}

// NotATypeError is returned when a requested concrete type resolves to a
// non-type declaration (a var, func or const).
type NotATypeError struct{ Name string }

// Error implements the error interface.
func (e NotATypeError) Error() string {
	// Example: whiteout: "NewAmount" is not a type
	return "whiteout: " + strconv.Quote(e.Name) + " is not a type"
}

// OpenCapabilityError is returned when a capability interface has unbound
// type parameters. Erasure needs one fixed method set, so generic interfaces
// must be instantiated (aliased to a concrete instantiation) first.
type OpenCapabilityError struct {
	Name       string
	TypeParams int
}

// Error implements the error interface.
func (e OpenCapabilityError) Error() string {
	// Example: whiteout: capability "Box" has 1 unbound type parameter(s)
	return "whiteout: capability " + strconv.Quote(e.Name) +
		" has " + strconv.Itoa(e.TypeParams) + " unbound type parameter(s)"
}

// ConstraintCapabilityError is returned when a capability interface embeds
// type terms. Such interfaces are constraints, not method sets, and have no
// operations to forward.
type ConstraintCapabilityError struct{ Name string }

// Error implements the error interface.
func (e ConstraintCapabilityError) Error() string {
	// Example: whiteout: capability "Number" is a type constraint, not a method set
	return "whiteout: capability " + strconv.Quote(e.Name) + " is a type constraint, not a method set"
}

// HiddenOperationError is returned when a capability operation is unexported
// and declared outside the target package. A generated wrapper in the target
// package could never implement it.
type HiddenOperationError struct {
	Capability string
	Operation  string
	Pkg        string
}

// Error implements the error interface.
func (e HiddenOperationError) Error() string {
	// Example: whiteout: operation "seal" of capability "Token" is unexported in package "example.com/auth"
	return "whiteout: operation " + strconv.Quote(e.Operation) +
		" of capability " + strconv.Quote(e.Capability) +
		" is unexported in package " + strconv.Quote(e.Pkg)
}

// MissingOperationError is returned when a concrete type does not satisfy a
// capability. It names the operation that could not be resolved, which is the
// diagnostic a go:generate run surfaces.
type MissingOperationError struct {
	// Type is the concrete type that failed the check.
	Type string

	// Capability is the capability it was checked against.
	Capability string

	// Operation is the method that is missing or mismatched.
	Operation string

	// WrongSignature is true when the operation exists under the right name
	// but with a different signature.
	WrongSignature bool

	// Have and Want are the rendered signatures for the mismatch case.
	Have string
	Want string
}

// Error implements the error interface.
func (e MissingOperationError) Error() string {
	// Example: whiteout: type "Sticker" does not satisfy "Amount": missing operation "Add"
	msg := "whiteout: type " + strconv.Quote(e.Type) + " does not satisfy " + strconv.Quote(e.Capability)
	if e.Operation == "" {
		return msg
	}
	if e.WrongSignature {
		msg += ": operation " + strconv.Quote(e.Operation) + " has the wrong signature"
		if e.Have != "" && e.Want != "" {
			msg += " (have " + e.Have + ", want " + e.Want + ")"
		}
		return msg
	}
	return msg + ": missing operation " + strconv.Quote(e.Operation)
}

// BadNameError is returned when an eraser, check or capability name cannot be
// used as requested.
type BadNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e BadNameError) Error() string {
	// Example: whiteout: bad name "for": not a Go identifier
	return "whiteout: bad name " + strconv.Quote(e.Name) + ": " + e.Reason
}

// DuplicateEraserError is returned when a plan declares the same eraser name
// twice.
type DuplicateEraserError struct{ Name string }

// Error implements the error interface.
func (e DuplicateEraserError) Error() string {
	// Example: whiteout: duplicate eraser "Wrap"
	return "whiteout: duplicate eraser " + strconv.Quote(e.Name)
}

// HandleClashError is returned when two differently named erasers derive the
// same handle type name.
type HandleClashError struct {
	Eraser string
	Other  string
	Handle string
}

// Error implements the error interface.
func (e HandleClashError) Error() string {
	// Example: whiteout: erasers "wrap" and "Wrap" collide on handle type "wrapHandle"
	return "whiteout: erasers " + strconv.Quote(e.Eraser) + " and " + strconv.Quote(e.Other) +
		" collide on handle type " + strconv.Quote(e.Handle)
}

// DuplicateCheckError is returned when a plan declares the same type/capability
// check twice.
type DuplicateCheckError struct {
	Type       string
	Capability string
}

// Error implements the error interface.
func (e DuplicateCheckError) Error() string {
	// Example: whiteout: duplicate check "Cents" / "Amount"
	return "whiteout: duplicate check " + strconv.Quote(e.Type) + " / " + strconv.Quote(e.Capability)
}

// NameTakenError is returned when a generated name is already declared in the
// target package by something other than a previous generation run.
type NameTakenError struct {
	Name string
	Pos  string
}

// Error implements the error interface.
func (e NameTakenError) Error() string {
	// Example: whiteout: name "Wrap" already declared in target package at ops.go:12:6
	msg := "whiteout: name " + strconv.Quote(e.Name) + " already declared in target package"
	if e.Pos != "" {
		msg += " at " + e.Pos
	}
	return msg
}

// DirectiveError is returned for a malformed //whiteout: comment.
type DirectiveError struct {
	File   string
	Line   int
	Text   string
	Reason string
}

// Error implements the error interface.
func (e DirectiveError) Error() string {
	// Example: whiteout: ops.go:4: bad directive "//whiteout:erase x": want exactly two arguments
	return "whiteout: " + e.File + ":" + strconv.Itoa(e.Line) +
		": bad directive " + strconv.Quote(e.Text) + ": " + e.Reason
}

// ManifestError is returned when a manifest is structurally valid YAML but
// misses required fields.
type ManifestError struct{ Missing []string }

// Error implements the error interface.
func (e ManifestError) Error() string {
	// Example: whiteout: manifest missing required fields: [erasers[0].name]
	return "whiteout: manifest missing required fields: [" + strings.Join(e.Missing, " ") + "]"
}

// LoadError is returned when the target package cannot be loaded cleanly.
type LoadError struct {
	Pattern  string
	Problems []string
}

// Error implements the error interface.
func (e LoadError) Error() string {
	// Example: whiteout: load ".": fixture.go:3:1: undefined: Missing
	return "whiteout: load " + strconv.Quote(e.Pattern) + ": " + strings.Join(e.Problems, "; ")
}

// FormatError is returned when a rendered file fails gofmt. Callers receive
// the raw render alongside it so the bad output can be persisted for
// debugging.
type FormatError struct{ Err error }

// Error implements the error interface.
func (e FormatError) Error() string {
	return "whiteout: gofmt on generated output: " + e.Err.Error()
}

// Unwrap returns the underlying gofmt error.
func (e FormatError) Unwrap() error { return e.Err }
