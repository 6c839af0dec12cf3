package erase

import (
	"go/types"
	"sort"
)

// Operation is one method of a capability's flattened method set.
type Operation struct {
	// Name is the method name as it appears on generated forwarders.
	Name string

	// Sig is the fully resolved method signature.
	Sig *types.Signature
}

// Capability is a resolved capability set: a named Go interface whose entire
// method set is known at generation time.
//
// Ops holds the flattened method set (embedded interfaces resolved) sorted by
// name, so everything derived from a Capability is deterministic.
type Capability struct {
	// Name is the identifier the capability was requested under.
	Name string

	// Pkg is the package the generated code will live in.
	Pkg *types.Package

	// Named is the interface's defined type. Forwarder results identical to
	// it are re-wrapped so opacity survives capability-typed returns.
	Named *types.Named

	// Iface is the complete underlying interface.
	Iface *types.Interface

	Ops []Operation
}

// ResolveCapability looks up name in pkg and validates it as a capability set.
//
// It fails with:
//   - UnknownIdentError when the name is not declared in pkg
//   - NotAnInterfaceError when the name is not a named interface type
//   - OpenCapabilityError when the interface has unbound type parameters;
//     instantiated generic interfaces (aliased to a concrete instantiation)
//     resolve like any other capability
//   - ConstraintCapabilityError when the interface carries type terms
//   - HiddenOperationError when an operation is unexported outside pkg
func ResolveCapability(pkg *types.Package, name string) (*Capability, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, UnknownIdentError{Name: name, Pkg: pkg.Path()}
	}

	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, NotAnInterfaceError{Name: name}
	}

	// Aliases to a named interface resolve through it; aliases to interface
	// literals have no nameable identity for the generated guards.
	named, ok := types.Unalias(typeName.Type()).(*types.Named)
	if !ok {
		return nil, NotAnInterfaceError{Name: name}
	}
	// Instantiated generics keep their type parameter list; only parameters
	// without a matching argument are actually unbound.
	if n := named.TypeParams().Len() - named.TypeArgs().Len(); n > 0 {
		return nil, OpenCapabilityError{Name: name, TypeParams: n}
	}

	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil, NotAnInterfaceError{Name: name}
	}
	if !iface.IsMethodSet() {
		return nil, ConstraintCapabilityError{Name: name}
	}

	ops := make([]Operation, 0, iface.NumMethods())
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if !m.Exported() && m.Pkg() != nil && m.Pkg() != pkg {
			return nil, HiddenOperationError{
				Capability: name,
				Operation:  m.Name(),
				Pkg:        m.Pkg().Path(),
			}
		}
		ops = append(ops, Operation{Name: m.Name(), Sig: m.Type().(*types.Signature)})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })

	return &Capability{
		Name:  name,
		Pkg:   pkg,
		Named: named,
		Iface: iface,
		Ops:   ops,
	}, nil
}

// IsSelf reports whether t is the capability's own named type.
func (c *Capability) IsSelf(t types.Type) bool {
	return types.Identical(types.Unalias(t), c.Named)
}

// lookupNamedType resolves a type declaration in pkg's scope.
func lookupNamedType(pkg *types.Package, name string) (types.Type, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, UnknownIdentError{Name: name, Pkg: pkg.Path()}
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, NotATypeError{Name: name}
	}
	return typeName.Type(), nil
}
