package erase

import "go/types"

// Satisfies reports whether typ satisfies the capability's method set.
//
// byPointer is true when only *typ implements the capability; generated
// conformance guards then assert through a pointer.
//
// On failure the error is a MissingOperationError naming the operation that
// could not be resolved, with a signature diff when the name exists but the
// shape differs.
func Satisfies(typ types.Type, c *Capability) (byPointer bool, err error) {
	if types.Implements(typ, c.Iface) {
		return false, nil
	}
	if types.Implements(types.NewPointer(typ), c.Iface) {
		return true, nil
	}

	qual := types.RelativeTo(c.Pkg)
	failure := MissingOperationError{
		Type:       types.TypeString(typ, qual),
		Capability: c.Name,
	}

	// The pointer type has the bigger method set, so a method it misses is
	// missing for good.
	missing, wrongType := types.MissingMethod(types.NewPointer(typ), c.Iface, true)
	if missing != nil {
		failure.Operation = missing.Name()
		failure.WrongSignature = wrongType
		failure.Want = types.TypeString(missing.Type(), qual)
		if obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(typ), true, missing.Pkg(), missing.Name()); obj != nil {
			if fn, ok := obj.(*types.Func); ok {
				failure.Have = types.TypeString(fn.Type(), qual)
			}
		}
	}
	return false, failure
}
