package erase

import (
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// loadMode pulls enough for scope lookups, satisfaction checking and position
// reporting, without loading test variants.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedDeps

// Target is a loaded, type-checked package that generation runs against.
type Target struct {
	Dir string
	Pkg *packages.Package
}

// LoadTarget type-checks the package matched by pattern under dir.
//
// output (the generated file name) is forgiven: load errors positioned inside
// it are dropped, so a stale generated file cannot block its own
// regeneration. Any other load error is fatal.
func LoadTarget(dir, pattern, output string) (*Target, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = "."
	}

	cfg := &packages.Config{
		Mode:  loadMode,
		Tests: false,
		Dir:   dir,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, LoadError{
			Pattern:  pattern,
			Problems: []string{"matched " + strconv.Itoa(len(pkgs)) + " packages, want exactly 1"},
		}
	}
	pkg := pkgs[0]

	var problems []string
	for _, loadErr := range pkg.Errors {
		if output != "" && errPosFile(loadErr.Pos) == filepath.Base(output) {
			continue
		}
		problems = append(problems, loadErr.Error())
	}
	if len(problems) > 0 {
		return nil, LoadError{Pattern: pattern, Problems: problems}
	}
	if pkg.Types == nil {
		return nil, LoadError{Pattern: pattern, Problems: []string{"package has no type information"}}
	}

	return &Target{Dir: dir, Pkg: pkg}, nil
}

// errPosFile extracts the bare file name from a "file:line:col" error
// position. Forgiveness must match the output file exactly; a sibling whose
// name merely contains it (amount_erase.gen.go vs erase.gen.go) stays fatal.
func errPosFile(pos string) string {
	if i := strings.IndexByte(pos, ':'); i >= 0 {
		pos = pos[:i]
	}
	return filepath.Base(pos)
}

// Capability resolves a capability interface declared in the target package.
func (t *Target) Capability(name string) (*Capability, error) {
	return ResolveCapability(t.Pkg.Types, name)
}

// Concrete resolves a type declared in the target package, for checks.
func (t *Target) Concrete(name string) (types.Type, error) {
	return lookupNamedType(t.Pkg.Types, name)
}

// Job builds an emission Job for this target.
func (t *Target) Job(plan *Plan, output, source, sha string) Job {
	return Job{
		Pkg:    t.Pkg.Types,
		Fset:   t.Pkg.Fset,
		Plan:   plan,
		Output: output,
		Source: source,
		SHA:    sha,
	}
}
