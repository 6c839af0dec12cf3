package erase

import (
	"bytes"
	"go/format"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

// Job bundles everything emission needs for one generated file.
type Job struct {
	// Pkg is the type-checked target package.
	Pkg *types.Package

	// Fset maps declaration positions for collision reports. May be nil when
	// positions are unavailable.
	Fset *token.FileSet

	// Plan is the validated set of erasers and checks.
	Plan *Plan

	// Output is the generated file's name inside the target package.
	// Declarations positioned in it are exempt from collision checks, so a
	// stale output never blocks its own regeneration.
	Output string

	// Source and SHA are stamped into the header: where the plan came from
	// and the hash pinning it.
	Source string
	SHA    string
}

// Generate renders the erasure file for job and runs it through gofmt.
//
// Every failure surfaces here, at generation time: unknown or invalid
// capabilities, concrete types failing their checks (reported as a
// MissingOperationError naming the operation), and generated names already
// taken in the target package. When gofmt rejects the render, Generate
// returns the raw bytes together with a FormatError so callers can persist
// the bad output for inspection.
func Generate(job Job) ([]byte, error) {
	if job.Plan == nil || job.Plan.Empty() {
		return nil, ErrEmptyPlan
	}
	if err := checkNamesFree(job); err != nil {
		return nil, err
	}

	caps := map[string]*Capability{}
	capability := func(name string) (*Capability, error) {
		if c, ok := caps[name]; ok {
			return c, nil
		}
		c, err := ResolveCapability(job.Pkg, name)
		if err != nil {
			return nil, err
		}
		caps[name] = c
		return c, nil
	}

	imports := newImportSet(job.Pkg.Path())
	data := fileData{
		Source:  job.Source,
		SHA:     job.SHA,
		Package: job.Pkg.Name(),
	}

	for _, e := range job.Plan.Erasers() {
		c, err := capability(e.Capability)
		if err != nil {
			return nil, err
		}
		data.Erasers = append(data.Erasers, renderEraser(e, c, imports))
	}

	for _, ck := range job.Plan.Checks() {
		c, err := capability(ck.Capability)
		if err != nil {
			return nil, err
		}
		typ, err := lookupNamedType(job.Pkg, ck.Type)
		if err != nil {
			return nil, err
		}
		byPointer, err := Satisfies(typ, c)
		if err != nil {
			return nil, err
		}
		data.Checks = append(data.Checks, checkData{
			Type:       imports.render(typ),
			Capability: imports.render(c.Named),
			Pointer:    byPointer,
		})
	}

	// Imports are collected as a side effect of rendering, so this comes last.
	data.Imports = imports.lines()

	var buf bytes.Buffer
	if err := fileTpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), FormatError{Err: err}
	}
	return src, nil
}

// checkNamesFree rejects eraser and handle names that the target package
// already declares outside the output file.
func checkNamesFree(job Job) error {
	for _, e := range job.Plan.Erasers() {
		for _, name := range []string{e.Name, e.HandleName()} {
			obj := job.Pkg.Scope().Lookup(name)
			if obj == nil {
				continue
			}
			if job.Fset != nil {
				pos := job.Fset.Position(obj.Pos())
				if pos.IsValid() && filepath.Base(pos.Filename) == filepath.Base(job.Output) {
					continue
				}
			}
			return NameTakenError{Name: name, Pos: objectPos(job.Fset, obj)}
		}
	}
	return nil
}

func objectPos(fset *token.FileSet, obj types.Object) string {
	if fset == nil {
		return ""
	}
	if pos := fset.Position(obj.Pos()); pos.IsValid() {
		return pos.String()
	}
	return ""
}

// ---------------------------------------------------------------------------
// rendering
// ---------------------------------------------------------------------------

type fileData struct {
	Source  string
	SHA     string
	Package string
	Imports []string
	Erasers []eraserData
	Checks  []checkData
}

type eraserData struct {
	Name       string
	Handle     string
	Capability string
	OneOff     bool
	Methods    []methodData
}

type methodData struct {
	Recv    string
	Name    string
	Params  string
	Results string
	Body    []string
}

type checkData struct {
	Type       string
	Capability string
	Pointer    bool
}

func renderEraser(e Eraser, c *Capability, imports *importSet) eraserData {
	handle := e.HandleName()
	d := eraserData{
		Name:       e.Name,
		Handle:     handle,
		Capability: imports.render(c.Named),
		OneOff:     e.OneOff,
	}
	for _, op := range c.Ops {
		d.Methods = append(d.Methods, renderMethod(handle, op, c, imports))
	}
	return d
}

// renderMethod lowers one capability operation into a forwarder on the handle
// type. Results identical to the capability's own type are re-wrapped, so a
// handle can never leak its payload through a capability-typed return. Nil
// results pass through untouched.
func renderMethod(handle string, op Operation, c *Capability, imports *importSet) methodData {
	sig := op.Sig
	params := sig.Params()

	// Declared names that survive renaming are off-limits for the positional
	// names handed to anonymous parameters.
	taken := map[string]bool{}
	for i := 0; i < params.Len(); i++ {
		if n := params.At(i).Name(); n != "" && n != "_" && n != "h" {
			taken[n] = true
		}
	}

	args := make([]string, params.Len())
	decls := make([]string, params.Len())
	next := 0
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		name := p.Name()
		// "h" is the receiver; anonymous and blank parameters need a name to
		// forward.
		if name == "" || name == "_" || name == "h" {
			for {
				name = "p" + strconv.Itoa(next)
				next++
				if !taken[name] {
					break
				}
			}
		}
		args[i] = name
		if sig.Variadic() && i == params.Len()-1 {
			elem := p.Type().(*types.Slice).Elem()
			decls[i] = name + " ..." + imports.render(elem)
			args[i] = name + "..."
		} else {
			decls[i] = name + " " + imports.render(p.Type())
		}
	}
	call := "h.impl." + op.Name + "(" + strings.Join(args, ", ") + ")"

	results := sig.Results()
	resTypes := make([]string, results.Len())
	var wrapped []int
	for i := 0; i < results.Len(); i++ {
		resTypes[i] = imports.render(results.At(i).Type())
		if c.IsSelf(results.At(i).Type()) {
			wrapped = append(wrapped, i)
		}
	}

	var resClause string
	switch results.Len() {
	case 0:
	case 1:
		resClause = " " + resTypes[0]
	default:
		resClause = " (" + strings.Join(resTypes, ", ") + ")"
	}

	var body []string
	switch {
	case results.Len() == 0:
		body = []string{call}
	case len(wrapped) == 0:
		body = []string{"return " + call}
	default:
		vars := make([]string, results.Len())
		for i := range vars {
			vars[i] = "r" + strconv.Itoa(i)
		}
		body = append(body, strings.Join(vars, ", ")+" := "+call)
		for _, i := range wrapped {
			body = append(body,
				"if "+vars[i]+" != nil {",
				"\t"+vars[i]+" = "+handle+"{impl: "+vars[i]+"}",
				"}",
			)
		}
		body = append(body, "return "+strings.Join(vars, ", "))
	}

	return methodData{
		Recv:    handle,
		Name:    op.Name,
		Params:  strings.Join(decls, ", "),
		Results: resClause,
		Body:    body,
	}
}

// importSet accumulates the foreign packages referenced by rendered types and
// hands out stable identifiers for them.
type importSet struct {
	local string
	named map[string]importEntry
	taken map[string]bool
}

type importEntry struct {
	pkgName string
	ident   string
}

func newImportSet(local string) *importSet {
	return &importSet{
		local: local,
		named: map[string]importEntry{},
		taken: map[string]bool{},
	}
}

func (s *importSet) render(t types.Type) string {
	return types.TypeString(t, s.qualifier)
}

// qualifier implements types.Qualifier. The first package seen under a given
// name keeps it; later ones get a numeric suffix.
func (s *importSet) qualifier(p *types.Package) string {
	if p == nil || p.Path() == s.local {
		return ""
	}
	if e, ok := s.named[p.Path()]; ok {
		return e.ident
	}
	ident := p.Name()
	for n := 2; s.taken[ident]; n++ {
		ident = p.Name() + strconv.Itoa(n)
	}
	s.taken[ident] = true
	s.named[p.Path()] = importEntry{pkgName: p.Name(), ident: ident}
	return ident
}

// lines renders the import block entries sorted by path, aliased only where
// the identifier differs from the package's own name.
func (s *importSet) lines() []string {
	paths := make([]string, 0, len(s.named))
	for path := range s.named {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]string, len(paths))
	for i, path := range paths {
		e := s.named[path]
		if e.ident == e.pkgName {
			out[i] = strconv.Quote(path)
		} else {
			out[i] = e.ident + " " + strconv.Quote(path)
		}
	}
	return out
}

var fileTpl = template.Must(template.New("eraseFile").Parse(`// Code generated by erasegen; DO NOT EDIT.
// Source: {{.Source}}
// Source-SHA256: {{.SHA}}

package {{.Package}}
{{- if .Imports}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{- end}}
{{- range .Erasers}}

// {{.Handle}} carries a value erased behind {{.Capability}}. The payload is
// reachable only through {{.Capability}} operations.
type {{.Handle}} struct {
	impl {{.Capability}}
}

var _ {{.Capability}} = {{.Handle}}{}
{{- range .Methods}}

func (h {{.Recv}}) {{.Name}}({{.Params}}){{.Results}} {
{{- range .Body}}
	{{.}}
{{- end}}
}
{{- end}}

{{if .OneOff -}}
// {{.Name}} erases v behind a handle type private to this eraser. Handles
// from different erasers never share a concrete type.
{{- else -}}
// {{.Name}} erases v behind one shared handle type. Every handle produced by
// {{.Name}} has the same concrete type, so independently erased values
// combine through {{.Capability}} operations.
{{- end}}
func {{.Name}}(v {{.Capability}}) {{.Capability}} {
	if v == nil {
		return nil
	}
	return {{.Handle}}{impl: v}
}
{{- end}}
{{- range .Checks}}

// {{.Type}} must keep satisfying {{.Capability}}.
func _() {
	var v {{.Type}}
	var _ {{.Capability}} = {{if .Pointer}}&{{end}}v
}
{{- end}}
`))
