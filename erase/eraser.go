package erase

import (
	"go/token"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Eraser declares one generated eraser function.
type Eraser struct {
	// Name is the generated function name.
	Name string

	// Capability is the interface (by name, in the target package) the
	// eraser erases to.
	Capability string

	// OneOff marks a single-use eraser: it gets its own private handle type,
	// so its handles never share a concrete type with any other eraser's.
	OneOff bool
}

// HandleName is the unexported struct type backing handles of this eraser.
func (e Eraser) HandleName() string {
	r, size := utf8.DecodeRuneInString(e.Name)
	return string(unicode.ToLower(r)) + e.Name[size:] + "Handle"
}

func (e Eraser) validate() error {
	if !token.IsIdentifier(e.Name) {
		return BadNameError{Name: e.Name, Reason: "not a Go identifier"}
	}
	if e.OneOff && token.IsExported(e.Name) {
		return BadNameError{Name: e.Name, Reason: "one-off erasers are single-use and must be unexported"}
	}
	if !token.IsIdentifier(e.Capability) {
		return BadNameError{Name: e.Capability, Reason: "capability must be an identifier in the target package"}
	}
	return nil
}

// Check declares one generated conformance guard: the named concrete type
// must satisfy the named capability.
type Check struct {
	Type       string
	Capability string
}

func (c Check) validate() error {
	if !token.IsIdentifier(c.Type) {
		return BadNameError{Name: c.Type, Reason: "check type must be an identifier in the target package"}
	}
	if !token.IsIdentifier(c.Capability) {
		return BadNameError{Name: c.Capability, Reason: "capability must be an identifier in the target package"}
	}
	return nil
}

type checkKey struct{ typ, capability string }

// Plan is the validated set of erasers and checks for one target package.
//
// Additions are rejected on invalid names, duplicate erasers, handle type
// clashes and duplicate checks, so emission never re-validates.
type Plan struct {
	erasers []Eraser
	checks  []Check

	eraserNames map[string]struct{}
	handleNames map[string]string
	checkKeys   map[checkKey]struct{}
}

// NewPlan returns an empty Plan.
func NewPlan() *Plan {
	return &Plan{
		eraserNames: map[string]struct{}{},
		handleNames: map[string]string{},
		checkKeys:   map[checkKey]struct{}{},
	}
}

// AddEraser validates e and records it.
func (p *Plan) AddEraser(e Eraser) error {
	if err := e.validate(); err != nil {
		return err
	}
	if _, exists := p.eraserNames[e.Name]; exists {
		return DuplicateEraserError{Name: e.Name}
	}
	handle := e.HandleName()
	if other, exists := p.handleNames[handle]; exists {
		return HandleClashError{Eraser: e.Name, Other: other, Handle: handle}
	}

	p.eraserNames[e.Name] = struct{}{}
	p.handleNames[handle] = e.Name
	p.erasers = append(p.erasers, e)
	return nil
}

// AddCheck validates c and records it.
func (p *Plan) AddCheck(c Check) error {
	if err := c.validate(); err != nil {
		return err
	}
	key := checkKey{typ: c.Type, capability: c.Capability}
	if _, exists := p.checkKeys[key]; exists {
		return DuplicateCheckError{Type: c.Type, Capability: c.Capability}
	}

	p.checkKeys[key] = struct{}{}
	p.checks = append(p.checks, c)
	return nil
}

// Empty reports whether the plan has nothing to generate.
func (p *Plan) Empty() bool { return len(p.erasers) == 0 && len(p.checks) == 0 }

// Erasers returns the erasers sorted by name.
func (p *Plan) Erasers() []Eraser {
	out := make([]Eraser, len(p.erasers))
	copy(out, p.erasers)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Checks returns the checks sorted by type, then capability.
func (p *Plan) Checks() []Check {
	out := make([]Check, len(p.checks))
	copy(out, p.checks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type == out[j].Type {
			return out[i].Capability < out[j].Capability
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Fingerprint is a stable hash of the plan's canonical encoding. It is
// stamped into generated headers so regeneration drift shows up in review.
func (p *Plan) Fingerprint() string {
	var sb strings.Builder
	for _, e := range p.Erasers() {
		sb.WriteString("eraser ")
		sb.WriteString(e.Name)
		sb.WriteByte(' ')
		sb.WriteString(e.Capability)
		if e.OneOff {
			sb.WriteString(" oneoff")
		}
		sb.WriteByte('\n')
	}
	for _, c := range p.Checks() {
		sb.WriteString("check ")
		sb.WriteString(c.Type)
		sb.WriteByte(' ')
		sb.WriteString(c.Capability)
		sb.WriteByte('\n')
	}
	return sha256Hex([]byte(sb.String()))
}
