package erase

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// directivePrefix marks generation directives in package sources, in the same
// comment shape as go:generate (no space after the slashes).
const directivePrefix = "//whiteout:"

// Directive is one parsed //whiteout: comment.
type Directive struct {
	// Verb is "eraser", "erase" or "check".
	Verb string

	// Args are the verb's arguments: name and capability for erasers, type
	// and capability for checks.
	Args []string

	File string
	Line int
}

// ScanDirectives parses the non-test, non-generated .go files in dir and
// collects //whiteout: directives into a Plan.
//
// Recognized forms:
//
//	//whiteout:eraser <Name> <Capability>   named eraser
//	//whiteout:erase <name> <Capability>    one-off eraser
//	//whiteout:check <Type> <Capability>    conformance guard
//
// The returned directives are in file, then position order, for logging.
func ScanDirectives(dir string) (*Plan, []Directive, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	plan := NewPlan()
	var seen []Directive
	fset := token.NewFileSet()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, ".gen.go") {
			continue
		}

		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, nil, err
		}

		for _, group := range file.Comments {
			for _, comment := range group.List {
				if !strings.HasPrefix(comment.Text, directivePrefix) {
					continue
				}
				pos := fset.Position(comment.Pos())

				directive, err := parseDirective(comment.Text, pos.Filename, pos.Line)
				if err != nil {
					return nil, nil, err
				}
				if err := applyDirective(plan, directive); err != nil {
					return nil, nil, err
				}
				seen = append(seen, directive)
			}
		}
	}

	return plan, seen, nil
}

func parseDirective(text, file string, line int) (Directive, error) {
	fields := strings.Fields(strings.TrimPrefix(text, directivePrefix))
	if len(fields) == 0 {
		return Directive{}, DirectiveError{File: file, Line: line, Text: text, Reason: "missing verb"}
	}

	d := Directive{Verb: fields[0], Args: fields[1:], File: file, Line: line}
	switch d.Verb {
	case "eraser", "erase", "check":
		if len(d.Args) != 2 {
			return Directive{}, DirectiveError{File: file, Line: line, Text: text, Reason: "want exactly two arguments"}
		}
	default:
		return Directive{}, DirectiveError{File: file, Line: line, Text: text, Reason: "unknown verb " + strconv.Quote(d.Verb)}
	}
	return d, nil
}

func applyDirective(plan *Plan, d Directive) error {
	switch d.Verb {
	case "eraser":
		return plan.AddEraser(Eraser{Name: d.Args[0], Capability: d.Args[1]})
	case "erase":
		return plan.AddEraser(Eraser{Name: d.Args[0], Capability: d.Args[1], OneOff: true})
	default:
		return plan.AddCheck(Check{Type: d.Args[0], Capability: d.Args[1]})
	}
}
