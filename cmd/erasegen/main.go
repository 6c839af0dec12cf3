// cmd/erasegen/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/sghaida/whiteout/erase"
)

// This binary is a code-generation tool.
//
// It turns capability declarations into erasure wrappers: for each requested
// eraser it generates an unexported handle type that implements the capability
// interface by forwarding to a hidden payload, plus the eraser function that
// produces handles. For each requested check it generates a conformance guard
// that keeps a concrete type pinned to its capability.
//
// Key behaviors:
// - Three input modes: //whiteout: directives in package sources (default),
//   a YAML manifest (-manifest), or flags (-iface with -erasers/-once/-checks)
// - Loads and type-checks the target package; failures surface here, at
//   generation time, naming the operation a type is missing
// - Stamps the generated header with the plan source and its SHA-256, so
//   drift between declarations and generated file shows up in review
// - Writes output atomically (temp file + rename) to avoid partial writes
// - A stale generated output never blocks its own regeneration

// goGenerateEnv is the environment go:generate sets for the tools it runs.
type goGenerateEnv struct {
	GoFile    string `env:"GOFILE"`
	GoPackage string `env:"GOPACKAGE"`
	GoLine    int    `env:"GOLINE"`
}

// genRequest is one resolved generation run: a validated plan plus where it
// came from and where its output goes.
type genRequest struct {
	dir    string
	out    string
	plan   *erase.Plan
	source string
	sha    string
}

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("erasegen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	dirFlag := flags.String("dir", ".", "package directory to scan and generate into")
	outFlag := flags.String("out", "", "generated file name (default erase.gen.go, or the manifest's output)")
	manifestFlag := flags.String("manifest", "", "path to a whiteout manifest (manifest mode)")
	ifaceFlag := flags.String("iface", "", "capability interface name (flag mode)")
	erasersFlag := flags.String("erasers", "", "comma-separated named erasers (flag mode)")
	onceFlag := flags.String("once", "", "comma-separated one-off erasers (flag mode)")
	checksFlag := flags.String("checks", "", "comma-separated types to check against -iface (flag mode)")
	verbose := flags.Bool("v", false, "debug logging")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	genv, err := env.ParseAs[goGenerateEnv]()
	if err != nil {
		log.WithError(err).Debug("go:generate environment not parsed")
	}
	if genv.GoFile != "" {
		log.WithFields(logrus.Fields{
			"gofile":    genv.GoFile,
			"gopackage": genv.GoPackage,
			"goline":    genv.GoLine,
		}).Debug("invoked by go:generate")
	}

	manifestMode := strings.TrimSpace(*manifestFlag) != ""
	flagMode := strings.TrimSpace(*ifaceFlag) != ""
	if manifestMode && flagMode {
		_, _ = fmt.Fprintln(stderr, "usage: erasegen [-dir d] [-out f.gen.go] [-manifest m.yaml | -iface Capability [-erasers a,b] [-once c] [-checks T,U]]")
		return 2
	}
	if !flagMode && (*erasersFlag != "" || *onceFlag != "" || *checksFlag != "") {
		_, _ = fmt.Fprintln(stderr, "erasegen: -erasers, -once and -checks need -iface")
		return 2
	}

	var req genRequest
	switch {
	case manifestMode:
		req, err = manifestRequest(*manifestFlag, *outFlag)
	case flagMode:
		req, err = flagRequest(*dirFlag, *ifaceFlag, *erasersFlag, *onceFlag, *checksFlag, *outFlag)
	default:
		req, err = directiveRequest(*dirFlag, *outFlag, log)
	}
	if err != nil {
		log.WithError(err).Error("plan rejected")
		return 1
	}

	if err := emit(req, log); err != nil {
		log.WithError(err).Error("generation failed")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// manifestRequest builds the run from a YAML manifest. The manifest's package
// field is resolved relative to the manifest file, and its recorded SHA-256
// pins the generated header to the manifest contents.
func manifestRequest(path, outFlag string) (genRequest, error) {
	m, err := erase.LoadManifest(path)
	if err != nil {
		return genRequest{}, err
	}
	plan, err := m.Plan()
	if err != nil {
		return genRequest{}, err
	}
	return genRequest{
		dir:    filepath.Join(filepath.Dir(path), filepath.FromSlash(m.Package)),
		out:    outName(outFlag, m.Output),
		plan:   plan,
		source: "manifest " + filepath.ToSlash(path),
		sha:    m.SHA256,
	}, nil
}

// flagRequest builds the run from -iface and its companion list flags. Every
// listed eraser and check targets the one capability named by -iface.
func flagRequest(dir, iface, erasers, once, checks, outFlag string) (genRequest, error) {
	plan := erase.NewPlan()
	for _, name := range splitList(erasers) {
		if err := plan.AddEraser(erase.Eraser{Name: name, Capability: iface}); err != nil {
			return genRequest{}, err
		}
	}
	for _, name := range splitList(once) {
		if err := plan.AddEraser(erase.Eraser{Name: name, Capability: iface, OneOff: true}); err != nil {
			return genRequest{}, err
		}
	}
	for _, typ := range splitList(checks) {
		if err := plan.AddCheck(erase.Check{Type: typ, Capability: iface}); err != nil {
			return genRequest{}, err
		}
	}
	if plan.Empty() {
		return genRequest{}, erase.ErrEmptyPlan
	}
	return genRequest{
		dir:    dir,
		out:    outName(outFlag, ""),
		plan:   plan,
		source: "flags",
		sha:    plan.Fingerprint(),
	}, nil
}

// directiveRequest builds the run from //whiteout: comments in dir's sources.
func directiveRequest(dir, outFlag string, log *logrus.Logger) (genRequest, error) {
	plan, directives, err := erase.ScanDirectives(dir)
	if err != nil {
		return genRequest{}, err
	}
	for _, d := range directives {
		log.WithFields(logrus.Fields{
			"file": d.File,
			"line": d.Line,
			"verb": d.Verb,
			"args": strings.Join(d.Args, " "),
		}).Debug("directive")
	}
	if plan.Empty() {
		return genRequest{}, erase.ErrEmptyPlan
	}
	return genRequest{
		dir:    dir,
		out:    outName(outFlag, ""),
		plan:   plan,
		source: "directives",
		sha:    plan.Fingerprint(),
	}, nil
}

// generate is a seam over erase.Generate, overridden in tests to force the
// format-failure path.
var generate = erase.Generate

// emit type-checks the target package, renders the erasure file and writes it.
func emit(req genRequest, log *logrus.Logger) error {
	target, err := erase.LoadTarget(req.dir, ".", req.out)
	if err != nil {
		return err
	}

	src, err := generate(target.Job(req.plan, req.out, req.source, req.sha))
	outPath := filepath.Join(req.dir, req.out)

	var formatErr erase.FormatError
	if errors.As(err, &formatErr) {
		// Keep the unformatted render on disk so the bad output can be read.
		_ = os.WriteFile(outPath, src, 0o644)
		return err
	}
	if err != nil {
		return err
	}

	if err := erase.WriteFileAtomic(outPath, src, 0o644); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"output":  outPath,
		"erasers": len(req.plan.Erasers()),
		"checks":  len(req.plan.Checks()),
	}).Debug("generated")
	return nil
}

func outName(flagValue, manifestValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(manifestValue); v != "" {
		return v
	}
	return "erase.gen.go"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
