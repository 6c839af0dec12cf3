package erase

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of one generation run.
//
// Example:
//
//	package: .
//	output: erase.gen.go
//	erasers:
//	  - name: Wrap
//	    capability: Amount
//	  - name: eraseTen
//	    capability: Amount
//	    oneoff: true
//	checks:
//	  - type: Cents
//	    capability: Amount
type Manifest struct {
	// Package is the package pattern to load, relative to the manifest's
	// directory. Defaults to ".".
	Package string `yaml:"package"`

	// Output is the generated file name, relative to the package directory.
	// Defaults to "erase.gen.go".
	Output string `yaml:"output"`

	Erasers []ManifestEraser `yaml:"erasers"`
	Checks  []ManifestCheck  `yaml:"checks"`

	// Path and SHA256 describe the loaded manifest file. LoadManifest fills
	// them; they are stamped into the generated header.
	Path   string `yaml:"-"`
	SHA256 string `yaml:"-"`
}

// ManifestEraser declares one eraser in a manifest.
type ManifestEraser struct {
	Name       string `yaml:"name"`
	Capability string `yaml:"capability"`
	OneOff     bool   `yaml:"oneoff"`
}

// ManifestCheck declares one conformance guard in a manifest.
type ManifestCheck struct {
	Type       string `yaml:"type"`
	Capability string `yaml:"capability"`
}

// ParseManifest decodes raw strictly: unknown fields are errors, so a typo in
// a manifest fails generation instead of silently dropping entries.
func ParseManifest(raw []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("whiteout: manifest decode: %w", err)
	}

	if strings.TrimSpace(m.Package) == "" {
		m.Package = "."
	}
	if strings.TrimSpace(m.Output) == "" {
		m.Output = "erase.gen.go"
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	m.SHA256 = sha256Hex(raw)
	return &m, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

func (m *Manifest) validate() error {
	var missing []string

	for i, e := range m.Erasers {
		if strings.TrimSpace(e.Name) == "" {
			missing = append(missing, fmt.Sprintf("erasers[%d].name", i))
		}
		if strings.TrimSpace(e.Capability) == "" {
			missing = append(missing, fmt.Sprintf("erasers[%d].capability", i))
		}
	}
	for i, c := range m.Checks {
		if strings.TrimSpace(c.Type) == "" {
			missing = append(missing, fmt.Sprintf("checks[%d].type", i))
		}
		if strings.TrimSpace(c.Capability) == "" {
			missing = append(missing, fmt.Sprintf("checks[%d].capability", i))
		}
	}
	if len(m.Erasers) == 0 && len(m.Checks) == 0 {
		missing = append(missing, "erasers/checks (must declare at least one)")
	}

	if len(missing) > 0 {
		return ManifestError{Missing: missing}
	}
	return nil
}

// Plan converts the manifest entries into a validated Plan.
func (m *Manifest) Plan() (*Plan, error) {
	plan := NewPlan()
	for _, e := range m.Erasers {
		eraser := Eraser{Name: e.Name, Capability: e.Capability, OneOff: e.OneOff}
		if err := plan.AddEraser(eraser); err != nil {
			return nil, err
		}
	}
	for _, c := range m.Checks {
		if err := plan.AddCheck(Check{Type: c.Type, Capability: c.Capability}); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
