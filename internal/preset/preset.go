// Package preset provides the named satellite groups bundled with the binary.
package preset

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var bundled string

// Preset is a named group of satellites.
type Preset struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Prefix      string   `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	From        int      `yaml:"from,omitempty" json:"from,omitempty"`
	To          int      `yaml:"to,omitempty" json:"to,omitempty"`
	List        []string `yaml:"satellites,omitempty" json:"-"`
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Satellites expands the preset into satellite IDs.
func (p Preset) Satellites() []string {
	if len(p.List) > 0 {
		return ParseSatellites(strings.Join(p.List, ","))
	}
	out := make([]string, 0, p.To-p.From+1)
	for prn := p.From; prn <= p.To; prn++ {
		out = append(out, fmt.Sprintf("%s%02d", strings.ToUpper(p.Prefix), prn))
	}
	return out
}

// Load decodes a presets document.
func Load(r io.Reader) ([]Preset, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name is required", i)
		}
		if len(p.List) == 0 && (p.Prefix == "" || p.From < 0 || p.To < p.From) {
			return nil, fmt.Errorf("preset %q: needs satellites or prefix with from <= to", p.Name)
		}
	}
	return f.Presets, nil
}

var (
	once    sync.Once
	presets []Preset
	loadErr error
)

// All returns the bundled presets.
func All() ([]Preset, error) {
	once.Do(func() {
		presets, loadErr = Load(strings.NewReader(bundled))
	})
	return presets, loadErr
}

// Lookup finds a bundled preset by name, ignoring case.
func Lookup(name string) (Preset, bool) {
	all, err := All()
	if err != nil {
		return Preset{}, false
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// ParseSatellites splits a comma separated list into upper-case IDs,
// dropping blanks and duplicates while keeping order.
func ParseSatellites(s string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		id := strings.ToUpper(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
