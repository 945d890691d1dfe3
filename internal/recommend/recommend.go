// Package recommend serves the hand-authored product roadmap shown next to
// the dataset analytics. The phases are static data, not computed.
package recommend

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"velar-backend/internal/models"
)

//go:embed phases.yaml
var builtin []byte

// Catalog is an immutable list of roadmap phases.
type Catalog struct {
	phases []models.Phase
}

// Default returns the built-in roadmap.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("recommend: built-in phases: %v", err))
	}
	return c
}

// Load reads a YAML roadmap from path. An empty path yields Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recommendations: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML sequence of {phase, features} entries.
func Parse(b []byte) (*Catalog, error) {
	var phases []models.Phase
	if err := yaml.Unmarshal(b, &phases); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(phases) == 0 {
		return nil, errors.New("no phases defined")
	}
	for i, p := range phases {
		if strings.TrimSpace(p.Phase) == "" {
			return nil, fmt.Errorf("phase %d: missing label", i+1)
		}
		if phases[i].Features == nil {
			phases[i].Features = []string{}
		}
	}
	return &Catalog{phases: phases}, nil
}

// Phases returns a deep copy of the roadmap in authored order.
func (c *Catalog) Phases() []models.Phase {
	out := make([]models.Phase, len(c.phases))
	for i, p := range c.phases {
		out[i] = models.Phase{
			Phase:    p.Phase,
			Features: append([]string{}, p.Features...),
		}
	}
	return out
}
