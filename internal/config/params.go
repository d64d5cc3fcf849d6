package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sajidalishaik45/coauthor-network/internal/force"
)

// LoadForceParams reads force coefficients from a YAML file. Fields absent
// from the file keep the values in base. The result is clamped.
//
//	charge_strength: -30
//	link_strength: 1
//	link_distance: 50
//	collide_radius: 20
func LoadForceParams(path string, base force.Params) (force.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading %s: %w", path, err)
	}

	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p.Clamp(), nil
}

// ResolveForceParams returns the env-derived parameters, overlaid with the
// YAML file when one is configured.
func (c *Config) ResolveForceParams() (force.Params, error) {
	if c.ForceParamsFile == "" {
		return c.Force.Clamp(), nil
	}
	return LoadForceParams(c.ForceParamsFile, c.Force)
}
