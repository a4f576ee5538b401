package convert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funlink/internal/types"
)

// Config represents a conversion rules file.
type Config struct {
	// Defaults controls whether the standard scalar rules (numeric widening,
	// rendering to String) are installed before the configured ones.
	// Defaults to true; set `defaults: false` to start from a bare policy.
	Defaults *bool `yaml:"defaults,omitempty"`

	// Conversions lists the scalar conversion rules.
	Conversions []Rule `yaml:"conversions"`
}

// Rule declares that values of static type From may be converted to To,
// using the named converter Via.
type Rule struct {
	// From is the source type descriptor (e.g. "Int", "[String]").
	From string `yaml:"from"`

	// To is the required type descriptor.
	To string `yaml:"to"`

	// Via names a registered converter function (e.g. "intToFloat").
	Via string `yaml:"via"`
}

// LoadPolicy reads a rules file and builds the configured policy.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}
	return ParsePolicy(data, path)
}

// ParsePolicy parses rules file content from bytes. The path argument is used
// only for error messages.
func ParsePolicy(data []byte, path string) (*Policy, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg.Build(path)
}

// Build validates the configuration and constructs the policy.
func (c *Config) Build(path string) (*Policy, error) {
	p := NewPolicy()
	if c.Defaults == nil || *c.Defaults {
		p = DefaultPolicy()
	}
	for i, rule := range c.Conversions {
		if rule.From == "" {
			return nil, fmt.Errorf("%s: conversions[%d]: from is required", path, i)
		}
		if rule.To == "" {
			return nil, fmt.Errorf("%s: conversions[%d]: to is required", path, i)
		}
		if rule.Via == "" {
			return nil, fmt.Errorf("%s: conversions[%d] (%s -> %s): via is required", path, i, rule.From, rule.To)
		}
		from, err := types.ParseType(rule.From)
		if err != nil {
			return nil, fmt.Errorf("%s: conversions[%d]: %w", path, i, err)
		}
		to, err := types.ParseType(rule.To)
		if err != nil {
			return nil, fmt.Errorf("%s: conversions[%d]: %w", path, i, err)
		}
		fn, ok := builtinConverters[rule.Via]
		if !ok {
			return nil, fmt.Errorf("%s: conversions[%d] (%s -> %s): unknown converter %q", path, i, rule.From, rule.To, rule.Via)
		}
		p.AddRule(from, to, fn)
	}
	return p, nil
}
