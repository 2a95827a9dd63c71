package gate

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// policyFile is the on-disk policy shape:
//
//	version: "1"
//	rules:
//	  max_critical: 0
//	  max_high: 5
//
// Pointers distinguish "absent" from an explicit zero.
type policyFile struct {
	Version string `yaml:"version"`
	Rules   struct {
		MaxCritical *int `yaml:"max_critical,omitempty"`
		MaxHigh     *int `yaml:"max_high,omitempty"`
	} `yaml:"rules"`
}

// LoadPolicyFile reads a policy file, applying defaults for absent rules.
// A missing file returns (nil, nil) so callers can fall back to flags.
func LoadPolicyFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	p := DefaultPolicy()
	if pf.Rules.MaxCritical != nil {
		p.MaxCritical = *pf.Rules.MaxCritical
	}
	if pf.Rules.MaxHigh != nil {
		p.MaxHigh = *pf.Rules.MaxHigh
	}
	if p.MaxCritical < 0 || p.MaxHigh < 0 {
		return nil, fmt.Errorf("policy thresholds cannot be negative")
	}
	return &p, nil
}

// FindPolicyFile searches the working directory and its parents for a
// policy file, returning "" when none exists.
func FindPolicyFile() string {
	names := []string{".terragate-policy.yaml", ".terragate-policy.yml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
