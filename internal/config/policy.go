package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dom/catalog-facade/internal/domain"
)

// EntityPolicy configures how one entity kind is fetched.
type EntityPolicy struct {
	Kind domain.Kind `json:"kind"`
	// Path is the remote collection path, e.g. "/champions".
	Path string `json:"path"`
	// FallbackOnNotFound consults the snapshot when the remote answers not-found
	// for id or search queries instead of treating the answer as final.
	FallbackOnNotFound bool `json:"fallbackOnNotFound"`
	DefaultLimit       int  `json:"defaultLimit"`
}

func DefaultPolicies() map[domain.Kind]EntityPolicy {
	return map[domain.Kind]EntityPolicy{
		domain.KindCharacter: {Kind: domain.KindCharacter, Path: "/champions", FallbackOnNotFound: true, DefaultLimit: 20},
		domain.KindNews:      {Kind: domain.KindNews, Path: "/news", FallbackOnNotFound: false, DefaultLimit: 10},
		domain.KindComponent: {Kind: domain.KindComponent, Path: "/components", FallbackOnNotFound: true, DefaultLimit: 20},
		domain.KindComment:   {Kind: domain.KindComment, Path: "/comments", FallbackOnNotFound: false, DefaultLimit: 20},
	}
}

type policyFile struct {
	Entities map[string]policyOverride `yaml:"entities"`
}

type policyOverride struct {
	Path               *string `yaml:"path"`
	FallbackOnNotFound *bool   `yaml:"fallbackOnNotFound"`
	DefaultLimit       *int    `yaml:"defaultLimit"`
}

// ApplyPolicyFile overlays the policies in a YAML file onto c.Entities.
func (c *Config) ApplyPolicyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog config: %w", err)
	}
	return c.ApplyPolicies(data)
}

func (c *Config) ApplyPolicies(data []byte) error {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog config: %w", err)
	}

	if c.Entities == nil {
		c.Entities = DefaultPolicies()
	}
	for name, override := range file.Entities {
		kind, err := domain.ParseKind(name)
		if err != nil {
			return fmt.Errorf("catalog config: %w", err)
		}
		policy := c.Entities[kind]
		policy.Kind = kind
		if override.Path != nil {
			policy.Path = *override.Path
		}
		if override.FallbackOnNotFound != nil {
			policy.FallbackOnNotFound = *override.FallbackOnNotFound
		}
		if override.DefaultLimit != nil {
			if *override.DefaultLimit < 1 {
				return fmt.Errorf("catalog config: %s defaultLimit must be positive", kind)
			}
			policy.DefaultLimit = *override.DefaultLimit
		}
		if policy.Path == "" {
			return fmt.Errorf("catalog config: %s path must not be empty", kind)
		}
		c.Entities[kind] = policy
	}
	return nil
}
