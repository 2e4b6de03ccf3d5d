package precommit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the subset of a .pre-commit-config.yaml file this tool reads.
type Config struct {
	Exclude  string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	FailFast bool   `yaml:"fail_fast,omitempty" json:"fail_fast,omitempty"`
	Repos    []Repo `yaml:"repos" json:"repos"`
}

// Repo is one entry of the repos list.
type Repo struct {
	Repo  string `yaml:"repo" json:"repo"`
	Rev   string `yaml:"rev,omitempty" json:"rev,omitempty"`
	Hooks []Hook `yaml:"hooks" json:"hooks"`
}

// Hook is one hook of a repo entry.
type Hook struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Exclude string   `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// ParseConfig decodes a pre-commit config document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pre-commit config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig reads and decodes the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// HookIDs lists hook ids in file order.
func (c *Config) HookIDs() []string {
	var ids []string
	for _, repo := range c.Repos {
		for _, hook := range repo.Hooks {
			ids = append(ids, hook.ID)
		}
	}
	return ids
}
