package pools

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/corepool/corepool/pkg/topology"
)

// AllRemainingCores makes a pool take every matching core left unassigned.
const AllRemainingCores = -1

// Pool describes one named group of cores to reserve on a node.
type Pool struct {
	Name     string                  `yaml:"name"`
	Cores    int                     `yaml:"cores"`
	Mode     topology.AllocationMode `yaml:"mode,omitempty"`
	Isolated bool                    `yaml:"isolated,omitempty"`
}

// Config is the pool layout for a node. Pools are assigned in the order
// they are listed.
type Config struct {
	Pools []Pool `yaml:"pools"`
}

// LoadConfig reads and validates a YAML pool configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool config %s: %w", path, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse pool config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks pool names are unique and non-empty, core counts are
// positive or AllRemainingCores, and allocation modes are known.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Pools))
	for i, pool := range c.Pools {
		if pool.Name == "" {
			return fmt.Errorf("pool at index %d has no name", i)
		}
		if _, ok := seen[pool.Name]; ok {
			return fmt.Errorf("duplicate pool name %q", pool.Name)
		}
		seen[pool.Name] = struct{}{}
		if pool.Cores == 0 || pool.Cores < AllRemainingCores {
			return fmt.Errorf("pool %q: core count must be positive or %d, got %d", pool.Name, AllRemainingCores, pool.Cores)
		}
		switch pool.Mode {
		case "", topology.Packed, topology.Spread:
		default:
			return fmt.Errorf("pool %q: unknown allocation mode %q", pool.Name, pool.Mode)
		}
	}
	return nil
}
