package pools

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/corepool/corepool/pkg/topology"
)

// Manager labels platform cores with pool names. It serializes its own
// mutations so a reload never interleaves with an assignment in progress.
type Manager struct {
	logger logr.Logger
	mu     sync.Mutex
}

// NewManager creates a Manager logging through the given logger.
func NewManager(logger logr.Logger) *Manager {
	return &Manager{logger: logger}
}

// Assign walks the configured pools in order and labels unassigned cores
// with each pool's name, drawing cores through the platform's allocation
// order for the pool's mode. Isolated pools draw from the isolated cores
// only. It fails when a pool asks for more cores than remain; cores already
// labeled by earlier pools are never relabeled.
func (m *Manager) Assign(platform *topology.Platform, config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assign(platform, config)
}

// Reassign clears all pool labels and applies the given configuration. On
// failure the previous labels are restored.
func (m *Manager) Reassign(platform *topology.Platform, config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := make(map[*topology.Core]string)
	for _, socket := range platform.Sockets() {
		for _, core := range socket.Cores() {
			previous[core] = core.Pool
			core.Pool = ""
		}
	}
	if err := m.assign(platform, config); err != nil {
		for core, pool := range previous {
			core.Pool = pool
		}
		return err
	}
	return nil
}

func (m *Manager) assign(platform *topology.Platform, config *Config) error {
	for _, pool := range config.Pools {
		mode := pool.Mode
		if mode == "" {
			mode = topology.Packed
		}
		var candidates []*topology.Core
		if pool.Isolated {
			candidates = platform.IsolatedCores(mode)
		} else {
			candidates = platform.Cores(mode)
		}

		assigned := 0
		for _, core := range candidates {
			if core.Pool != "" {
				continue
			}
			core.Pool = pool.Name
			assigned++
			if pool.Cores != AllRemainingCores && assigned == pool.Cores {
				break
			}
		}
		if pool.Cores != AllRemainingCores && assigned < pool.Cores {
			return fmt.Errorf("pool %q: requested %d cores, only %d available", pool.Name, pool.Cores, assigned)
		}
		m.logger.Info("Assigned cores to pool", "pool", pool.Name, "cores", assigned, "mode", mode, "isolated", pool.Isolated)
	}
	return nil
}

// Pools reports the pool labels present on the platform and the logical
// CPU ids behind each. It takes the manager lock so readers observe fully
// applied assignments only.
func (m *Manager) Pools(platform *topology.Platform) map[string][]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pools := make(map[string][]int)
	for _, socket := range platform.Sockets() {
		for _, core := range socket.Cores() {
			if core.Pool == "" {
				continue
			}
			pools[core.Pool] = append(pools[core.Pool], core.CPUIDs()...)
		}
	}
	return pools
}
