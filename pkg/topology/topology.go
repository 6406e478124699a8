package topology

import (
	"k8s.io/utils/cpuset"
)

// CPU represents a single logical CPU (hardware thread) exposed by the OS.
type CPU struct {
	ID       int  // ID is the kernel-assigned logical CPU id.
	Isolated bool // Isolated is true when the CPU is excluded from the scheduler via boot parameters.
}

// Core represents a physical core and the logical CPUs it hosts.
//
// Pool is a label attached by an external pool manager; the topology code
// only reads it. It is empty until assigned.
type Core struct {
	ID   int
	Pool string
	cpus []CPU // ascending by CPU id once the platform is built
}

// CPUs returns the core's logical CPUs in ascending id order.
func (c *Core) CPUs() []CPU {
	cpus := make([]CPU, len(c.cpus))
	copy(cpus, c.cpus)
	return cpus
}

// CPUIDs returns the ids of the core's logical CPUs in ascending order.
func (c *Core) CPUIDs() []int {
	ids := make([]int, 0, len(c.cpus))
	for _, cpu := range c.cpus {
		ids = append(ids, cpu.ID)
	}
	return ids
}

// CPUSet returns the core's logical CPUs as a CPUSet.
func (c *Core) CPUSet() cpuset.CPUSet {
	return cpuset.New(c.CPUIDs()...)
}

// IsIsolated reports whether every logical CPU of the core is isolated.
// A core with no CPUs is never isolated.
func (c *Core) IsIsolated() bool {
	if len(c.cpus) == 0 {
		return false
	}
	for _, cpu := range c.cpus {
		if !cpu.Isolated {
			return false
		}
	}
	return true
}

// Socket represents a physical CPU package and the cores it hosts.
type Socket struct {
	ID      int
	cores   map[int]*Core
	coreIDs []int // ascending once the platform is built
}

// Core returns the core with the given id, or nil if the socket has none.
func (s *Socket) Core(id int) *Core {
	return s.cores[id]
}

// Cores returns all cores of the socket in ascending core id order.
func (s *Socket) Cores() []*Core {
	cores := make([]*Core, 0, len(s.coreIDs))
	for _, id := range s.coreIDs {
		cores = append(cores, s.cores[id])
	}
	return cores
}

// IsolatedCores returns the socket's isolated cores in ascending id order.
func (s *Socket) IsolatedCores() []*Core {
	var cores []*Core
	for _, id := range s.coreIDs {
		if core := s.cores[id]; core.IsIsolated() {
			cores = append(cores, core)
		}
	}
	return cores
}

// SharedCores returns the socket's non-isolated cores in ascending id order.
func (s *Socket) SharedCores() []*Core {
	var cores []*Core
	for _, id := range s.coreIDs {
		if core := s.cores[id]; !core.IsIsolated() {
			cores = append(cores, core)
		}
	}
	return cores
}

// CoresInPool returns the socket's cores labeled with the given pool, in
// ascending id order.
func (s *Socket) CoresInPool(pool string) []*Core {
	var cores []*Core
	for _, id := range s.coreIDs {
		if core := s.cores[id]; core.Pool == pool {
			cores = append(cores, core)
		}
	}
	return cores
}

// HasIsolatedCores reports whether any core of the socket is isolated.
func (s *Socket) HasIsolatedCores() bool {
	for _, core := range s.cores {
		if core.IsIsolated() {
			return true
		}
	}
	return false
}

// Platform is the discovered socket/core/CPU hierarchy of a host. It is a
// read-mostly snapshot: a new Platform is built on every discovery, and the
// only field mutated afterwards is Core.Pool.
type Platform struct {
	sockets   map[int]*Socket
	socketIDs []int // order sockets were first observed while parsing
}

// Socket returns the socket with the given id, or nil if the platform has
// no such socket.
func (p *Platform) Socket(id int) *Socket {
	return p.sockets[id]
}

// Sockets returns all sockets in platform iteration order, which is the
// order the sockets were first observed in the topology source.
func (p *Platform) Sockets() []*Socket {
	sockets := make([]*Socket, 0, len(p.socketIDs))
	for _, id := range p.socketIDs {
		sockets = append(sockets, p.sockets[id])
	}
	return sockets
}

// SocketIDs returns the socket ids in platform iteration order.
func (p *Platform) SocketIDs() []int {
	ids := make([]int, len(p.socketIDs))
	copy(ids, p.socketIDs)
	return ids
}

// HasIsolatedCores reports whether any socket has an isolated core.
func (p *Platform) HasIsolatedCores() bool {
	for _, socket := range p.sockets {
		if socket.HasIsolatedCores() {
			return true
		}
	}
	return false
}
