package topology

import (
	"k8s.io/klog/v2"
)

// AllocationMode selects the order in which cores are handed out across
// sockets.
type AllocationMode string

const (
	// Packed exhausts one socket's cores before moving to the next,
	// favoring cache and NUMA locality.
	Packed AllocationMode = "packed"
	// Spread takes one core per socket in round-robin fashion, favoring
	// even load across sockets.
	Spread AllocationMode = "spread"
)

// Cores returns every core of the platform ordered by the given allocation
// mode. An unknown mode falls back to Packed.
func (p *Platform) Cores(mode AllocationMode) []*Core {
	return p.coresGeneral(mode, false)
}

// IsolatedCores returns the platform's isolated cores ordered by the given
// allocation mode. An unknown mode falls back to Packed.
func (p *Platform) IsolatedCores(mode AllocationMode) []*Core {
	return p.coresGeneral(mode, true)
}

func (p *Platform) coresGeneral(mode AllocationMode, isolated bool) []*Core {
	switch mode {
	case Packed, Spread:
	default:
		klog.Warningf("Unknown allocation mode %q, falling back to %q", mode, Packed)
		mode = Packed
	}
	if mode == Spread {
		return p.allocateSpread(isolated)
	}
	return p.allocatePacked(isolated)
}

func (p *Platform) allocatePacked(isolated bool) []*Core {
	var cores []*Core
	for _, socket := range p.Sockets() {
		if isolated {
			cores = append(cores, socket.IsolatedCores()...)
		} else {
			cores = append(cores, socket.Cores()...)
		}
	}
	return cores
}

// allocateSpread visits each socket once per round, taking the head of its
// remaining core list. A socket is dropped from the rotation when its list
// runs out, so no socket is visited twice before every socket that still
// has cores has been visited once.
func (p *Platform) allocateSpread(isolated bool) []*Core {
	remaining := make(map[int][]*Core, len(p.sockets))
	order := p.SocketIDs()
	for _, id := range order {
		socket := p.sockets[id]
		if isolated {
			remaining[id] = socket.IsolatedCores()
		} else {
			remaining[id] = socket.Cores()
		}
	}

	var cores []*Core
	for len(remaining) > 0 {
		round := make([]int, 0, len(order))
		for _, id := range order {
			if _, ok := remaining[id]; ok {
				round = append(round, id)
			}
		}
		order = round
		for _, id := range round {
			queue := remaining[id]
			if len(queue) == 0 {
				delete(remaining, id)
				continue
			}
			cores = append(cores, queue[0])
			remaining[id] = queue[1:]
		}
	}
	return cores
}

// SharedCores returns all non-isolated cores across the platform, in
// platform socket order and ascending core id order within each socket.
func (p *Platform) SharedCores() []*Core {
	var cores []*Core
	for _, socket := range p.Sockets() {
		cores = append(cores, socket.SharedCores()...)
	}
	return cores
}

// CoresInPool returns all cores labeled with the given pool, in platform
// socket order and ascending core id order within each socket.
func (p *Platform) CoresInPool(pool string) []*Core {
	var cores []*Core
	for _, socket := range p.Sockets() {
		cores = append(cores, socket.CoresInPool(pool)...)
	}
	return cores
}
