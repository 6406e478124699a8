package topology

import (
	"sort"
	"strconv"
	"strings"

	"k8s.io/utils/cpuset"
)

// Parse builds a Platform from parsable lscpu output. Lines starting with
// "#" are comments; data lines are comma separated with the logical CPU id,
// core id and socket id in the first three columns, further columns are
// ignored. Lines with missing or non-integer ids are skipped so a partially
// readable source still yields a usable topology. CPUs whose id is in
// isolated are marked as such.
func Parse(output string, isolated cpuset.CPUSet) *Platform {
	platform := &Platform{sockets: make(map[int]*Socket)}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			continue
		}
		cpuID, err0 := strconv.Atoi(fields[0])
		coreID, err1 := strconv.Atoi(fields[1])
		socketID, err2 := strconv.Atoi(fields[2])
		if err0 != nil || err1 != nil || err2 != nil {
			continue
		}
		if cpuID < 0 || coreID < 0 || socketID < 0 {
			continue
		}

		socket := platform.sockets[socketID]
		if socket == nil {
			socket = &Socket{ID: socketID, cores: make(map[int]*Core)}
			platform.sockets[socketID] = socket
			platform.socketIDs = append(platform.socketIDs, socketID)
		}
		core := socket.cores[coreID]
		if core == nil {
			core = &Core{ID: coreID}
			socket.cores[coreID] = core
			socket.coreIDs = append(socket.coreIDs, coreID)
		}
		core.cpus = append(core.cpus, CPU{
			ID:       cpuID,
			Isolated: isolated.Contains(cpuID),
		})
	}

	platform.finalize()
	return platform
}

// finalize sorts core ids within each socket and CPUs within each core
// ascending. Socket order stays as first observed in the source.
func (p *Platform) finalize() {
	for _, socket := range p.sockets {
		sort.Ints(socket.coreIDs)
		for _, core := range socket.cores {
			cpus := core.cpus
			sort.Slice(cpus, func(i, j int) bool { return cpus[i].ID < cpus[j].ID })
		}
	}
}
