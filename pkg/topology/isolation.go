package topology

import (
	"strings"

	"k8s.io/utils/cpuset"
)

// ParseIsolatedCPUs extracts the isolated logical CPU ids from kernel boot
// parameter text. The isolcpus and rcu_nocbs parameters each carry a comma
// separated list of CPU ids and inclusive A-B ranges; tokens that do not
// parse are skipped. The result is the rcu_nocbs set minus the isolcpus
// set, and is empty unless both parameters carry CPUs.
func ParseIsolatedCPUs(cmdline string) cpuset.CPUSet {
	isol := cpuset.New()
	nocbs := cpuset.New()

	for _, field := range strings.Fields(cmdline) {
		pair := strings.Split(field, "=")
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "isolcpus":
			isol = isol.Union(parseCPUList(pair[1]))
		case "rcu_nocbs":
			nocbs = nocbs.Union(parseCPUList(pair[1]))
		}
	}

	if isol.IsEmpty() || nocbs.IsEmpty() {
		return cpuset.New()
	}
	return nocbs.Difference(isol)
}

// parseCPUList expands a comma separated list of CPU ids and A-B ranges
// token by token, dropping anything that does not parse (such as the
// isolcpus "domain" and "managed_irq" flags).
func parseCPUList(value string) cpuset.CPUSet {
	cpus := cpuset.New()
	for _, token := range strings.Split(value, ",") {
		set, err := cpuset.Parse(token)
		if err != nil {
			continue
		}
		cpus = cpus.Union(set)
	}
	return cpus
}
