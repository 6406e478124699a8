package topology

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// DefaultProcFSRoot is the procfs mount point used when Config does not
// override it.
const DefaultProcFSRoot = "/proc"

// Config selects the topology sources consumed by Discover.
type Config struct {
	// ProcFSRoot is the procfs mount point; kernel boot parameters are
	// read from <ProcFSRoot>/cmdline. Empty means DefaultProcFSRoot.
	ProcFSRoot string
	// LSCPUSysFS makes lscpu read a dumped sysfs tree (lscpu -s) instead
	// of the running host. Empty means the running host.
	LSCPUSysFS string
}

// Discover reads the kernel boot parameters and the lscpu topology of the
// host and builds a Platform snapshot. Failures to read either source are
// returned to the caller with the underlying error; no partial platform is
// built.
func Discover(cfg Config) (*Platform, error) {
	root := cfg.ProcFSRoot
	if root == "" {
		root = DefaultProcFSRoot
	}
	cmdlinePath := filepath.Join(root, "cmdline")
	cmdline, err := os.ReadFile(cmdlinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel boot parameters from %s: %w", cmdlinePath, err)
	}

	isolated := ParseIsolatedCPUs(string(cmdline))
	if !isolated.IsEmpty() {
		klog.InfoS("Isolated logical CPUs", "cpus", isolated.String())
	}

	output, err := lscpu(cfg.LSCPUSysFS)
	if err != nil {
		return nil, err
	}
	return Parse(string(output), isolated), nil
}

func lscpu(sysFSPath string) ([]byte, error) {
	args := []string{"-p"}
	if sysFSPath != "" {
		args = append(args, "-s", sysFSPath)
	}
	output, err := exec.Command("lscpu", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run lscpu %s: %w", strings.Join(args, " "), err)
	}
	return output, nil
}
