package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/corepool/corepool/pkg/pools"
	"github.com/corepool/corepool/pkg/topology"
)

func main() {
	var procFSRoot *string = flag.String("procfs", topology.DefaultProcFSRoot, "Path to the procfs mount")
	var lscpuSysFS *string = flag.String("lscpu-sysfs", os.Getenv("CMK_DEV_LSCPU_SYSFS"), "Read the CPU topology from a dumped sysfs tree instead of the running host")
	var poolsConfig *string = flag.String("pools-config", "", "Path to a YAML pool configuration to apply before printing")
	var includePool *bool = flag.Bool("include-pool", true, "Include pool labels in the output")
	flag.Parse()

	logger := klog.NewKlogr()

	platform, err := topology.Discover(topology.Config{
		ProcFSRoot: *procFSRoot,
		LSCPUSysFS: *lscpuSysFS,
	})
	if err != nil {
		logger.Error(err, "Failed to discover CPU topology")
		os.Exit(1)
	}

	if *poolsConfig != "" {
		config, err := pools.LoadConfig(*poolsConfig)
		if err != nil {
			logger.Error(err, "Failed to load pool configuration")
			os.Exit(1)
		}
		manager := pools.NewManager(logger)
		if err := manager.Assign(platform, config); err != nil {
			logger.Error(err, "Failed to assign pools")
			os.Exit(1)
		}
	}

	for _, socket := range platform.Sockets() {
		doc, err := socket.JSON(*includePool)
		if err != nil {
			logger.Error(err, "Failed to serialize socket", "socket", socket.ID)
			os.Exit(1)
		}
		fmt.Println(doc)
	}
}
