package pools

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/cpuset"

	"github.com/corepool/corepool/pkg/topology"
)

// Two sockets with two cores each; CPUs 4-7 (cores 2 and 3 on socket 1)
// are isolated.
func testPlatform(t *testing.T) *topology.Platform {
	t.Helper()
	source := "0,0,0,0\n1,0,0,0\n2,1,0,0\n3,1,0,0\n4,2,1,0\n5,2,1,0\n6,3,1,0\n7,3,1,0"
	return topology.Parse(source, cpuset.New(4, 5, 6, 7))
}

func poolNames(platform *topology.Platform) map[string][]int {
	names := make(map[string][]int)
	for _, socket := range platform.Sockets() {
		for _, core := range socket.Cores() {
			names[core.Pool] = append(names[core.Pool], core.ID)
		}
	}
	return names
}

func TestManagerAssign(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config := &Config{Pools: []Pool{
		{Name: "exclusive", Cores: 2, Isolated: true},
		{Name: "infra", Cores: 1},
		{Name: "shared", Cores: AllRemainingCores},
	}}
	require.NoError(t, manager.Assign(platform, config))

	names := poolNames(platform)
	assert.ElementsMatch(t, []int{2, 3}, names["exclusive"])
	assert.Equal(t, []int{0}, names["infra"])
	assert.Equal(t, []int{1}, names["shared"])

	pools := manager.Pools(platform)
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, pools["exclusive"])
	assert.ElementsMatch(t, []int{0, 1}, pools["infra"])
	assert.ElementsMatch(t, []int{2, 3}, pools["shared"])
}

func TestManagerAssignSpreadMode(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config := &Config{Pools: []Pool{{Name: "spread", Cores: 2, Mode: topology.Spread}}}
	require.NoError(t, manager.Assign(platform, config))

	// Spread draws one core per socket before revisiting.
	assert.Equal(t, "spread", platform.Socket(0).Core(0).Pool)
	assert.Equal(t, "spread", platform.Socket(1).Core(2).Pool)
	assert.Empty(t, platform.Socket(0).Core(1).Pool)
}

func TestManagerAssignExhaustion(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config := &Config{Pools: []Pool{{Name: "huge", Cores: 5}}}
	err := manager.Assign(platform, config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only 4 available")
}

func TestManagerAssignIsolatedOnly(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config := &Config{Pools: []Pool{{Name: "exclusive", Cores: 3, Isolated: true}}}
	err := manager.Assign(platform, config)
	require.Error(t, err, "only two isolated cores exist")

	// Shared cores must not have been drafted into the isolated pool.
	for _, core := range platform.SharedCores() {
		assert.NotEqual(t, "exclusive", core.Pool)
	}
}

func TestManagerReassign(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	require.NoError(t, manager.Assign(platform, &Config{Pools: []Pool{
		{Name: "old", Cores: AllRemainingCores},
	}}))
	require.Len(t, platform.CoresInPool("old"), 4)

	require.NoError(t, manager.Reassign(platform, &Config{Pools: []Pool{
		{Name: "new", Cores: 2},
	}}))
	assert.Empty(t, platform.CoresInPool("old"))
	assert.Len(t, platform.CoresInPool("new"), 2)
}

func TestManagerReassignRestoresOnFailure(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	require.NoError(t, manager.Assign(platform, &Config{Pools: []Pool{
		{Name: "keep", Cores: 2},
	}}))

	err := manager.Reassign(platform, &Config{Pools: []Pool{
		{Name: "huge", Cores: 9},
	}})
	require.Error(t, err)
	assert.Len(t, platform.CoresInPool("keep"), 2)
	assert.Empty(t, platform.CoresInPool("huge"))
}
