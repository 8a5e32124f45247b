package partitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPartitions_Block(t *testing.T) {
	pb := PartitionBuilder{NumElements: 10, TargetPartitionSize: 4, Strategy: BlockPartition}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	assert.Equal(t, 3, layout.NumPartitions)
	assert.Equal(t, 10, layout.TotalElements)
	assert.Equal(t, 4, layout.KpartMax)
	assert.Equal(t, []int{0, 1, 2, 3}, layout.Partitions[0].Elements)
	assert.Equal(t, []int{4, 5, 6, 7}, layout.Partitions[1].Elements)
	assert.Equal(t, []int{8, 9}, layout.Partitions[2].Elements)

	for k := 0; k < 10; k++ {
		if got := layout.GetPartition(k); got != k/4 {
			t.Errorf("element %d: expected partition %d, got %d", k, k/4, got)
		}
	}
	assert.Equal(t, -1, layout.GetPartition(10))
	assert.Equal(t, -1, layout.GetPartition(-1))
}

func TestBuildPartitions_RoundRobin(t *testing.T) {
	pb := PartitionBuilder{NumElements: 7, TargetPartitionSize: 3, Strategy: RoundRobin}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	assert.Equal(t, 3, layout.NumPartitions)
	assert.Equal(t, []int{0, 3, 6}, layout.Partitions[0].Elements)
	assert.Equal(t, []int{1, 4}, layout.Partitions[1].Elements)
	assert.Equal(t, []int{2, 5}, layout.Partitions[2].Elements)
	assert.Equal(t, 3, layout.KpartMax)
}

func TestBuildPartitions_EveryElementOnce(t *testing.T) {
	for _, strategy := range []PartitionStrategy{BlockPartition, RoundRobin} {
		for n := 0; n <= 33; n++ {
			for size := 1; size <= 9; size++ {
				pb := PartitionBuilder{NumElements: n, TargetPartitionSize: size, Strategy: strategy}
				layout, err := pb.BuildPartitions()
				require.NoError(t, err, "%s n=%d size=%d", strategy, n, size)

				count := make([]int, n)
				for _, p := range layout.Partitions {
					for _, k := range p.Elements {
						count[k]++
					}
				}
				for k, c := range count {
					if c != 1 {
						t.Fatalf("%s n=%d size=%d: element %d assigned %d times", strategy, n, size, k, c)
					}
				}
			}
		}
	}
}

func TestBuildPartitions_Empty(t *testing.T) {
	pb := PartitionBuilder{NumElements: 0, TargetPartitionSize: 5}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)
	assert.Equal(t, 1, layout.NumPartitions)
	assert.Equal(t, 0, layout.KpartMax)
	assert.Empty(t, layout.Partitions[0].Elements)

	stats := layout.PartitionStatistics()
	assert.Equal(t, 0, stats.MinElements)
	assert.Equal(t, 0.0, stats.Imbalance)
}

func TestBuildPartitions_InvalidInput(t *testing.T) {
	_, err := (&PartitionBuilder{NumElements: 5, TargetPartitionSize: 0}).BuildPartitions()
	assert.Error(t, err)
	_, err = (&PartitionBuilder{NumElements: -1, TargetPartitionSize: 2}).BuildPartitions()
	assert.Error(t, err)
}

func TestPartitionStatistics(t *testing.T) {
	pb := PartitionBuilder{NumElements: 10, TargetPartitionSize: 4}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)

	stats := layout.PartitionStatistics()
	assert.Equal(t, 3, stats.NumPartitions)
	assert.Equal(t, 2, stats.MinElements)
	assert.Equal(t, 4, stats.MaxElements)
	assert.InDelta(t, 10.0/3, stats.AvgElements, 1e-12)
	assert.InDelta(t, 1.2, stats.Imbalance, 1e-12)
}

func TestValidateLayout_DetectsCorruption(t *testing.T) {
	pb := PartitionBuilder{NumElements: 6, TargetPartitionSize: 3}
	layout, err := pb.BuildPartitions()
	require.NoError(t, err)
	require.NoError(t, layout.ValidateLayout())

	layout.EToP[0] = 1
	assert.Error(t, layout.ValidateLayout())
	layout.EToP[0] = 0

	layout.Partitions[1].Elements[0] = 0
	assert.Error(t, layout.ValidateLayout())
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]PartitionStrategy{
		"":            BlockPartition,
		"block":       BlockPartition,
		"Round-Robin": RoundRobin,
		"roundrobin":  RoundRobin,
	}
	for in, want := range tests {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStrategy("metis")
	assert.Error(t, err)
	assert.Equal(t, "round-robin", RoundRobin.String())
}
