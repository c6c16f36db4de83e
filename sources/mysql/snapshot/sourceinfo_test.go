package snapshot

import (
	"testing"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSourceInfo_Offset_NoCoordinate(t *testing.T) {
	info := NewSourceInfo()
	offset := info.Offset()
	assert.Equal(t, "", offset["file"])
	assert.Equal(t, uint32(0), offset["pos"])
	assert.NotContains(t, offset, "gtids")
	assert.NotContains(t, offset, "snapshot")
}

func TestSourceInfo_Offset_InProgress(t *testing.T) {
	info := NewSourceInfo()
	info.SetCoordinate(BinlogCoordinate{File: "binlog.000001", Position: 42})

	offset := info.Offset()
	assert.Equal(t, "binlog.000001", offset["file"])
	assert.Equal(t, uint32(42), offset["pos"])
	assert.Equal(t, true, offset["snapshot"])
}

func TestSourceInfo_Offset_WithGTIDSet(t *testing.T) {
	info := NewSourceInfo()
	set, err := mysql.ParseMysqlGTIDSet("3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5")
	assert.NoError(t, err)

	info.SetCoordinate(BinlogCoordinate{File: "binlog.000001", Position: 10, GTIDSet: set})
	offset := info.Offset()
	assert.Equal(t, set.String(), offset["gtids"])
}

func TestSourceInfo_Offset_LastAndComplete(t *testing.T) {
	info := NewSourceInfo()
	info.SetCoordinate(BinlogCoordinate{File: "binlog.000001", Position: 10})

	info.SetMarker(SnapshotLast)
	assert.Equal(t, "LAST", info.Offset()["snapshot"])

	info.SetMarker(SnapshotComplete)
	assert.NotContains(t, info.Offset(), "snapshot")
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get(uuid.New())
	assert.False(t, ok)

	runID, info := reg.Create()
	assert.NotNil(t, info)
	assert.NotEqual(t, uuid.Nil, runID)

	got, ok := reg.Get(runID)
	assert.True(t, ok)
	assert.Same(t, info, got)

	reg.Delete(runID)
	_, ok = reg.Get(runID)
	assert.False(t, ok)
}

func TestRegistry_CreateAssignsDistinctIDs(t *testing.T) {
	reg := NewRegistry()

	firstID, _ := reg.Create()
	secondID, _ := reg.Create()
	assert.NotEqual(t, firstID, secondID)
}
