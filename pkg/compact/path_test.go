package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathTableLookup(t *testing.T) {
	table, err := NewPathTable([]string{"Vehicle.Speed", "Vehicle.Cabin.Door.Row1.Left.IsOpen"})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	p, err := table.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "Vehicle.Cabin.Door.Row1.Left.IsOpen", p)

	_, err = table.Lookup(2)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestPathTableIndex(t *testing.T) {
	table, err := NewPathTable([]string{"Vehicle.Speed", "Vehicle.Body.Lights.IsHighBeamOn"})
	require.NoError(t, err)

	tests := []struct {
		path  string
		index uint16
		found bool
	}{
		{"Vehicle.Speed", 0, true},
		{"Vehicle/Body/Lights/IsHighBeamOn", 1, true},
		{"/Vehicle/Speed/", 0, true},
		{"Vehicle.Acceleration", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			index, found := table.Index(tt.path)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.index, index)
			}
		})
	}
}

func TestNilPathTable(t *testing.T) {
	var table *PathTable
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Paths())

	_, found := table.Index("Vehicle.Speed")
	assert.False(t, found)

	_, err := table.Lookup(0)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestNewPathTableErrors(t *testing.T) {
	_, err := NewPathTable([]string{"A.B", ""})
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = NewPathTable([]string{"A.B", "A.C", "A.B"})
	assert.ErrorIs(t, err, ErrDuplicatePath)

	_, err = NewPathTable(make([]string, MaxPaths+1))
	assert.ErrorIs(t, err, ErrTooManyPaths)
}

func TestPathIndexBytes(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02}, appendPathIndex(nil, 0x0102))

	index, err := readPathIndex([]byte{0xFF, 0xFE, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFE), index)

	_, err = readPathIndex([]byte{0x01})
	assert.ErrorIs(t, err, ErrTruncatedMessage)
}

func TestPathsIsCopy(t *testing.T) {
	table, err := NewPathTable([]string{"A.B"})
	require.NoError(t, err)

	paths := table.Paths()
	paths[0] = "changed"
	p, _ := table.Lookup(0)
	assert.Equal(t, "A.B", p)
}
