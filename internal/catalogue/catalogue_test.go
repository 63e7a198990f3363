package catalogue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdataPath(t *testing.T) string {
	t.Helper()
	return filepath.Join("..", "..", "testdata", "stations.geojson")
}

func TestLoadParsesAllFeatures(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("..", "..", "testdata", "does-not-exist.geojson"))
	assert.Error(t, err)
}

func TestGetKnownStation(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	s, ok := c.Get("46086")
	require.True(t, ok)
	assert.Equal(t, "San Clemente Basin", s.Name)
	assert.InDelta(t, 33.0, s.Lat, 1e-9)
	assert.InDelta(t, -117.5, s.Lon, 1e-9)
	assert.True(t, s.HasLiveData)
	assert.True(t, s.InGrid, "46086 sits inside wcoast.0p16")
}

func TestGetUnknownStation(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	_, ok := c.Get("99999")
	assert.False(t, ok)
}

func TestOutOfGridStationIsFlagged(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	s, ok := c.Get("51201")
	require.True(t, ok)
	assert.False(t, s.InGrid, "51201 is in the mid-Pacific, outside all three regional grids")
}

func TestNearest(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	s, ok := c.Nearest(42.9, -70.2)
	require.True(t, ok)
	assert.Equal(t, "44098", s.ID)
}

func TestAllIsStableOrder(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestAsGeoJSONRoundTrips(t *testing.T) {
	c, err := Load(testdataPath(t))
	require.NoError(t, err)

	fc := c.AsGeoJSON()
	assert.Len(t, fc.Features, 4)
}
