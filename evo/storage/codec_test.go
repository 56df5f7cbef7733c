package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCodecRejectsOtherVersions(t *testing.T) {
	data, err := EncodeSummary(testSummary("run", 3, 1.5))
	require.NoError(t, err)
	s, err := DecodeSummary(data)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Generation)

	_, err = DecodeSummary([]byte(`{"schema_version":2,"codec_version":1,"summary":{}}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestChampionCodecStampsVersion(t *testing.T) {
	c := testChampion("run")
	data, err := EncodeChampion(c)
	require.NoError(t, err)
	decoded, err := DecodeChampion(data)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion(), decoded.VersionedRecord)

	_, err = DecodeChampion([]byte(`{"run_id":"run"}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestCodecKeepsNonFiniteFitness(t *testing.T) {
	s := testSummary("run", 2, math.Inf(1))
	s.Ranked = []float64{math.Inf(1), math.NaN(), math.Inf(-1)}
	s.Mean = math.NaN()
	data, err := EncodeSummary(s)
	require.NoError(t, err)
	decoded, err := DecodeSummary(data)
	require.NoError(t, err)
	assert.True(t, math.IsInf(decoded.Best, 1))
	assert.True(t, math.IsNaN(decoded.Mean))
	require.Len(t, decoded.Ranked, 3)
	assert.True(t, math.IsNaN(decoded.Ranked[1]))
	assert.True(t, math.IsInf(decoded.Ranked[2], -1))

	c := testChampion("run")
	c.Fitness = math.NaN()
	data, err = EncodeChampion(c)
	require.NoError(t, err)
	champion, err := DecodeChampion(data)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(champion.Fitness))
	assert.Equal(t, c.Network, champion.Network)
	assert.Equal(t, "run", champion.RunID)
}
