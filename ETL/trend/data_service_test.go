package trend

import (
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrendPoints(t *testing.T) {
	binRows := []models.BinFrequencyRow{
		{
			BinKey:  "Sweden (0-999BP)",
			YCounts: map[string]int{"I": 1, "R": 3},
			YTotal:  4,
		},
		{
			BinKey:  "Sweden (1000-1999BP)",
			YCounts: map[string]int{"I": 2, "R": 2},
			YTotal:  4,
		},
		{
			BinKey:  "Sweden (2000-2999BP)",
			YCounts: map[string]int{"I": 3, "R": 1},
			YTotal:  4,
		},
	}
	schema := models.BasalSchema{YLetters: []string{"I", "R"}}

	trends := BuildTrendPoints(binRows, schema)

	// По одному тренду на букву отцовской линии
	require.Len(t, trends, 2)

	// Доля I растет с возрастом, доля R падает
	assert.Equal(t, "Sweden", trends[0].Region)
	assert.Equal(t, TrackY, trends[0].Track)
	assert.Equal(t, "I", trends[0].Letter)
	assert.True(t, trends[0].A > 0)

	assert.Equal(t, "R", trends[1].Letter)
	assert.True(t, trends[1].A < 0)

	// Частоты взяты как доли от общего счетчика бина
	require.Len(t, trends[0].Points, 3)
	assert.InDelta(t, 0.25, trends[0].Points[0].Y, 1e-9)
	assert.InDelta(t, 0.75, trends[0].Points[2].Y, 1e-9)
}

func TestBuildTrendPointsSkipsDegenerateSeries(t *testing.T) {
	// Один бин на регион: тренд не вычислим, серия пропускается
	binRows := []models.BinFrequencyRow{
		{BinKey: "Greece (0-999BP)", YCounts: map[string]int{"J": 1}, YTotal: 1},
	}
	schema := models.BasalSchema{YLetters: []string{"J"}}

	trends := BuildTrendPoints(binRows, schema)
	assert.Empty(t, trends)
}

func TestBuildTrendPointsSkipsZeroTotals(t *testing.T) {
	binRows := []models.BinFrequencyRow{
		{BinKey: "Sweden (0-999BP)", YCounts: map[string]int{"R": 0}, YTotal: 0},
		{BinKey: "Sweden (1000-1999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{BinKey: "Sweden (2000-2999BP)", YCounts: map[string]int{"R": 1}, YTotal: 2},
	}
	schema := models.BasalSchema{YLetters: []string{"R"}}

	trends := BuildTrendPoints(binRows, schema)

	require.Len(t, trends, 1)
	// Бин с нулевым общим счетчиком не дает точки
	assert.Len(t, trends[0].Points, 2)
}

func TestBuildTrendPointsSeparatesRegions(t *testing.T) {
	binRows := []models.BinFrequencyRow{
		{BinKey: "Sweden (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{BinKey: "Sweden (1000-1999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{BinKey: "Greece (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{BinKey: "Greece (1000-1999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
	}
	schema := models.BasalSchema{YLetters: []string{"R"}}

	trends := BuildTrendPoints(binRows, schema)

	require.Len(t, trends, 2)
	regions := []string{trends[0].Region, trends[1].Region}
	assert.Contains(t, regions, "Sweden")
	assert.Contains(t, regions, "Greece")
}
