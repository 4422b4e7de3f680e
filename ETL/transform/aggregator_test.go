package transform

import (
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSitesGroupsByCoordinatesAndBin(t *testing.T) {
	aggregator := NewFrequencyAggregator(nil)

	// Две записи одной точки отбора и одного бина с разными базальными
	// гаплогруппами отцовской линии
	observations := []models.MergedRecord{
		{
			MasterID: "I001",
			Lat:      59.3,
			Lon:      18.1,
			Region:   "Sweden",
			BinKey:   "Sweden (0-999BP)",
			YCounts:  map[string]int{"I": 0, "R": 1},
			YTotal:   1,
		},
		{
			MasterID: "I002",
			Lat:      59.3,
			Lon:      18.1,
			Region:   "Sweden",
			BinKey:   "Sweden (0-999BP)",
			YCounts:  map[string]int{"I": 1, "R": 0},
			YTotal:   1,
		},
	}

	rows := aggregator.AggregateSites(observations)

	require.Len(t, rows, 1)
	assert.Equal(t, map[string]int{"I": 1, "R": 1}, rows[0].YCounts)
	assert.Equal(t, 2, rows[0].YTotal)
	// Нечисловые колонки: первое непустое значение группы
	assert.Equal(t, "I001", rows[0].MasterID)
	assert.Equal(t, "Sweden", rows[0].Region)
}

func TestAggregateSitesSkipsUnbinnedObservations(t *testing.T) {
	aggregator := NewFrequencyAggregator(nil)

	observations := []models.MergedRecord{
		{MasterID: "I001", BinKey: "", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{MasterID: "I002", Lat: 59.3, Lon: 18.1, BinKey: "Sweden (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
	}

	rows := aggregator.AggregateSites(observations)

	require.Len(t, rows, 1)
	assert.Equal(t, "I002", rows[0].MasterID)
}

func TestAggregateSitesNilCountsAreZero(t *testing.T) {
	aggregator := NewFrequencyAggregator(nil)

	// Наблюдение без материнской линии не вносит вклад в ее счетчики
	observations := []models.MergedRecord{
		{
			Lat:     59.3,
			Lon:     18.1,
			BinKey:  "Sweden (0-999BP)",
			YCounts: map[string]int{"R": 1},
			YTotal:  1,
		},
		{
			Lat:      59.3,
			Lon:      18.1,
			BinKey:   "Sweden (0-999BP)",
			MTCounts: map[string]int{"H": 1},
			MTTotal:  1,
		},
	}

	rows := aggregator.AggregateSites(observations)

	require.Len(t, rows, 1)
	assert.Equal(t, map[string]int{"R": 1}, rows[0].YCounts)
	assert.Equal(t, map[string]int{"H": 1}, rows[0].MTCounts)
	assert.Equal(t, 1, rows[0].YTotal)
	assert.Equal(t, 1, rows[0].MTTotal)
}

func TestAggregateBinsConservesSums(t *testing.T) {
	aggregator := NewFrequencyAggregator(nil)

	// Две точки отбора одного бина и одна точка другого
	siteRows := []models.SiteFrequencyRow{
		{Lat: 59.3, Lon: 18.1, BinKey: "Sweden (0-999BP)", YCounts: map[string]int{"I": 1, "R": 2}, YTotal: 3},
		{Lat: 57.7, Lon: 11.9, BinKey: "Sweden (0-999BP)", YCounts: map[string]int{"I": 2, "R": 0}, YTotal: 2},
		{Lat: 40.0, Lon: 22.5, BinKey: "Greece (0-999BP)", YCounts: map[string]int{"J": 1}, YTotal: 1},
	}

	binRows := aggregator.AggregateBins(siteRows)

	require.Len(t, binRows, 2)

	assert.Equal(t, "Sweden (0-999BP)", binRows[0].BinKey)
	assert.Equal(t, map[string]int{"I": 3, "R": 2}, binRows[0].YCounts)
	assert.Equal(t, 5, binRows[0].YTotal)

	assert.Equal(t, "Greece (0-999BP)", binRows[1].BinKey)
	assert.Equal(t, 1, binRows[1].YTotal)

	// Инвариант сохранения: сумма общих счетчиков уровней совпадает
	siteSum, binSum := 0, 0
	for _, row := range siteRows {
		siteSum += row.YTotal
	}
	for _, row := range binRows {
		binSum += row.YTotal
	}
	assert.Equal(t, siteSum, binSum)
}

func TestAggregateSitesPreservesFirstAppearanceOrder(t *testing.T) {
	aggregator := NewFrequencyAggregator(nil)

	observations := []models.MergedRecord{
		{Lat: 1, Lon: 1, BinKey: "B (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{Lat: 2, Lon: 2, BinKey: "A (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
		{Lat: 1, Lon: 1, BinKey: "B (0-999BP)", YCounts: map[string]int{"R": 1}, YTotal: 1},
	}

	rows := aggregator.AggregateSites(observations)

	require.Len(t, rows, 2)
	assert.Equal(t, "B (0-999BP)", rows[0].BinKey)
	assert.Equal(t, "A (0-999BP)", rows[1].BinKey)
}
