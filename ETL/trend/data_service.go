package trend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/transform"
)

// Имена линий наследования в результатах трендов
const (
	TrackY  = "y"
	TrackMT = "mt"
)

// regionSeries накапливает точки одного региона по бинам
type regionSeries struct {
	region string
	points map[string][]TrendPoint // буква → точки
}

// BuildTrendPoints строит наборы точек трендов из частотной таблицы уровня
// бинов: по одному набору на комбинацию (регион, линия, базальная буква).
// Частота буквы в бине — доля ее счетчика от общего счетчика линии;
// бины с нулевым общим счетчиком пропускаются.
func BuildTrendPoints(binRows []models.BinFrequencyRow, schema models.BasalSchema) []TrendResult {
	ySeries := collectSeries(binRows, schema.YLetters, func(row models.BinFrequencyRow) (map[string]int, int) {
		return row.YCounts, row.YTotal
	})
	mtSeries := collectSeries(binRows, schema.MTLetters, func(row models.BinFrequencyRow) (map[string]int, int) {
		return row.MTCounts, row.MTTotal
	})

	var results []TrendResult
	results = append(results, seriesToResults(ySeries, TrackY)...)
	results = append(results, seriesToResults(mtSeries, TrackMT)...)
	return results
}

// collectSeries группирует точки по регионам и буквам одной линии
func collectSeries(binRows []models.BinFrequencyRow, letters []string,
	counts func(models.BinFrequencyRow) (map[string]int, int)) []regionSeries {

	index := make(map[string]int)
	var series []regionSeries

	for _, row := range binRows {
		region, label, ok := transform.SplitBinKey(row.BinKey)
		if !ok {
			continue
		}

		age, ok := labelLowEdge(label)
		if !ok {
			continue
		}

		rowCounts, total := counts(row)
		if total == 0 {
			continue
		}

		idx, exists := index[region]
		if !exists {
			series = append(series, regionSeries{
				region: region,
				points: make(map[string][]TrendPoint),
			})
			idx = len(series) - 1
			index[region] = idx
		}

		for _, letter := range letters {
			series[idx].points[letter] = append(series[idx].points[letter], TrendPoint{
				X:      age,
				Y:      float64(rowCounts[letter]) / float64(total),
				BinKey: row.BinKey,
			})
		}
	}

	return series
}

// seriesToResults рассчитывает тренд каждой серии с достаточным числом точек.
// Серии, для которых тренд не вычислим (мало точек, одинаковые возраста),
// пропускаются без ошибки.
func seriesToResults(series []regionSeries, track string) []TrendResult {
	var results []TrendResult

	for _, s := range series {
		letters := make([]string, 0, len(s.points))
		for letter := range s.points {
			letters = append(letters, letter)
		}
		sort.Strings(letters)

		for _, letter := range letters {
			result, err := LinearTrend(s.points[letter])
			if err != nil {
				continue
			}

			result.Region = s.region
			result.Track = track
			result.Letter = letter
			results = append(results, *result)
		}
	}

	return results
}

// labelLowEdge извлекает нижнюю границу периода из метки "<низ>-<верх>"
func labelLowEdge(label string) (float64, bool) {
	low := label
	if i := strings.Index(label, "-"); i >= 0 {
		low = label[:i]
	}

	age, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return 0, false
	}
	return age, true
}
