package transform

import (
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// FrequencyAggregator сворачивает наблюдения в частотные таблицы двух
// уровней: по уникальным точкам отбора и по бинам регион-период.
// Материализуются только наблюдаемые бины.
type FrequencyAggregator struct {
	logger *utils.ETLLogger
}

// NewFrequencyAggregator создает новый экземпляр FrequencyAggregator
func NewFrequencyAggregator(logger *utils.ETLLogger) *FrequencyAggregator {
	return &FrequencyAggregator{logger: logger}
}

// Ключ группировки уровня точки отбора
type siteKey struct {
	lat    float64
	lon    float64
	binKey string
}

// AggregateSites группирует наблюдения по (широта, долгота, ключ бина).
// Числовые колонки суммируются; нечисловые берут первое непустое значение
// в стабильном входном порядке. Наблюдения без бина исключаются.
func (a *FrequencyAggregator) AggregateSites(observations []models.MergedRecord) []models.SiteFrequencyRow {
	rows := make([]models.SiteFrequencyRow, 0)
	index := make(map[siteKey]int)

	for _, obs := range observations {
		// Записи без разрешимого возраста или региона не попадают
		// в биннингованные выводы
		if obs.BinKey == "" {
			continue
		}

		key := siteKey{obs.Lat, obs.Lon, obs.BinKey}
		idx, exists := index[key]
		if !exists {
			rows = append(rows, models.SiteFrequencyRow{
				Lat:      obs.Lat,
				Lon:      obs.Lon,
				BinKey:   obs.BinKey,
				YCounts:  make(map[string]int),
				MTCounts: make(map[string]int),
			})
			idx = len(rows) - 1
			index[key] = idx
		}

		row := &rows[idx]

		// Нечисловые колонки: первое непустое значение
		if row.MasterID == "" {
			row.MasterID = obs.MasterID
		}
		if row.Region == "" {
			row.Region = obs.Region
		}

		// Числовые колонки: суммирование; nil-счетчики отсутствующей
		// линии считаются нулями
		addCounts(row.YCounts, obs.YCounts)
		addCounts(row.MTCounts, obs.MTCounts)
		row.YTotal += obs.YTotal
		row.MTTotal += obs.MTTotal
	}

	if a.logger != nil {
		a.logger.Info("Агрегация по точкам отбора: %d наблюдений → %d строк", len(observations), len(rows))
	}

	return rows
}

// AggregateBins группирует строки уровня точки отбора по ключу бина,
// суммируя только счетчики по буквам и общие счетчики. Сумма всех строк
// уровня точки отбора для бина в точности воспроизводит строку уровня бина.
func (a *FrequencyAggregator) AggregateBins(siteRows []models.SiteFrequencyRow) []models.BinFrequencyRow {
	rows := make([]models.BinFrequencyRow, 0)
	index := make(map[string]int)

	for _, site := range siteRows {
		idx, exists := index[site.BinKey]
		if !exists {
			rows = append(rows, models.BinFrequencyRow{
				BinKey:   site.BinKey,
				YCounts:  make(map[string]int),
				MTCounts: make(map[string]int),
			})
			idx = len(rows) - 1
			index[site.BinKey] = idx
		}

		row := &rows[idx]
		addCounts(row.YCounts, site.YCounts)
		addCounts(row.MTCounts, site.MTCounts)
		row.YTotal += site.YTotal
		row.MTTotal += site.MTTotal
	}

	if a.logger != nil {
		a.logger.Info("Агрегация по бинам: %d строк точек отбора → %d бинов", len(siteRows), len(rows))
	}

	return rows
}

// addCounts прибавляет счетчики src к dst. nil-источник трактуется как нули.
func addCounts(dst, src map[string]int) {
	for letter, count := range src {
		dst[letter] += count
	}
}
