package transform

import (
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// TrackMerger выполняет внешнее объединение закодированных записей двух
// линий наследования по (идентификатор, ключ бина, широта, долгота)
type TrackMerger struct {
	logger *utils.ETLLogger
}

// NewTrackMerger создает новый экземпляр TrackMerger
func NewTrackMerger(logger *utils.ETLLogger) *TrackMerger {
	return &TrackMerger{logger: logger}
}

// Ключ объединения записей двух линий
type mergeKey struct {
	masterID string
	binKey   string
	lat      float64
	lon      float64
}

// Merge объединяет записи отцовской и материнской линий. Записи,
// присутствующие только в одной линии, сохраняют nil-счетчики другой линии;
// агрегатор трактует их как нули.
func (m *TrackMerger) Merge(yRecords, mtRecords []models.EncodedRecord) []models.MergedRecord {
	merged := make([]models.MergedRecord, 0, len(yRecords))
	hasMT := make([]bool, 0, len(yRecords))
	index := make(map[mergeKey]int, len(yRecords))

	// Сначала заносим все записи отцовской линии
	for _, rec := range yRecords {
		key := mergeKey{rec.MasterID, rec.BinKey, rec.Lat, rec.Lon}
		merged = append(merged, models.MergedRecord{
			MasterID: rec.MasterID,
			Lat:      rec.Lat,
			Lon:      rec.Lon,
			Region:   rec.Region,
			BinKey:   rec.BinKey,
			YCounts:  rec.Counts,
			YTotal:   rec.Total,
		})
		hasMT = append(hasMT, false)

		if _, exists := index[key]; !exists {
			index[key] = len(merged) - 1
		}
	}

	// Затем присоединяем материнскую линию
	for _, rec := range mtRecords {
		key := mergeKey{rec.MasterID, rec.BinKey, rec.Lat, rec.Lon}

		if idx, exists := index[key]; exists && !hasMT[idx] {
			merged[idx].MTCounts = rec.Counts
			merged[idx].MTTotal = rec.Total
			if merged[idx].Region == "" {
				merged[idx].Region = rec.Region
			}
			hasMT[idx] = true
			continue
		}

		// Запись присутствует только в материнской линии
		merged = append(merged, models.MergedRecord{
			MasterID: rec.MasterID,
			Lat:      rec.Lat,
			Lon:      rec.Lon,
			Region:   rec.Region,
			BinKey:   rec.BinKey,
			MTCounts: rec.Counts,
			MTTotal:  rec.Total,
		})
		hasMT = append(hasMT, true)
	}

	if m.logger != nil {
		m.logger.Debug("Объединение линий: %d записей Y, %d записей МТ, %d наблюдений", len(yRecords), len(mtRecords), len(merged))
	}

	return merged
}
