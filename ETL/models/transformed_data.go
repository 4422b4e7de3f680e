package models

import "time"

// TransformedData содержит результаты фазы Transform
type TransformedData struct {
	// Наблюдения после объединения линий (включая записи без бина)
	Observations []MergedRecord

	// Частотные таблицы
	SiteRows []SiteFrequencyRow
	BinRows  []BinFrequencyRow

	// Схема удержанных базальных букв
	Schema BasalSchema

	// Метаданные
	Metadata ETLMetadata
}

// ETLMetadata содержит метаданные о запуске ETL
type ETLMetadata struct {
	LastRunTimestamp time.Time
	RecordsProcessed int

	// Результаты итеративного разрешения по линиям
	YRounds      int
	MTRounds     int
	YConverged   bool
	MTConverged  bool
	YUnresolved  int
	MTUnresolved int
}
