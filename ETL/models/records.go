package models

import "time"

// LineageTrack обозначает одну из двух независимых линий наследования
type LineageTrack string

const (
	// TrackY — отцовская линия (Y-хромосома)
	TrackY LineageTrack = "y"
	// TrackMT — материнская линия (митохондриальная ДНК)
	TrackMT LineageTrack = "mt"
)

// SampleRecord представляет одну запись аннотации AADR.
// Идентичность записи неизменяема после создания загрузчиком.
type SampleRecord struct {
	MasterID     string  // стабильный идентификатор образца
	Lat          float64 // широта точки отбора
	Lon          float64 // долгота точки отбора
	AgeBP        float64 // возраст в годах BP (before present)
	HasAge       bool    // false, если возраст не удалось распознать
	Region       string  // политическая единица (страна)
	YHaplogroup  string  // сырая классификация Y-хромосомы ("" если отсутствует)
	MTHaplogroup string  // сырая классификация мтДНК ("" если отсутствует)
}

// AliasSource представляет один источник алиасов: сырые строки файла
// и индексы полей, из которых строится отображение ключ → значение
type AliasSource struct {
	Name       string
	Lines      []string
	KeyIndex   int
	ValueIndex int
}

// ExtractedData содержит данные, извлеченные в фазе Extract
type ExtractedData struct {
	Records []SampleRecord

	// Источники алиасов для отцовской линии
	YPhylo AliasSource
	YSNP   AliasSource
	YLocus AliasSource

	// Источники алиасов для материнской линии
	MTPhylo    AliasSource
	MTMutation AliasSource

	// Время запуска извлечения
	LastRunTS time.Time
}
