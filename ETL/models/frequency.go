package models

// EncodedRecord представляет запись одной линии после разрешения базальной
// гаплогруппы и кодирования счетчиков по буквам
type EncodedRecord struct {
	MasterID string
	Lat      float64
	Lon      float64
	Region   string
	BinKey   string // составной ключ бина; "" если возраст или регион отсутствуют
	Basal    string // разрешенная базальная буква или сентинел "n/a"

	Counts map[string]int // буква → индикатор (0/1)
	Total  int            // сумма индикаторов записи
}

// MergedRecord представляет наблюдение после внешнего объединения двух линий.
// Счетчики отсутствующей линии остаются nil и при агрегации считаются нулями.
type MergedRecord struct {
	MasterID string
	Lat      float64
	Lon      float64
	Region   string
	BinKey   string

	YCounts  map[string]int
	MTCounts map[string]int
	YTotal   int
	MTTotal  int
}

// SiteFrequencyRow представляет строку частотной таблицы уровня точки отбора:
// одна строка на уникальную комбинацию (широта, долгота, бин)
type SiteFrequencyRow struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	BinKey string  `json:"bin"`

	// Первые непустые значения нечисловых колонок в группе
	MasterID string `json:"master_id"`
	Region   string `json:"region"`

	YCounts  map[string]int `json:"y_counts"`
	MTCounts map[string]int `json:"mt_counts"`
	YTotal   int            `json:"y_haplos_sum"`
	MTTotal  int            `json:"mt_haplos_sum"`
}

// BinFrequencyRow представляет строку частотной таблицы уровня бина
// (регион + временной период, например "Sweden (0-999BP)")
type BinFrequencyRow struct {
	BinKey string `json:"bin"`

	YCounts  map[string]int `json:"y_counts"`
	MTCounts map[string]int `json:"mt_counts"`
	YTotal   int            `json:"y_haplos_sum"`
	MTTotal  int            `json:"mt_haplos_sum"`
}

// BasalSchema содержит явную схему удержанных базальных букв по линиям,
// вычисляемую один раз после кодирования
type BasalSchema struct {
	YLetters  []string `json:"y_letters"`
	MTLetters []string `json:"mt_letters"`
}
