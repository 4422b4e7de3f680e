package extractors

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Имена колонок файла аннотации AADR
const (
	colMasterID = "Master ID"
	colLat      = "Lat."
	colLon      = "Long."
	colAge      = "Date mean in BP in years before 1950 CE [OxCal mu for a direct radiocarbon date, and average of range for a contextual date]"
	colRegion   = "Political Entity"
	colYHaplo   = "Y haplogroup (manual curation in ISOGG format)"
	colMTHaplo  = "mtDNA haplogroup if >2x or published"
)

// AnnotationExtractor извлекает записи образцов из файла аннотации AADR
type AnnotationExtractor struct {
	logger *utils.ETLLogger
}

// NewAnnotationExtractor создает новый экземпляр AnnotationExtractor
func NewAnnotationExtractor(logger *utils.ETLLogger) *AnnotationExtractor {
	return &AnnotationExtractor{logger: logger}
}

// ExtractFile извлекает записи образцов из файла по указанному пути
func (e *AnnotationExtractor) ExtractFile(path string) ([]models.SampleRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии файла аннотации: %w", err)
	}
	defer file.Close()

	return e.Parse(file)
}

// Parse читает табличные данные аннотации и преобразует их в записи образцов.
// Строки без распознаваемых координат пропускаются; нераспознаваемый возраст
// помечает запись как не имеющую возраста, но не отбрасывает ее.
func (e *AnnotationExtractor) Parse(r io.Reader) ([]models.SampleRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	// Читаем заголовок и строим отображение имени колонки на индекс
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении заголовка аннотации: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{colMasterID, colLat, colLon, colAge, colRegion} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("в аннотации отсутствует обязательная колонка %q", required)
		}
	}

	var records []models.SampleRecord
	skipped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Некорректная строка — проблема качества данных, не фатальная
			skipped++
			continue
		}

		// Координаты обязательны: записи без них не имеют смысла на карте
		lat, latOK := parseCoordinate(field(row, columns, colLat))
		lon, lonOK := parseCoordinate(field(row, columns, colLon))
		if !latOK || !lonOK {
			skipped++
			continue
		}

		age, hasAge := parseAge(field(row, columns, colAge))

		records = append(records, models.SampleRecord{
			MasterID:     field(row, columns, colMasterID),
			Lat:          lat,
			Lon:          lon,
			AgeBP:        age,
			HasAge:       hasAge,
			Region:       field(row, columns, colRegion),
			YHaplogroup:  field(row, columns, colYHaplo),
			MTHaplogroup: field(row, columns, colMTHaplo),
		})
	}

	e.logger.Info("Аннотация: извлечено %d записей, пропущено %d строк", len(records), skipped)
	return records, nil
}

// field возвращает нормализованное значение колонки строки.
// Запятые заменяются точками (десятичный разделитель части источников),
// маркер пропуска ".." дает пустую строку.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}

	value := strings.TrimSpace(strings.ReplaceAll(row[idx], ",", "."))
	if value == ".." {
		return ""
	}
	return value
}

// parseCoordinate распознает широту или долготу
func parseCoordinate(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}

	coord, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return coord, true
}

// parseAge распознает возраст в годах BP. Возраст принимается только
// в виде целого числа; все остальное считается нераспознаваемым.
func parseAge(value string) (float64, bool) {
	if value == "" || !isNumeric(value) {
		return 0, false
	}

	age, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return age, true
}

// isNumeric сообщает, состоит ли строка только из цифр
func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
