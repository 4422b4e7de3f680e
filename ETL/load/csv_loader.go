package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Имена файлов частотных таблиц
const (
	siteCSVName = "all_observations.csv"
	binCSVName  = "national_observations.csv"
)

// CSVLoader сохраняет частотные таблицы в CSV-файлы
type CSVLoader struct {
	outputDir string
	logger    *utils.ETLLogger
}

// NewCSVLoader создает новый экземпляр CSVLoader
func NewCSVLoader(outputDir string, logger *utils.ETLLogger) *CSVLoader {
	return &CSVLoader{
		outputDir: outputDir,
		logger:    logger,
	}
}

// SaveFrequencyTables сохраняет обе частотные таблицы в каталог вывода
func (l *CSVLoader) SaveFrequencyTables(data *models.TransformedData) error {
	sitePath := filepath.Join(l.outputDir, siteCSVName)
	file, err := os.Create(sitePath)
	if err != nil {
		return fmt.Errorf("ошибка при создании файла %s: %w", sitePath, err)
	}

	if err := l.WriteSiteCSV(file, data.SiteRows, data.Schema); err != nil {
		file.Close()
		return fmt.Errorf("ошибка при записи таблицы точек отбора: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ошибка при закрытии файла %s: %w", sitePath, err)
	}

	binPath := filepath.Join(l.outputDir, binCSVName)
	file, err = os.Create(binPath)
	if err != nil {
		return fmt.Errorf("ошибка при создании файла %s: %w", binPath, err)
	}

	if err := l.WriteBinCSV(file, data.BinRows, data.Schema); err != nil {
		file.Close()
		return fmt.Errorf("ошибка при записи таблицы бинов: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ошибка при закрытии файла %s: %w", binPath, err)
	}

	l.logger.Info("Частотные таблицы сохранены: %s, %s", sitePath, binPath)
	return nil
}

// WriteSiteCSV записывает частотную таблицу уровня точек отбора.
// Колонки счетчиков формируются из схемы базальных букв: <L>_y_sum
// для отцовской линии и <L>_mt_sum для материнской.
func (l *CSVLoader) WriteSiteCSV(w io.Writer, rows []models.SiteFrequencyRow, schema models.BasalSchema) error {
	writer := csv.NewWriter(w)

	header := []string{"Lat.", "Long.", "CombinedBins", "Master ID", "Political Entity"}
	for _, letter := range schema.YLetters {
		header = append(header, letter+"_y_sum")
	}
	for _, letter := range schema.MTLetters {
		header = append(header, letter+"_mt_sum")
	}
	header = append(header, "y_haplos_sum", "mt_haplos_sum")

	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatFloat(row.Lat, 'f', -1, 64),
			strconv.FormatFloat(row.Lon, 'f', -1, 64),
			row.BinKey,
			row.MasterID,
			row.Region,
		}
		for _, letter := range schema.YLetters {
			record = append(record, strconv.Itoa(row.YCounts[letter]))
		}
		for _, letter := range schema.MTLetters {
			record = append(record, strconv.Itoa(row.MTCounts[letter]))
		}
		record = append(record, strconv.Itoa(row.YTotal), strconv.Itoa(row.MTTotal))

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteBinCSV записывает частотную таблицу уровня бинов
func (l *CSVLoader) WriteBinCSV(w io.Writer, rows []models.BinFrequencyRow, schema models.BasalSchema) error {
	writer := csv.NewWriter(w)

	header := []string{"CombinedBins"}
	for _, letter := range schema.YLetters {
		header = append(header, letter+"_y_sum")
	}
	for _, letter := range schema.MTLetters {
		header = append(header, letter+"_mt_sum")
	}
	header = append(header, "y_haplos_sum", "mt_haplos_sum")

	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{row.BinKey}
		for _, letter := range schema.YLetters {
			record = append(record, strconv.Itoa(row.YCounts[letter]))
		}
		for _, letter := range schema.MTLetters {
			record = append(record, strconv.Itoa(row.MTCounts[letter]))
		}
		record = append(record, strconv.Itoa(row.YTotal), strconv.Itoa(row.MTTotal))

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
