package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки частотных таблиц:
// сохранение CSV-файлов и, при наличии подключения, загрузку в OLAP
type LoadManager struct {
	db        *sql.DB
	logger    *utils.ETLLogger
	loader    Loader
	csvLoader *CSVLoader
}

// NewLoadManager создает новый экземпляр LoadManager.
// db может быть nil: в этом случае загрузка ограничивается CSV-файлами.
func NewLoadManager(db *sql.DB, outputDir string, logger *utils.ETLLogger) *LoadManager {
	manager := &LoadManager{
		db:        db,
		logger:    logger,
		csvLoader: NewCSVLoader(outputDir, logger),
	}

	if db != nil {
		manager.loader = NewOLAPLoader(db, logger)
	}

	return manager
}

// Load выполняет фазу загрузки данных ETL-процесса.
// Принимает обработанные данные из фазы Transform.
func (m *LoadManager) Load(transformedData *models.TransformedData) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	// 1. Сохраняем частотные таблицы в CSV
	if err := m.csvLoader.SaveFrequencyTables(transformedData); err != nil {
		m.logger.Error("Ошибка при сохранении CSV-файлов: %v", err)
		return fmt.Errorf("ошибка при сохранении CSV-файлов: %w", err)
	}

	// 2. Загружаем частотные таблицы в OLAP (если есть подключение)
	if m.loader == nil {
		m.logger.Debug("Подключение к OLAP отсутствует, загрузка в БД пропущена")
	} else {
		if err := m.loader.CreateTables(); err != nil {
			m.logger.Error("Ошибка при создании таблиц частот: %v", err)
			return fmt.Errorf("ошибка при создании таблиц частот: %w", err)
		}

		if err := m.loader.LoadSiteFrequencies(transformedData.SiteRows); err != nil {
			m.logger.Error("Ошибка при загрузке частот по точкам отбора: %v", err)
			return fmt.Errorf("ошибка при загрузке частот по точкам отбора: %w", err)
		}

		if err := m.loader.LoadBinFrequencies(transformedData.BinRows); err != nil {
			m.logger.Error("Ошибка при загрузке частот по бинам: %v", err)
			return fmt.Errorf("ошибка при загрузке частот по бинам: %w", err)
		}
	}

	duration := time.Since(startTime)
	m.logger.Info("Фаза Load завершена. Длительность: %v", duration)

	return nil
}
