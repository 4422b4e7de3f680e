package trend

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Config конфигурация процессора трендов
type Config struct {
	// Минимальное значение r² для записи тренда как значимого в логе
	MinR2Threshold float64
	// Срок хранения рассчитанных трендов
	RetentionPeriod time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		MinR2Threshold:  0.30,
		RetentionPeriod: 90 * 24 * time.Hour,
	}
}

// TrendProcessor рассчитывает временные тренды частот базальных гаплогрупп
// по частотной таблице уровня бинов и сохраняет их в OLAP
type TrendProcessor struct {
	repository TrendRepository
	logger     *utils.ETLLogger
	config     Config
}

// NewTrendProcessor создает новый процессор трендов
func NewTrendProcessor(repository TrendRepository, logger *utils.ETLLogger, config Config) *TrendProcessor {
	return &TrendProcessor{
		repository: repository,
		logger:     logger,
		config:     config,
	}
}

// Process рассчитывает тренды по результатам трансформации и сохраняет их
func (p *TrendProcessor) Process(data *models.TransformedData) error {
	startTime := time.Now()
	p.logger.Info("Запуск расчета временных трендов частот базальных гаплогрупп")

	if err := p.repository.EnsureTableExists(); err != nil {
		return fmt.Errorf("ошибка при проверке/создании таблицы трендов: %w", err)
	}

	trends := BuildTrendPoints(data.BinRows, data.Schema)
	if len(trends) == 0 {
		p.logger.Info("Недостаточно бинов для расчета трендов")
		return nil
	}

	significant := 0
	for _, trend := range trends {
		if trend.R2 >= p.config.MinR2Threshold {
			significant++
		}
	}
	p.logger.Info("Рассчитано %d трендов, из них %d с R² >= %.2f", len(trends), significant, p.config.MinR2Threshold)

	computedAt := time.Now()
	if err := p.repository.SaveTrends(computedAt, trends); err != nil {
		return fmt.Errorf("ошибка при сохранении трендов: %w", err)
	}

	// Удаляем устаревшие результаты; некритическая ошибка
	if err := p.repository.DeleteOldTrends(computedAt.Add(-p.config.RetentionPeriod)); err != nil {
		p.logger.Info("Не удалось удалить устаревшие тренды: %v", err)
	}

	p.logger.Info("Расчет трендов завершен. Длительность: %v", time.Since(startTime))
	return nil
}

// RunAsPartOfETL запускает расчет трендов как часть ETL процесса
func RunAsPartOfETL(olapDB *sql.DB, logger *utils.ETLLogger, data *models.TransformedData) error {
	repository := NewMySQLTrendRepository(olapDB)
	processor := NewTrendProcessor(repository, logger, DefaultConfig())
	return processor.Process(data)
}
