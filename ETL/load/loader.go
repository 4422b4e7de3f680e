package load

import (
	"database/sql"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Loader интерфейс для загрузки частотных таблиц в OLAP
type Loader interface {
	// CreateTables создает таблицы частот, если они не существуют
	CreateTables() error

	// LoadSiteFrequencies загружает частотную таблицу уровня точек отбора
	LoadSiteFrequencies(rows []models.SiteFrequencyRow) error

	// LoadBinFrequencies загружает частотную таблицу уровня бинов
	LoadBinFrequencies(rows []models.BinFrequencyRow) error
}

// OLAPLoader реализация Loader для OLAP базы данных
type OLAPLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	frequencyLoader *FrequencyLoader
}

// NewOLAPLoader создает новый экземпляр OLAPLoader
func NewOLAPLoader(db *sql.DB, logger *utils.ETLLogger) *OLAPLoader {
	return &OLAPLoader{
		db:              db,
		logger:          logger,
		frequencyLoader: NewFrequencyLoader(db, logger),
	}
}

// CreateTables создает таблицы частот, если они не существуют
func (l *OLAPLoader) CreateTables() error {
	return l.frequencyLoader.CreateTables()
}

// LoadSiteFrequencies загружает частотную таблицу уровня точек отбора
func (l *OLAPLoader) LoadSiteFrequencies(rows []models.SiteFrequencyRow) error {
	return l.frequencyLoader.LoadSiteFrequencies(rows)
}

// LoadBinFrequencies загружает частотную таблицу уровня бинов
func (l *OLAPLoader) LoadBinFrequencies(rows []models.BinFrequencyRow) error {
	return l.frequencyLoader.LoadBinFrequencies(rows)
}
