package load

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// FrequencyLoader отвечает за загрузку частотных таблиц в OLAP
type FrequencyLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewFrequencyLoader создает новый экземпляр FrequencyLoader
func NewFrequencyLoader(db *sql.DB, logger *utils.ETLLogger) *FrequencyLoader {
	return &FrequencyLoader{
		db:     db,
		logger: logger,
	}
}

// CreateTables создает таблицы частот, если они не существуют.
// Счетчики по буквам хранятся как JSON: набор базальных букв зависит
// от данных и не фиксируется схемой таблицы.
func (l *FrequencyLoader) CreateTables() error {
	siteQuery := `
	CREATE TABLE IF NOT EXISTS haplo_analytics.site_frequency_facts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		lat DOUBLE NOT NULL,
		lon DOUBLE NOT NULL,
		bin_key VARCHAR(255) NOT NULL,
		master_id VARCHAR(64),
		region VARCHAR(128),
		y_counts JSON,
		mt_counts JSON,
		y_haplos_sum INT DEFAULT 0,
		mt_haplos_sum INT DEFAULT 0,
		UNIQUE KEY uniq_site (lat, lon, bin_key)
	);
	`

	binQuery := `
	CREATE TABLE IF NOT EXISTS haplo_analytics.bin_frequency_facts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		bin_key VARCHAR(255) NOT NULL,
		y_counts JSON,
		mt_counts JSON,
		y_haplos_sum INT DEFAULT 0,
		mt_haplos_sum INT DEFAULT 0,
		UNIQUE KEY uniq_bin (bin_key)
	);
	`

	if _, err := l.db.Exec(siteQuery); err != nil {
		return fmt.Errorf("ошибка при создании таблицы site_frequency_facts: %w", err)
	}

	if _, err := l.db.Exec(binQuery); err != nil {
		return fmt.Errorf("ошибка при создании таблицы bin_frequency_facts: %w", err)
	}

	return nil
}

// LoadSiteFrequencies загружает частотную таблицу уровня точек отбора в OLAP
func (l *FrequencyLoader) LoadSiteFrequencies(rows []models.SiteFrequencyRow) error {
	if len(rows) == 0 {
		l.logger.Debug("Нет строк уровня точек отбора для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки частот по точкам отбора (всего: %d)", len(rows))

	// Подготавливаем запрос для вставки/обновления строк
	stmt, err := l.db.Prepare(`
		INSERT INTO haplo_analytics.site_frequency_facts (
			lat, lon, bin_key, master_id, region,
			y_counts, mt_counts, y_haplos_sum, mt_haplos_sum
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		master_id = VALUES(master_id),
		region = VALUES(region),
		y_counts = VALUES(y_counts),
		mt_counts = VALUES(mt_counts),
		y_haplos_sum = VALUES(y_haplos_sum),
		mt_haplos_sum = VALUES(mt_haplos_sum)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, row := range rows {
		yCounts, err := json.Marshal(row.YCounts)
		if err != nil {
			l.logger.Error("Ошибка при сериализации счетчиков Y для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		mtCounts, err := json.Marshal(row.MTCounts)
		if err != nil {
			l.logger.Error("Ошибка при сериализации счетчиков МТ для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		_, err = txStmt.Exec(
			row.Lat,
			row.Lon,
			row.BinKey,
			row.MasterID,
			row.Region,
			yCounts,
			mtCounts,
			row.YTotal,
			row.MTTotal,
		)

		if err != nil {
			l.logger.Error("Ошибка при обновлении site_frequency_facts для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		processed++
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке частот по точкам отбора", errors)
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка частот по точкам отбора завершена. Загружено строк: %d. Длительность: %v", processed, duration)

	return nil
}

// LoadBinFrequencies загружает частотную таблицу уровня бинов в OLAP
func (l *FrequencyLoader) LoadBinFrequencies(rows []models.BinFrequencyRow) error {
	if len(rows) == 0 {
		l.logger.Debug("Нет строк уровня бинов для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки частот по бинам (всего: %d)", len(rows))

	stmt, err := l.db.Prepare(`
		INSERT INTO haplo_analytics.bin_frequency_facts (
			bin_key, y_counts, mt_counts, y_haplos_sum, mt_haplos_sum
		)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		y_counts = VALUES(y_counts),
		mt_counts = VALUES(mt_counts),
		y_haplos_sum = VALUES(y_haplos_sum),
		mt_haplos_sum = VALUES(mt_haplos_sum)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, row := range rows {
		yCounts, err := json.Marshal(row.YCounts)
		if err != nil {
			l.logger.Error("Ошибка при сериализации счетчиков Y для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		mtCounts, err := json.Marshal(row.MTCounts)
		if err != nil {
			l.logger.Error("Ошибка при сериализации счетчиков МТ для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		_, err = txStmt.Exec(row.BinKey, yCounts, mtCounts, row.YTotal, row.MTTotal)
		if err != nil {
			l.logger.Error("Ошибка при обновлении bin_frequency_facts для бина %s: %v", row.BinKey, err)
			errors++
			continue
		}

		processed++
	}

	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке частот по бинам", errors)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка частот по бинам завершена. Загружено строк: %d. Длительность: %v", processed, duration)

	return nil
}
