package trend

import (
	"fmt"
	"time"

	"database/sql"
)

// MySQLTrendRepository реализация TrendRepository для работы с MySQL
type MySQLTrendRepository struct {
	db *sql.DB
}

// NewMySQLTrendRepository создает новый репозиторий для работы с трендами
func NewMySQLTrendRepository(db *sql.DB) *MySQLTrendRepository {
	return &MySQLTrendRepository{
		db: db,
	}
}

// EnsureTableExists проверяет наличие таблицы и создает ее при необходимости
func (r *MySQLTrendRepository) EnsureTableExists() error {
	query := `
	CREATE TABLE IF NOT EXISTS haplo_analytics.basal_frequency_trends (
		id INT AUTO_INCREMENT PRIMARY KEY,
		region VARCHAR(255) NOT NULL,
		track VARCHAR(8) NOT NULL,
		letter VARCHAR(8) NOT NULL,
		a DOUBLE NOT NULL,
		b DOUBLE NOT NULL,
		r DOUBLE NOT NULL,
		r2 DOUBLE NOT NULL,
		age_start DOUBLE NOT NULL,
		age_end DOUBLE NOT NULL,
		points INT NOT NULL,
		computed_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_region_track (region, track),
		INDEX idx_computed_at (computed_at)
	);`

	_, err := r.db.Exec(query)
	return err
}

// SaveTrends сохраняет результаты расчета трендов в транзакции
func (r *MySQLTrendRepository) SaveTrends(computedAt time.Time, trends []TrendResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	query := `
	INSERT INTO haplo_analytics.basal_frequency_trends
		(region, track, letter, a, b, r, r2, age_start, age_end, points, computed_at)
	VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	defer stmt.Close()

	for _, trend := range trends {
		_, err := stmt.Exec(
			trend.Region,
			trend.Track,
			trend.Letter,
			trend.A,
			trend.B,
			trend.R,
			trend.R2,
			trend.AgeStart,
			trend.AgeEnd,
			len(trend.Points),
			computedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("не удалось выполнить запрос: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}

	return nil
}

// DeleteOldTrends удаляет устаревшие результаты расчета трендов
func (r *MySQLTrendRepository) DeleteOldTrends(olderThan time.Time) error {
	query := `
	DELETE FROM haplo_analytics.basal_frequency_trends
	WHERE computed_at < ?;`

	_, err := r.db.Exec(query, olderThan)
	if err != nil {
		return fmt.Errorf("ошибка при удалении устаревших трендов: %w", err)
	}

	return nil
}
