package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db *sql.DB
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
func NewMySQLETLLogRepository(db *sql.DB) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable создает таблицу для логирования ETL процесса, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS haplo_analytics.etl_run_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		records_processed INT DEFAULT 0,
		site_rows_loaded INT DEFAULT 0,
		bin_rows_loaded INT DEFAULT 0,
		y_converged BOOLEAN DEFAULT FALSE,
		mt_converged BOOLEAN DEFAULT FALSE,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *MySQLETLLogRepository) CreateLogEntry(startTime time.Time) (int, error) {
	query := `
	INSERT INTO haplo_analytics.etl_run_log (start_time, status)
	VALUES (?, 'in_progress')
	`

	result, err := r.db.Exec(query, startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	return int(id), nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntrySuccess(
	id int,
	endTime time.Time,
	recordsProcessed,
	siteRowsLoaded,
	binRowsLoaded int,
	yConverged,
	mtConverged bool) error {

	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM haplo_analytics.etl_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := `
	UPDATE haplo_analytics.etl_run_log
	SET
		end_time = ?,
		status = 'success',
		records_processed = ?,
		site_rows_loaded = ?,
		bin_rows_loaded = ?,
		y_converged = ?,
		mt_converged = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(
		query,
		endTime,
		recordsProcessed,
		siteRowsLoaded,
		binRowsLoaded,
		yConverged,
		mtConverged,
		executionTime,
		id,
	)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM haplo_analytics.etl_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := `
	UPDATE haplo_analytics.etl_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
func (r *MySQLETLLogRepository) GetLastSuccessfulRun() (*ETLRunLog, error) {
	query := `
	SELECT
		id, start_time, end_time, status,
		records_processed, site_rows_loaded, bin_rows_loaded,
		y_converged, mt_converged, IFNULL(error_message, ''), execution_time_seconds
	FROM haplo_analytics.etl_run_log
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog ETLRunLog
	err := r.db.QueryRow(query).Scan(
		&runLog.ID, &runLog.StartTime, &runLog.EndTime, &runLog.Status,
		&runLog.RecordsProcessed, &runLog.SiteRowsLoaded, &runLog.BinRowsLoaded,
		&runLog.YConverged, &runLog.MTConverged, &runLog.ErrorMessage, &runLog.ExecutionTimeSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Нет успешных запусков
		}
		return nil, fmt.Errorf("ошибка при получении информации о последнем успешном запуске ETL: %w", err)
	}

	return &runLog, nil
}

// GetETLRunStats получает статистику о запусках ETL за определенный период
func (r *MySQLETLLogRepository) GetETLRunStats(days int) ([]ETLRunLog, error) {
	query := `
	SELECT
		id, start_time, end_time, status,
		records_processed, site_rows_loaded, bin_rows_loaded,
		y_converged, mt_converged, IFNULL(error_message, ''), execution_time_seconds
	FROM haplo_analytics.etl_run_log
	WHERE start_time >= DATE_SUB(NOW(), INTERVAL ? DAY)
	ORDER BY start_time DESC
	`

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики запусков ETL: %w", err)
	}
	defer rows.Close()

	var logs []ETLRunLog
	for rows.Next() {
		var runLog ETLRunLog
		err := rows.Scan(
			&runLog.ID, &runLog.StartTime, &runLog.EndTime, &runLog.Status,
			&runLog.RecordsProcessed, &runLog.SiteRowsLoaded, &runLog.BinRowsLoaded,
			&runLog.YConverged, &runLog.MTConverged, &runLog.ErrorMessage, &runLog.ExecutionTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске ETL: %w", err)
		}
		logs = append(logs, runLog)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках ETL: %w", err)
	}

	return logs, nil
}
