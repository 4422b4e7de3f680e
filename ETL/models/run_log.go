package models

import (
	"time"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   int       `json:"id"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	RecordsProcessed     int       `json:"records_processed"`
	SiteRowsLoaded       int       `json:"site_rows_loaded"`
	BinRowsLoaded        int       `json:"bin_rows_loaded"`
	YConverged           bool      `json:"y_converged"`
	MTConverged          bool      `json:"mt_converged"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// ETLLogRepository представляет репозиторий для работы с логами ETL
type ETLLogRepository interface {
	// CreateETLLogTable создает таблицу логов, если она не существует
	CreateETLLogTable() error

	// CreateLogEntry создает новую запись о запуске ETL
	CreateLogEntry(startTime time.Time) (int, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
	UpdateLogEntrySuccess(
		id int,
		endTime time.Time,
		recordsProcessed,
		siteRowsLoaded,
		binRowsLoaded int,
		yConverged,
		mtConverged bool) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
	UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
	GetLastSuccessfulRun() (*ETLRunLog, error)

	// GetETLRunStats получает статистику о запусках ETL за определенный период
	GetETLRunStats(days int) ([]ETLRunLog, error)
}
