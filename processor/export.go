package processor

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/andrewbergman/haplomapper/ETL/load"
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Ключи кэшируемых выгрузок
const (
	ExportSites = "sites"
	ExportBins  = "bins"
)

// ExportCache обрабатывает CSV-выгрузки частотных таблиц:
// 1. Рендеринг таблицы в CSV (переиспользует писатели из пакета load)
// 2. Сжатие отрендеренной выгрузки с использованием Snappy
// Сжатые выгрузки кэшируются до следующего обновления результатов.
type ExportCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	logger  *utils.ETLLogger
}

// NewExportCache создает новый экземпляр ExportCache
func NewExportCache(logger *utils.ETLLogger) *ExportCache {
	return &ExportCache{
		entries: make(map[string][]byte),
		logger:  logger,
	}
}

// Invalidate сбрасывает кэш; вызывается после обновления результатов
func (c *ExportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}

// Export возвращает CSV-выгрузку указанной таблицы, используя кэш
// сжатых выгрузок
func (c *ExportCache) Export(table string, data *models.TransformedData) ([]byte, error) {
	// Сначала проверяем кэш
	c.mu.RLock()
	compressed, ok := c.entries[table]
	c.mu.RUnlock()

	if ok {
		plain, err := DecompressExport(compressed)
		if err == nil {
			return plain, nil
		}
		// Поврежденная запись кэша: перерендерим
		if c.logger != nil {
			c.logger.Error("Ошибка при распаковке кэшированной выгрузки %s: %v", table, err)
		}
	}

	plain, err := c.render(table, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[table] = CompressExport(plain)
	c.mu.Unlock()

	return plain, nil
}

// render формирует CSV-выгрузку таблицы
func (c *ExportCache) render(table string, data *models.TransformedData) ([]byte, error) {
	writer := load.NewCSVLoader("", c.logger)
	var buf bytes.Buffer

	switch table {
	case ExportSites:
		if err := writer.WriteSiteCSV(&buf, data.SiteRows, data.Schema); err != nil {
			return nil, fmt.Errorf("ошибка при рендеринге таблицы точек отбора: %w", err)
		}
	case ExportBins:
		if err := writer.WriteBinCSV(&buf, data.BinRows, data.Schema); err != nil {
			return nil, fmt.Errorf("ошибка при рендеринге таблицы бинов: %w", err)
		}
	default:
		return nil, fmt.Errorf("неизвестная таблица выгрузки: %s", table)
	}

	return buf.Bytes(), nil
}
