package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/transform"
	"github.com/andrewbergman/haplomapper/ETL/trend"
	"github.com/andrewbergman/haplomapper/processor"
	"github.com/gorilla/mux"
)

// FrequencyHandler обрабатывает HTTP-запросы к частотным таблицам
type FrequencyHandler struct {
	store *models.ResultStore
	cache *processor.ExportCache
}

// NewFrequencyHandler создает новый экземпляр FrequencyHandler
func NewFrequencyHandler(store *models.ResultStore, cache *processor.ExportCache) *FrequencyHandler {
	return &FrequencyHandler{store: store, cache: cache}
}

// SiteRowPayload расширяет строку уровня точки отбора разобранными
// компонентами составного ключа бина для удобства клиентов карты
type SiteRowPayload struct {
	models.SiteFrequencyRow
	Country string `json:"country"`
	Period  string `json:"period"`
	SortKey int    `json:"sort_key"`
}

// BinRowPayload расширяет строку уровня бина аналогично SiteRowPayload
type BinRowPayload struct {
	models.BinFrequencyRow
	Country string `json:"country"`
	Period  string `json:"period"`
	SortKey int    `json:"sort_key"`
}

// statusResponse описывает состояние последнего запуска пайплайна
type statusResponse struct {
	Ready       bool               `json:"ready"`
	UpdatedAt   time.Time          `json:"updated_at,omitempty"`
	SiteRows    int                `json:"site_rows"`
	BinRows     int                `json:"bin_rows"`
	Schema      models.BasalSchema `json:"schema"`
	Metadata    models.ETLMetadata `json:"metadata"`
	YConverged  bool               `json:"y_converged"`
	MTConverged bool               `json:"mt_converged"`
}

// distributionResponse содержит распределение базальных гаплогрупп
// по обеим линиям для одной строки частотной таблицы
type distributionResponse struct {
	BinKey   string                   `json:"bin"`
	YShares  []models.HaplogroupShare `json:"y_shares"`
	MTShares []models.HaplogroupShare `json:"mt_shares"`
	YTotal   int                      `json:"y_haplos_sum"`
	MTTotal  int                      `json:"mt_haplos_sum"`
}

// binSortKey извлекает нижнюю границу периода из составного ключа бина.
// Строки с нераспознаваемым ключом сортируются в конец.
func binSortKey(binKey string) (country, period string, sortKey int) {
	region, label, ok := transform.SplitBinKey(binKey)
	if !ok {
		return "", "", 1 << 30
	}

	low := label
	if i := strings.Index(label, "-"); i >= 0 {
		low = label[:i]
	}

	key, err := strconv.Atoi(low)
	if err != nil {
		key = 1 << 30
	}

	return region, label, key
}

// GetStatus обрабатывает запрос GET /api/status
func (h *FrequencyHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	data, updatedAt := h.store.Get()

	response := statusResponse{}
	if data != nil {
		response.Ready = true
		response.UpdatedAt = updatedAt
		response.SiteRows = len(data.SiteRows)
		response.BinRows = len(data.BinRows)
		response.Schema = data.Schema
		response.Metadata = data.Metadata
		response.YConverged = data.Metadata.YConverged
		response.MTConverged = data.Metadata.MTConverged
	}

	writeJSON(w, http.StatusOK, response)
}

// GetSiteRows обрабатывает запрос GET /api/sites
func (h *FrequencyHandler) GetSiteRows(w http.ResponseWriter, r *http.Request) {
	data, _ := h.store.Get()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, "результаты еще не готовы")
		return
	}

	payloads := make([]SiteRowPayload, 0, len(data.SiteRows))
	for _, row := range data.SiteRows {
		country, period, sortKey := binSortKey(row.BinKey)
		payloads = append(payloads, SiteRowPayload{
			SiteFrequencyRow: row,
			Country:          country,
			Period:           period,
			SortKey:          sortKey,
		})
	}

	writeJSON(w, http.StatusOK, payloads)
}

// GetBinRows обрабатывает запрос GET /api/bins
func (h *FrequencyHandler) GetBinRows(w http.ResponseWriter, r *http.Request) {
	data, _ := h.store.Get()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, "результаты еще не готовы")
		return
	}

	payloads := make([]BinRowPayload, 0, len(data.BinRows))
	for _, row := range data.BinRows {
		country, period, sortKey := binSortKey(row.BinKey)
		payloads = append(payloads, BinRowPayload{
			BinFrequencyRow: row,
			Country:         country,
			Period:          period,
			SortKey:         sortKey,
		})
	}

	writeJSON(w, http.StatusOK, payloads)
}

// GetSiteDistribution обрабатывает запрос GET /api/distribution?lat=&lon=&bin=
func (h *FrequencyHandler) GetSiteDistribution(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(query.Get("lon"), 64)
	binKey := query.Get("bin")

	if errLat != nil || errLon != nil || binKey == "" {
		writeError(w, http.StatusBadRequest, "требуются параметры lat, lon и bin")
		return
	}

	row := h.store.FindSiteRow(lat, lon, binKey)
	if row == nil {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("точка отбора (%v, %v, %s) не найдена", lat, lon, binKey))
		return
	}

	writeJSON(w, http.StatusOK, distributionResponse{
		BinKey:   row.BinKey,
		YShares:  models.SharesFromCounts(row.YCounts),
		MTShares: models.SharesFromCounts(row.MTCounts),
		YTotal:   row.YTotal,
		MTTotal:  row.MTTotal,
	})
}

// GetBinDistribution обрабатывает запрос GET /api/distribution/bin?bin=
func (h *FrequencyHandler) GetBinDistribution(w http.ResponseWriter, r *http.Request) {
	binKey := r.URL.Query().Get("bin")
	if binKey == "" {
		writeError(w, http.StatusBadRequest, "требуется параметр bin")
		return
	}

	row := h.store.FindBinRow(binKey)
	if row == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("бин %q не найден", binKey))
		return
	}

	writeJSON(w, http.StatusOK, distributionResponse{
		BinKey:   row.BinKey,
		YShares:  models.SharesFromCounts(row.YCounts),
		MTShares: models.SharesFromCounts(row.MTCounts),
		YTotal:   row.YTotal,
		MTTotal:  row.MTTotal,
	})
}

// trendPayload описывает тренд частоты одной базальной гаплогруппы
type trendPayload struct {
	Region   string  `json:"region"`
	Track    string  `json:"track"`
	Letter   string  `json:"letter"`
	Slope    float64 `json:"slope"`
	Offset   float64 `json:"offset"`
	R        float64 `json:"r"`
	R2       float64 `json:"r2"`
	AgeStart float64 `json:"age_start"`
	AgeEnd   float64 `json:"age_end"`
	Points   int     `json:"points"`
}

// GetTrends обрабатывает запрос GET /api/trends[?region=]:
// рассчитывает временные тренды частот по таблице уровня бинов
func (h *FrequencyHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	data, _ := h.store.Get()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, "результаты еще не готовы")
		return
	}

	regionFilter := r.URL.Query().Get("region")

	trends := trend.BuildTrendPoints(data.BinRows, data.Schema)
	payloads := make([]trendPayload, 0, len(trends))
	for _, result := range trends {
		if regionFilter != "" && result.Region != regionFilter {
			continue
		}
		payloads = append(payloads, trendPayload{
			Region:   result.Region,
			Track:    result.Track,
			Letter:   result.Letter,
			Slope:    result.A,
			Offset:   result.B,
			R:        result.R,
			R2:       result.R2,
			AgeStart: result.AgeStart,
			AgeEnd:   result.AgeEnd,
			Points:   len(result.Points),
		})
	}

	writeJSON(w, http.StatusOK, payloads)
}

// ExportTable обрабатывает запрос GET /api/export/{table}:
// отдает частотную таблицу в формате CSV из сжатого кэша выгрузок
func (h *FrequencyHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	data, _ := h.store.Get()
	if data == nil {
		writeError(w, http.StatusServiceUnavailable, "результаты еще не готовы")
		return
	}

	table := mux.Vars(r)["table"]
	csvData, err := h.cache.Export(table, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := "all_observations.csv"
	if table == processor.ExportBins {
		filename = "national_observations.csv"
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csvData); err != nil {
		log.Printf("❌ Ошибка при отправке CSV-выгрузки: %v", err)
	}
}

// writeJSON сериализует ответ в JSON
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Ошибка при сериализации ответа: %v", err)
	}
}

// writeError отправляет JSON с сообщением об ошибке
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
