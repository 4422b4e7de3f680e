package routes

import (
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/middleware"
	"github.com/andrewbergman/haplomapper/processor"
	"github.com/andrewbergman/haplomapper/websocket"
	"github.com/gorilla/mux"
)

// SetupRoutes настраивает все маршруты API сервера карты
func SetupRoutes(router *mux.Router, store *models.ResultStore, cache *processor.ExportCache, wsManager *websocket.Manager) {
	router.Use(middleware.CORSMiddleware)

	handler := NewFrequencyHandler(store, cache)

	// WebSocket для интерактивного выбора точек на карте
	router.HandleFunc("/ws", wsManager.HandleConnections)

	// Состояние последнего запуска пайплайна
	router.HandleFunc("/api/status", handler.GetStatus).Methods("GET")

	// Частотные таблицы
	router.HandleFunc("/api/sites", handler.GetSiteRows).Methods("GET")
	router.HandleFunc("/api/bins", handler.GetBinRows).Methods("GET")

	// Распределения базальных гаплогрупп
	router.HandleFunc("/api/distribution", handler.GetSiteDistribution).Methods("GET")
	router.HandleFunc("/api/distribution/bin", handler.GetBinDistribution).Methods("GET")

	// Временные тренды частот базальных гаплогрупп
	router.HandleFunc("/api/trends", handler.GetTrends).Methods("GET")

	// CSV-выгрузки: {table} принимает "sites" или "bins"
	router.HandleFunc("/api/export/{table}", handler.ExportTable).Methods("GET")
}
