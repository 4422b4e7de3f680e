package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/config"
	"github.com/andrewbergman/haplomapper/ETL/extractors"
	"github.com/andrewbergman/haplomapper/ETL/load"
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/transform"
	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/andrewbergman/haplomapper/processor"
	"github.com/andrewbergman/haplomapper/routes"
	"github.com/andrewbergman/haplomapper/websocket"
	"github.com/gorilla/mux"
)

// runPipeline выполняет извлечение и трансформацию в памяти процесса,
// сохраняет CSV-файлы и публикует результат для HTTP и WebSocket слоев
func runPipeline(cfg config.ETLConfig, logger *utils.ETLLogger,
	store *models.ResultStore, cache *processor.ExportCache, wsManager *websocket.Manager) error {

	extractor := extractors.NewExtractor(cfg.Sources, logger)
	transformer := transform.NewTransformer(cfg.BinWidth, cfg.MaxResolveRounds, logger)

	extractedData, err := extractor.Extract()
	if err != nil {
		return err
	}

	transformedData, err := transformer.Transform(extractedData)
	if err != nil {
		return err
	}

	// Сервер карты работает без OLAP: загрузка ограничена CSV-файлами
	loadManager := load.NewLoadManager(nil, cfg.OutputDir, logger)
	if err := loadManager.Load(transformedData); err != nil {
		return err
	}

	store.Set(transformedData)
	cache.Invalidate()
	wsManager.NotifyUpdated()

	return nil
}

func main() {
	binPtr := flag.Int("bin", config.DefaultETLConfig.BinWidth, "Ширина временного бина в годах (например, 100 или 1000)")
	roundsPtr := flag.Int("rounds", config.DefaultETLConfig.MaxResolveRounds, "Предел числа раундов разрешения гаплогрупп")
	annoPtr := flag.String("anno", config.DefaultSourceFiles.AnnotationFile, "Путь к файлу аннотации AADR")
	outPtr := flag.String("out", config.DefaultETLConfig.OutputDir, "Каталог для частотных таблиц CSV")
	addrPtr := flag.String("addr", config.DefaultETLConfig.ServerAddr, "Адрес HTTP сервера карты")

	flag.Parse()

	cfg := config.GetConfig()
	cfg.BinWidth = *binPtr
	cfg.MaxResolveRounds = *roundsPtr
	cfg.Sources.AnnotationFile = *annoPtr
	cfg.OutputDir = *outPtr
	cfg.ServerAddr = *addrPtr

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Недопустимая конфигурация: %v", err)
	}

	logger := utils.NewETLLogger(cfg.EnableDetailedLogging)

	// Общее состояние сервера карты
	store := models.NewResultStore()
	cache := processor.NewExportCache(logger)
	wsManager := websocket.NewManager(store)
	go wsManager.Run()

	// Первый прогон пайплайна до приема запросов
	log.Println("Запуск пайплайна разрешения гаплогрупп...")
	if err := runPipeline(cfg, logger, store, cache, wsManager); err != nil {
		log.Fatalf("❌ Ошибка при выполнении пайплайна: %v", err)
	}
	log.Println("✅ Частотные таблицы готовы")

	// Настраиваем маршруты
	router := mux.NewRouter()
	routes.SetupRoutes(router, store, cache, wsManager)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✅ Сервер карты запущен на %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка при запуске сервера: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	<-signalCh

	log.Println("👋 Получен сигнал завершения. Останавливаем сервер...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Ошибка при остановке сервера: %v", err)
	}

	log.Println("Сервер карты остановлен")
}
