package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/config"
	"github.com/andrewbergman/haplomapper/ETL/extractors"
	"github.com/andrewbergman/haplomapper/ETL/load"
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/transform"
	"github.com/andrewbergman/haplomapper/ETL/trend"
	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/go-co-op/gocron"
)

// ETLRunner координирует полный цикл ETL HaploMapper:
// извлечение входных файлов, разрешение и агрегацию, загрузку результатов
type ETLRunner struct {
	config      config.ETLConfig
	logger      *utils.ETLLogger
	extractor   *extractors.Extractor
	transformer *transform.Transformer
	loadManager *load.LoadManager
	etlLogRepo  models.ETLLogRepository
	db          *sql.DB
	dbCloser    func()
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner(cfg config.ETLConfig) (*ETLRunner, error) {
	// Валидация конфигурации — обязанность вызывающего, не движка
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("недопустимая конфигурация: %w", err)
	}

	// Инициализируем логгер
	logger := utils.NewETLLogger(cfg.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner HaploMapper")

	// Подключаемся к OLAP базе данных
	db, err := config.ConnectOLAP(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к OLAP базе данных: %w", err)
	}

	// Инициализируем репозиторий логов ETL
	etlLogRepo := models.NewMySQLETLLogRepository(db)

	// Создаем таблицу логов, если она еще не существует
	if err := etlLogRepo.CreateETLLogTable(); err != nil {
		config.CloseOLAP(db)
		return nil, fmt.Errorf("ошибка при создании таблицы логов ETL: %w", err)
	}

	return &ETLRunner{
		config:      cfg,
		logger:      logger,
		extractor:   extractors.NewExtractor(cfg.Sources, logger),
		transformer: transform.NewTransformer(cfg.BinWidth, cfg.MaxResolveRounds, logger),
		loadManager: load.NewLoadManager(db, cfg.OutputDir, logger),
		etlLogRepo:  etlLogRepo,
		db:          db,
		dbCloser:    func() { config.CloseOLAP(db) },
	}, nil
}

// Close закрывает соединение с базой данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	if r.dbCloser != nil {
		r.dbCloser()
	}
}

// ExecuteETL выполняет полный ETL процесс
func (r *ETLRunner) ExecuteETL() error {
	r.logger.LogETLStart()
	startTime := time.Now()

	// Создаем запись в журнале ETL
	logID, err := r.etlLogRepo.CreateLogEntry(startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		return fmt.Errorf("ошибка при создании записи в журнале ETL: %w", err)
	}

	// 1. Фаза извлечения данных (Extract)
	extractedData, err := r.extractor.Extract()
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Extract: %v", err)
		r.logger.Error(errMsg)
		r.updateRunLogFailure(logID, errMsg)
		return fmt.Errorf("ошибка в фазе Extract: %w", err)
	}

	// Если нет данных, завершаем процесс
	if len(extractedData.Records) == 0 {
		r.logger.Info("Нет записей для обработки")
		r.updateRunLogSuccess(logID, nil)
		return nil
	}

	// 2. Фаза трансформации данных (Transform)
	transformedData, err := r.transformer.Transform(extractedData)
	if err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Transform: %v", err)
		r.logger.Error(errMsg)
		r.updateRunLogFailure(logID, errMsg)
		return fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 3. Фаза загрузки данных (Load)
	if err := r.loadManager.Load(transformedData); err != nil {
		errMsg := fmt.Sprintf("Ошибка в фазе Load: %v", err)
		r.logger.Error(errMsg)
		r.updateRunLogFailure(logID, errMsg)
		return fmt.Errorf("ошибка в фазе Load: %w", err)
	}

	// 4. Расчет временных трендов частот; ошибка не прерывает процесс
	if err := trend.RunAsPartOfETL(r.db, r.logger, transformedData); err != nil {
		r.logger.Error("Ошибка при расчете трендов: %v", err)
	}

	// Обновляем запись в журнале с информацией об успешном выполнении
	r.updateRunLogSuccess(logID, transformedData)

	r.logger.LogETLComplete(startTime,
		transformedData.Metadata.RecordsProcessed,
		len(transformedData.SiteRows),
		len(transformedData.BinRows))
	return nil
}

// updateRunLogSuccess обновляет запись в журнале ETL при успешном завершении
func (r *ETLRunner) updateRunLogSuccess(logID int, data *models.TransformedData) {
	records, siteRows, binRows := 0, 0, 0
	yConverged, mtConverged := true, true

	if data != nil {
		records = data.Metadata.RecordsProcessed
		siteRows = len(data.SiteRows)
		binRows = len(data.BinRows)
		yConverged = data.Metadata.YConverged
		mtConverged = data.Metadata.MTConverged
	}

	if err := r.etlLogRepo.UpdateLogEntrySuccess(
		logID, time.Now(), records, siteRows, binRows, yConverged, mtConverged); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// updateRunLogFailure обновляет запись в журнале ETL при ошибке
func (r *ETLRunner) updateRunLogFailure(logID int, errorMessage string) {
	if err := r.etlLogRepo.UpdateLogEntryFailure(logID, time.Now(), errorMessage); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if err := r.ExecuteETL(); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})

	if err != nil {
		r.logger.Error("Ошибка при настройке планировщика: %v", err)
		return
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
}

// RunOnce запускает ETL процесс один раз
func RunOnce(cfg config.ETLConfig) {
	runner, err := NewETLRunner(cfg)
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	if err := runner.ExecuteETL(); err != nil {
		log.Fatalf("Ошибка при выполнении ETL: %v", err)
	}
}

// RunScheduled запускает ETL процесс по расписанию
func RunScheduled(cfg config.ETLConfig) {
	// Создаем контекст, который будет отменен при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Настраиваем обработку сигналов завершения
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// Запускаем горутину для обработки сигналов
	go func() {
		<-signalCh
		log.Println("Получен сигнал завершения. Останавливаем ETL Runner...")
		cancel()
	}()

	runner, err := NewETLRunner(cfg)
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	// Запускаем планировщик
	runner.StartScheduler(ctx)
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "once", "Режим работы: once или scheduled")
	binPtr := flag.Int("bin", config.DefaultETLConfig.BinWidth, "Ширина временного бина в годах (например, 100 или 1000)")
	roundsPtr := flag.Int("rounds", config.DefaultETLConfig.MaxResolveRounds, "Предел числа раундов разрешения гаплогрупп")
	annoPtr := flag.String("anno", config.DefaultSourceFiles.AnnotationFile, "Путь к файлу аннотации AADR")
	outPtr := flag.String("out", config.DefaultETLConfig.OutputDir, "Каталог для частотных таблиц CSV")

	flag.Parse()

	cfg := config.GetConfig()
	cfg.BinWidth = *binPtr
	cfg.MaxResolveRounds = *roundsPtr
	cfg.Sources.AnnotationFile = *annoPtr
	cfg.OutputDir = *outPtr

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	switch *modePtr {
	case "once":
		RunOnce(cfg)
	case "scheduled":
		RunScheduled(cfg)
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: once, scheduled")
		os.Exit(1)
	}

	log.Println("ETL Runner завершил работу")
}
