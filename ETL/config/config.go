package config

import (
	"fmt"
	"time"
)

// SourceFiles содержит пути к входным файлам HaploMapper
type SourceFiles struct {
	// Файл аннотации AADR (табличный, с разделителем-табулятором)
	AnnotationFile string `json:"annotation_file"`

	// Источники алиасов отцовской линии
	YPhyloFile string `json:"y_phylo_file"`
	YSNPFile   string `json:"y_snp_file"`
	YLocusFile string `json:"y_locus_file"`

	// Источники алиасов материнской линии
	MTPhyloFile    string `json:"mt_phylo_file"`
	MTMutationFile string `json:"mt_mutation_file"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// ETLConfig содержит конфигурацию для ETL-процесса HaploMapper
type ETLConfig struct {
	// Входные файлы
	Sources SourceFiles `json:"sources"`

	// Ширина временного бина в годах (разрешение карты)
	BinWidth int `json:"bin_width"`

	// Предел числа раундов итеративного разрешения гаплогрупп
	MaxResolveRounds int `json:"max_resolve_rounds"`

	// Конфигурация для подключения к OLAP БД (целевой)
	OLAPConfig DatabaseConfig `json:"olap_config"`

	// Каталог для частотных таблиц CSV
	OutputDir string `json:"output_dir"`

	// Интервал запуска ETL по расписанию
	RunInterval time.Duration `json:"run_interval"`

	// Адрес веб-сервера
	ServerAddr string `json:"server_addr"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// Значения конфигурации по умолчанию
var (
	DefaultSourceFiles = SourceFiles{
		AnnotationFile: "./data/anno_file",
		YPhyloFile:     "./data/y_phylo",
		YSNPFile:       "./data/y_snp",
		YLocusFile:     "./data/y_locus",
		MTPhyloFile:    "./data/mt_phylo",
		MTMutationFile: "./data/mt_mutation",
	}

	DefaultOLAPConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
		DBName:   "haplo_analytics",
	}

	DefaultETLConfig = ETLConfig{
		Sources:               DefaultSourceFiles,
		BinWidth:              1000,
		MaxResolveRounds:      50,
		OLAPConfig:            DefaultOLAPConfig,
		OutputDir:             ".",
		RunInterval:           24 * time.Hour,
		ServerAddr:            ":8052",
		EnableDetailedLogging: true,
	}
)

// GetConfig возвращает конфигурацию ETL
func GetConfig() ETLConfig {
	return DefaultETLConfig
}

// Validate проверяет конфигурацию перед запуском движка.
// Недопустимая ширина бина или предел раундов — фатальная ошибка вызывающего,
// а не движка.
func (c ETLConfig) Validate() error {
	if c.BinWidth <= 0 {
		return fmt.Errorf("ширина бина должна быть положительной, получено: %d", c.BinWidth)
	}
	if c.MaxResolveRounds <= 0 {
		return fmt.Errorf("предел раундов разрешения должен быть положительным, получено: %d", c.MaxResolveRounds)
	}
	return nil
}
