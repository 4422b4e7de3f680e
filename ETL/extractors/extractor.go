package extractors

import (
	"fmt"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/config"
	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Индексы полей ключа и значения в источниках алиасов.
// Файлы филогений несут пары (ребенок, родитель) в первых двух полях;
// файлы SNP/мутаций/локусов — имя гаплогруппы во втором поле и
// альтернативный идентификатор в четвертом.
const (
	phyloKeyIndex   = 0
	phyloValueIndex = 1
	snpKeyIndex     = 1
	snpValueIndex   = 3
)

// Extractor координирует процесс извлечения входных данных HaploMapper
type Extractor struct {
	sources             config.SourceFiles
	logger              *utils.ETLLogger
	annotationExtractor *AnnotationExtractor
	aliasExtractor      *AliasExtractor
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(sources config.SourceFiles, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		sources:             sources,
		logger:              logger,
		annotationExtractor: NewAnnotationExtractor(logger),
		aliasExtractor:      NewAliasExtractor(logger),
	}
}

// Extract выполняет извлечение всех входных данных для ETL процесса:
// записей аннотации и пяти источников алиасов
func (e *Extractor) Extract() (*models.ExtractedData, error) {
	startTime := time.Now()
	e.logger.LogExtractStart()

	var extracted models.ExtractedData
	var err error

	// Извлекаем записи аннотации
	extracted.Records, err = e.annotationExtractor.ExtractFile(e.sources.AnnotationFile)
	if err != nil {
		e.logger.Error("Ошибка при извлечении аннотации: %v", err)
		return nil, fmt.Errorf("ошибка извлечения аннотации: %w", err)
	}

	// Извлекаем источники алиасов отцовской линии
	extracted.YPhylo, err = e.aliasExtractor.ExtractFile(e.sources.YPhyloFile, "y_phylo", phyloKeyIndex, phyloValueIndex)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения филогении Y: %w", err)
	}

	extracted.YSNP, err = e.aliasExtractor.ExtractFile(e.sources.YSNPFile, "y_snp", snpKeyIndex, snpValueIndex)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения SNP Y: %w", err)
	}

	extracted.YLocus, err = e.aliasExtractor.ExtractFile(e.sources.YLocusFile, "y_locus", snpKeyIndex, snpValueIndex)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения локусов Y: %w", err)
	}

	// Извлекаем источники алиасов материнской линии
	extracted.MTPhylo, err = e.aliasExtractor.ExtractFile(e.sources.MTPhyloFile, "mt_phylo", phyloKeyIndex, phyloValueIndex)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения филогении МТ: %w", err)
	}

	extracted.MTMutation, err = e.aliasExtractor.ExtractFile(e.sources.MTMutationFile, "mt_mutation", snpKeyIndex, snpValueIndex)
	if err != nil {
		return nil, fmt.Errorf("ошибка извлечения мутаций МТ: %w", err)
	}

	// Записываем время запуска
	extracted.LastRunTS = time.Now()

	e.logger.LogExtractComplete(len(extracted.Records), 5, time.Since(startTime))

	return &extracted, nil
}
