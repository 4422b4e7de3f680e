package transform

import (
	"fmt"
	"sync"
	"time"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Transformer координирует фазу Transform: построение таблиц алиасов,
// итеративное разрешение базальных гаплогрупп по обеим линиям, биннинг,
// кодирование, объединение линий и агрегацию в частотные таблицы
type Transformer struct {
	binWidth   int
	maxRounds  int
	logger     *utils.ETLLogger
	encoder    *BasalEncoder
	merger     *TrackMerger
	aggregator *FrequencyAggregator
}

// NewTransformer создает новый экземпляр Transformer.
// binWidth — ширина временного бина в годах; должна быть положительной.
func NewTransformer(binWidth, maxRounds int, logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		binWidth:   binWidth,
		maxRounds:  maxRounds,
		logger:     logger,
		encoder:    NewBasalEncoder(logger),
		merger:     NewTrackMerger(logger),
		aggregator: NewFrequencyAggregator(logger),
	}
}

// Transform выполняет полный процесс преобразования извлеченных данных
// в частотные таблицы
func (t *Transformer) Transform(extracted *models.ExtractedData) (*models.TransformedData, error) {
	if t.binWidth <= 0 {
		return nil, fmt.Errorf("недопустимая ширина бина: %d", t.binWidth)
	}

	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Преобразование данных)")

	// 1. Строим таблицы алиасов из источников
	t.logger.Info("Построение таблиц алиасов...")
	yHierarchy := BuildAliasTable(extracted.YPhylo.Lines, extracted.YPhylo.KeyIndex, extracted.YPhylo.ValueIndex)
	ySNPInverted := BuildAliasTable(extracted.YSNP.Lines, extracted.YSNP.KeyIndex, extracted.YSNP.ValueIndex).Invert()
	yLocus := BuildAliasTable(extracted.YLocus.Lines, extracted.YLocus.KeyIndex, extracted.YLocus.ValueIndex)
	mtHierarchy := BuildAliasTable(extracted.MTPhylo.Lines, extracted.MTPhylo.KeyIndex, extracted.MTPhylo.ValueIndex)
	mtMutationInverted := BuildAliasTable(extracted.MTMutation.Lines, extracted.MTMutation.KeyIndex, extracted.MTMutation.ValueIndex).Invert()

	// 2. Отбираем записи, несущие классификацию соответствующей линии
	yIndices, yLabels := trackSubset(extracted.Records, models.TrackY)
	mtIndices, mtLabels := trackSubset(extracted.Records, models.TrackMT)

	// 3. Разрешение базальных гаплогрупп. Линии независимы и работают
	// только с собственными таблицами, построенными выше и более
	// не изменяемыми, поэтому выполняются параллельно.
	t.logger.Info("Разрешение базальных гаплогрупп (Y: %d записей, МТ: %d записей)...", len(yLabels), len(mtLabels))
	yResolver := NewBasalResolver(yHierarchy, ySNPInverted, yLocus, t.maxRounds, t.logger)
	mtResolver := NewBasalResolver(mtHierarchy, mtMutationInverted, nil, t.maxRounds, t.logger)

	var yOutcome, mtOutcome ResolveOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		yOutcome = yResolver.ResolveBatch(yLabels)
	}()
	go func() {
		defer wg.Done()
		mtOutcome = mtResolver.ResolveBatch(mtLabels)
	}()
	wg.Wait()

	// 4. Схемы удержанных базальных букв — по одной на линию
	yLetters := t.encoder.Schema(yOutcome.Keys)
	mtLetters := t.encoder.Schema(mtOutcome.Keys)

	// 5. Биннинг и кодирование записей каждой линии
	binner := NewTimeBinner(t.binWidth)
	yEncoded := t.encodeTrack(extracted.Records, yIndices, yOutcome.Keys, yLetters, binner)
	mtEncoded := t.encodeTrack(extracted.Records, mtIndices, mtOutcome.Keys, mtLetters, binner)

	// 6. Внешнее объединение линий
	observations := t.merger.Merge(yEncoded, mtEncoded)

	// 7. Агрегация: по точкам отбора, затем по бинам
	siteRows := t.aggregator.AggregateSites(observations)
	binRows := t.aggregator.AggregateBins(siteRows)

	transformed := &models.TransformedData{
		Observations: observations,
		SiteRows:     siteRows,
		BinRows:      binRows,
		Schema: models.BasalSchema{
			YLetters:  yLetters,
			MTLetters: mtLetters,
		},
		Metadata: models.ETLMetadata{
			LastRunTimestamp: time.Now(),
			RecordsProcessed: len(extracted.Records),
			YRounds:          yOutcome.Rounds,
			MTRounds:         mtOutcome.Rounds,
			YConverged:       yOutcome.Converged,
			MTConverged:      mtOutcome.Converged,
			YUnresolved:      yOutcome.Unresolved,
			MTUnresolved:     mtOutcome.Unresolved,
		},
	}

	duration := time.Since(startTime)
	t.logger.Info("Фаза Transform завершена. Длительность: %v", duration)

	return transformed, nil
}

// trackSubset возвращает индексы записей с непустой классификацией линии
// и соответствующие сырые метки
func trackSubset(records []models.SampleRecord, track models.LineageTrack) ([]int, []string) {
	indices := make([]int, 0, len(records))
	labels := make([]string, 0, len(records))

	for i, rec := range records {
		raw := rec.YHaplogroup
		if track == models.TrackMT {
			raw = rec.MTHaplogroup
		}
		if raw == "" {
			continue
		}
		indices = append(indices, i)
		labels = append(labels, raw)
	}

	return indices, labels
}

// encodeTrack строит закодированные записи одной линии: ключ бина
// и счетчики по буквам схемы
func (t *Transformer) encodeTrack(records []models.SampleRecord, indices []int, keys []string, letters []string, binner *TimeBinner) []models.EncodedRecord {
	encoded := make([]models.EncodedRecord, 0, len(indices))

	for pos, idx := range indices {
		rec := records[idx]

		// Записи без разрешимого возраста или региона не получают бина
		binKey := ""
		if rec.HasAge && rec.Region != "" {
			if label, ok := binner.Label(rec.AgeBP); ok {
				binKey = BinKey(rec.Region, label)
			}
		}

		counts, total := t.encoder.Encode(keys[pos], letters)
		encoded = append(encoded, models.EncodedRecord{
			MasterID: rec.MasterID,
			Lat:      rec.Lat,
			Lon:      rec.Lon,
			Region:   rec.Region,
			BinKey:   binKey,
			Basal:    keys[pos],
			Counts:   counts,
			Total:    total,
		})
	}

	return encoded
}
