package transform

import (
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testExtractedData собирает минимальный набор входных данных:
// три образца из Швеции и один без возраста
func testExtractedData() *models.ExtractedData {
	return &models.ExtractedData{
		Records: []models.SampleRecord{
			{
				MasterID: "I001", Lat: 59.3, Lon: 18.1, AgeBP: 500, HasAge: true,
				Region: "Sweden", YHaplogroup: "R1b1", MTHaplogroup: "H2a",
			},
			{
				MasterID: "I002", Lat: 59.3, Lon: 18.1, AgeBP: 700, HasAge: true,
				Region: "Sweden", YHaplogroup: "I2a", MTHaplogroup: "U5b",
			},
			{
				MasterID: "I003", Lat: 57.7, Lon: 11.9, AgeBP: 1200, HasAge: true,
				Region: "Sweden", YHaplogroup: "M269", MTHaplogroup: "",
			},
			{
				MasterID: "I004", Lat: 40.0, Lon: 22.5, HasAge: false,
				Region: "Greece", YHaplogroup: "J2", MTHaplogroup: "K1a",
			},
		},
		YPhylo: models.AliasSource{
			Name:     "y_phylo",
			Lines:    []string{"R1b1\tR1b", "R1b\tR1", "R1\tR", "I2a\tI2", "I2\tI", "J2\tJ", "R\t#", "I\t#", "J\t#"},
			KeyIndex: 0, ValueIndex: 1,
		},
		YSNP: models.AliasSource{
			Name:     "y_snp",
			Lines:    []string{"1\tR1b1\tref\tM269"},
			KeyIndex: 1, ValueIndex: 3,
		},
		YLocus: models.AliasSource{
			Name:     "y_locus",
			Lines:    nil,
			KeyIndex: 0, ValueIndex: 1,
		},
		MTPhylo: models.AliasSource{
			Name:     "mt_phylo",
			Lines:    []string{"H2a\tH2", "H2\tH", "U5b\tU5", "U5\tU", "K1a\tK1", "K1\tK", "H\tRoot", "U\tRoot", "K\tRoot"},
			KeyIndex: 0, ValueIndex: 1,
		},
		MTMutation: models.AliasSource{
			Name:     "mt_mutation",
			Lines:    nil,
			KeyIndex: 0, ValueIndex: 1,
		},
	}
}

func TestTransformEndToEnd(t *testing.T) {
	chdirTemp(t)
	logger := utils.NewETLLogger(false)

	transformer := NewTransformer(1000, 50, logger)
	result, err := transformer.Transform(testExtractedData())
	require.NoError(t, err)

	// Схемы удержанных букв по линиям
	assert.Equal(t, []string{"I", "J", "R"}, result.Schema.YLetters)
	assert.Equal(t, []string{"H", "K", "U"}, result.Schema.MTLetters)

	// Разрешение обеих линий сошлось
	assert.True(t, result.Metadata.YConverged)
	assert.True(t, result.Metadata.MTConverged)
	assert.Equal(t, 0, result.Metadata.YUnresolved)
	assert.Equal(t, 4, result.Metadata.RecordsProcessed)

	// Две точки отбора Швеции в двух бинах; образец без возраста
	// не попадает в биннингованные таблицы
	require.Len(t, result.SiteRows, 2)

	first := result.SiteRows[0]
	assert.Equal(t, "Sweden (0-999BP)", first.BinKey)
	assert.Equal(t, 59.3, first.Lat)
	assert.Equal(t, map[string]int{"I": 1, "J": 0, "R": 1}, first.YCounts)
	assert.Equal(t, 2, first.YTotal)
	assert.Equal(t, map[string]int{"H": 1, "K": 0, "U": 1}, first.MTCounts)
	assert.Equal(t, 2, first.MTTotal)

	// M269 разрешается через обратное отображение SNP: M269 → R1b1 → ... → R
	second := result.SiteRows[1]
	assert.Equal(t, "Sweden (1000-1999BP)", second.BinKey)
	assert.Equal(t, 1, second.YCounts["R"])
	assert.Equal(t, 0, second.MTTotal)

	// Уровень бинов: две строки, суммы сохранены
	require.Len(t, result.BinRows, 2)
	assert.Equal(t, "Sweden (0-999BP)", result.BinRows[0].BinKey)
	assert.Equal(t, 2, result.BinRows[0].YTotal)
	assert.Equal(t, "Sweden (1000-1999BP)", result.BinRows[1].BinKey)
	assert.Equal(t, 1, result.BinRows[1].YTotal)

	// Наблюдения включают записи без бина
	assert.Len(t, result.Observations, 4)
}

func TestTransformRejectsInvalidBinWidth(t *testing.T) {
	chdirTemp(t)
	logger := utils.NewETLLogger(false)

	transformer := NewTransformer(0, 50, logger)
	_, err := transformer.Transform(testExtractedData())

	assert.Error(t, err)
}

func TestTransformEmptyRecords(t *testing.T) {
	chdirTemp(t)
	logger := utils.NewETLLogger(false)

	extracted := testExtractedData()
	extracted.Records = nil

	transformer := NewTransformer(1000, 50, logger)
	result, err := transformer.Transform(extracted)

	require.NoError(t, err)
	assert.Empty(t, result.SiteRows)
	assert.Empty(t, result.BinRows)
	assert.Empty(t, result.Observations)
}
