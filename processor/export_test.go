package processor

import (
	"strings"
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := []byte("Lat.,Long.,CombinedBins\n59.3,18.1,Sweden (0-999BP)\n")

	compressed := CompressExport(original)
	decompressed, err := DecompressExport(compressed)

	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestDecompressInvalidData(t *testing.T) {
	_, err := DecompressExport([]byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func testTransformedData() *models.TransformedData {
	return &models.TransformedData{
		SiteRows: []models.SiteFrequencyRow{{
			Lat: 59.3, Lon: 18.1, BinKey: "Sweden (0-999BP)",
			MasterID: "I001", Region: "Sweden",
			YCounts: map[string]int{"R": 1}, YTotal: 1,
		}},
		BinRows: []models.BinFrequencyRow{{
			BinKey:  "Sweden (0-999BP)",
			YCounts: map[string]int{"R": 1}, YTotal: 1,
		}},
		Schema: models.BasalSchema{YLetters: []string{"R"}},
	}
}

func TestExportRendersAndCaches(t *testing.T) {
	chdirTemp(t)
	cache := NewExportCache(utils.NewETLLogger(false))
	data := testTransformedData()

	first, err := cache.Export(ExportSites, data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(first), "Lat.,Long.,CombinedBins"))
	assert.Contains(t, string(first), "Sweden (0-999BP)")

	// Повторный запрос обслуживается из кэша и дает тот же результат
	second, err := cache.Export(ExportSites, data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportBins(t *testing.T) {
	chdirTemp(t)
	cache := NewExportCache(utils.NewETLLogger(false))

	out, err := cache.Export(ExportBins, testTransformedData())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "CombinedBins"))
}

func TestExportUnknownTable(t *testing.T) {
	chdirTemp(t)
	cache := NewExportCache(utils.NewETLLogger(false))

	_, err := cache.Export("unknown", testTransformedData())
	assert.Error(t, err)
}

func TestInvalidateClearsCache(t *testing.T) {
	chdirTemp(t)
	cache := NewExportCache(utils.NewETLLogger(false))

	data := testTransformedData()
	before, err := cache.Export(ExportSites, data)
	require.NoError(t, err)

	// После сброса кэша выгрузка отражает обновленные результаты
	cache.Invalidate()
	data.SiteRows[0].YTotal = 5

	after, err := cache.Export(ExportSites, data)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}
