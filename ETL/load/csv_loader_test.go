package load

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/models"
	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *utils.ETLLogger {
	chdirTemp(t)
	return utils.NewETLLogger(false)
}

func testSchema() models.BasalSchema {
	return models.BasalSchema{
		YLetters:  []string{"I", "R"},
		MTLetters: []string{"H", "U"},
	}
}

func TestWriteSiteCSV(t *testing.T) {
	loader := NewCSVLoader("", testLogger(t))

	rows := []models.SiteFrequencyRow{{
		Lat:      59.3,
		Lon:      18.1,
		BinKey:   "Sweden (0-999BP)",
		MasterID: "I001",
		Region:   "Sweden",
		YCounts:  map[string]int{"I": 1, "R": 1},
		MTCounts: map[string]int{"H": 1, "U": 1},
		YTotal:   2,
		MTTotal:  2,
	}}

	var buf bytes.Buffer
	require.NoError(t, loader.WriteSiteCSV(&buf, rows, testSchema()))

	want := "Lat.,Long.,CombinedBins,Master ID,Political Entity," +
		"I_y_sum,R_y_sum,H_mt_sum,U_mt_sum,y_haplos_sum,mt_haplos_sum\n" +
		"59.3,18.1,Sweden (0-999BP),I001,Sweden,1,1,1,1,2,2\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteBinCSV(t *testing.T) {
	loader := NewCSVLoader("", testLogger(t))

	rows := []models.BinFrequencyRow{{
		BinKey:   "Sweden (0-999BP)",
		YCounts:  map[string]int{"I": 3, "R": 2},
		MTCounts: map[string]int{"H": 4, "U": 1},
		YTotal:   5,
		MTTotal:  5,
	}}

	var buf bytes.Buffer
	require.NoError(t, loader.WriteBinCSV(&buf, rows, testSchema()))

	want := "CombinedBins,I_y_sum,R_y_sum,H_mt_sum,U_mt_sum,y_haplos_sum,mt_haplos_sum\n" +
		"Sweden (0-999BP),3,2,4,1,5,5\n"
	assert.Equal(t, want, buf.String())
}

func TestSaveFrequencyTables(t *testing.T) {
	logger := testLogger(t)
	outputDir := t.TempDir()
	loader := NewCSVLoader(outputDir, logger)

	data := &models.TransformedData{
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

	require.NoError(t, loader.SaveFrequencyTables(data))

	siteData, err := os.ReadFile(filepath.Join(outputDir, "all_observations.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(siteData), "Sweden (0-999BP)")

	binData, err := os.ReadFile(filepath.Join(outputDir, "national_observations.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(binData), "y_haplos_sum")
}
