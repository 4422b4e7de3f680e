package extractors

import (
	"strings"
	"testing"

	"github.com/andrewbergman/haplomapper/ETL/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annoHeader = "Master ID\tLat.\tLong.\t" + colAge + "\tPolitical Entity\t" +
	"Y haplogroup (manual curation in ISOGG format)\tmtDNA haplogroup if >2x or published\n"

func testLogger(t *testing.T) *utils.ETLLogger {
	chdirTemp(t)
	return utils.NewETLLogger(false)
}

func TestParseAnnotation(t *testing.T) {
	extractor := NewAnnotationExtractor(testLogger(t))

	input := annoHeader +
		"I001\t59.3\t18.1\t500\tSweden\tR1b1\tH2a\n" +
		"I002\t57,7\t11,9\t1200\tSweden\tI2a\tU5b\n"

	records, err := extractor.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "I001", records[0].MasterID)
	assert.Equal(t, 59.3, records[0].Lat)
	assert.Equal(t, 18.1, records[0].Lon)
	assert.Equal(t, 500.0, records[0].AgeBP)
	assert.True(t, records[0].HasAge)
	assert.Equal(t, "Sweden", records[0].Region)
	assert.Equal(t, "R1b1", records[0].YHaplogroup)
	assert.Equal(t, "H2a", records[0].MTHaplogroup)

	// Запятая как десятичный разделитель распознается
	assert.Equal(t, 57.7, records[1].Lat)
}

func TestParseAnnotationSkipsRowsWithoutCoordinates(t *testing.T) {
	extractor := NewAnnotationExtractor(testLogger(t))

	input := annoHeader +
		"I001\t..\t..\t500\tSweden\tR1b1\tH2a\n" +
		"I002\tneizvestno\t18.1\t500\tSweden\tR1b1\tH2a\n" +
		"I003\t59.3\t18.1\t500\tSweden\tR1b1\tH2a\n"

	records, err := extractor.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "I003", records[0].MasterID)
}

func TestParseAnnotationUnparseableAgeKeepsRecord(t *testing.T) {
	extractor := NewAnnotationExtractor(testLogger(t))

	// Возраст принимается только в виде целого числа из цифр
	input := annoHeader +
		"I001\t59.3\t18.1\t..\tSweden\tR1b1\tH2a\n" +
		"I002\t59.3\t18.1\t500 BP\tSweden\tR1b1\tH2a\n" +
		"I003\t59.3\t18.1\t1500\tSweden\tR1b1\tH2a\n"

	records, err := extractor.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.False(t, records[0].HasAge)
	assert.False(t, records[1].HasAge)
	assert.True(t, records[2].HasAge)
	assert.Equal(t, 1500.0, records[2].AgeBP)
}

func TestParseAnnotationMissingRequiredColumn(t *testing.T) {
	extractor := NewAnnotationExtractor(testLogger(t))

	input := "Master ID\tLat.\tLong.\n" + "I001\t59.3\t18.1\n"

	_, err := extractor.Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParseAnnotationMissingHaplogroupColumnsAllowed(t *testing.T) {
	extractor := NewAnnotationExtractor(testLogger(t))

	// Колонки гаплогрупп не обязательны: запись без них несет пустые метки
	input := "Master ID\tLat.\tLong.\t" + colAge + "\tPolitical Entity\n" +
		"I001\t59.3\t18.1\t500\tSweden\n"

	records, err := extractor.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].YHaplogroup)
	assert.Empty(t, records[0].MTHaplogroup)
}
