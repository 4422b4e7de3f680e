package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeBinnerLabel(t *testing.T) {
	binner := NewTimeBinner(1000)

	tests := []struct {
		age   float64
		want  string
		inDom bool
	}{
		{0, "0-999", true},
		{999, "0-999", true},
		{1000, "1000-1999", true},
		{1500, "1000-1999", true},
		{119999, "119000-119999", true},
		{-5, "", false},
		{120000, "", false},
		{250000, "", false},
	}

	for _, tt := range tests {
		label, ok := binner.Label(tt.age)
		assert.Equal(t, tt.inDom, ok, "возраст %v", tt.age)
		assert.Equal(t, tt.want, label, "возраст %v", tt.age)
	}
}

func TestTimeBinnerTilingHasNoGaps(t *testing.T) {
	// Смежные возрасты на границе бинов попадают в разные интервалы
	binner := NewTimeBinner(100)

	left, okL := binner.Label(199)
	right, okR := binner.Label(200)

	assert.True(t, okL)
	assert.True(t, okR)
	assert.Equal(t, "100-199", left)
	assert.Equal(t, "200-299", right)
}

func TestBinKey(t *testing.T) {
	assert.Equal(t, "Sweden (0-999BP)", BinKey("Sweden", "0-999"))
	assert.Equal(t, "Russian Federation (1000-1999BP)", BinKey("Russian Federation", "1000-1999"))
}

func TestSplitBinKey(t *testing.T) {
	region, label, ok := SplitBinKey("Sweden (0-999BP)")
	assert.True(t, ok)
	assert.Equal(t, "Sweden", region)
	assert.Equal(t, "0-999", label)

	// Многословный регион со скобками не ломает разбор:
	// используется последнее вхождение " ("
	region, label, ok = SplitBinKey("Congo (Kinshasa) (2000-2999BP)")
	assert.True(t, ok)
	assert.Equal(t, "Congo (Kinshasa)", region)
	assert.Equal(t, "2000-2999", label)
}

func TestSplitBinKeyInvalid(t *testing.T) {
	_, _, ok := SplitBinKey("Sweden")
	assert.False(t, ok)

	_, _, ok = SplitBinKey("Sweden (0-999)")
	assert.False(t, ok)
}

func TestBinKeyRoundTrip(t *testing.T) {
	key := BinKey("Papua New Guinea", "5000-5999")
	region, label, ok := SplitBinKey(key)

	assert.True(t, ok)
	assert.Equal(t, "Papua New Guinea", region)
	assert.Equal(t, "5000-5999", label)
}
