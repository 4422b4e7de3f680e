package transform

import (
	"fmt"
	"strings"
)

// Границы временного домена в годах BP. Верхняя граница намеренно
// с запасом относительно текущих максимумов датасета, чтобы будущие
// пополнения AADR попадали в существующее разбиение.
const (
	binDomainStart = 0
	binDomainEnd   = 120000
)

// TimeBinner разбивает домен [0, 120000) на полуоткрытые интервалы
// заданной ширины без зазоров и перекрытий
type TimeBinner struct {
	width int
}

// NewTimeBinner создает новый экземпляр TimeBinner.
// Ширина бина должна быть положительной; валидация — обязанность вызывающего.
func NewTimeBinner(width int) *TimeBinner {
	return &TimeBinner{width: width}
}

// Label возвращает метку временного периода, содержащего возраст,
// в формате "<низ>-<верх-1>". Второе значение false, если возраст
// вне домена.
func (b *TimeBinner) Label(age float64) (string, bool) {
	if age < binDomainStart || age >= binDomainEnd {
		return "", false
	}

	low := (int(age) / b.width) * b.width
	return fmt.Sprintf("%d-%d", low, low+b.width-1), true
}

// BinKey строит составной ключ бина: "<регион> (<метка>BP)".
// Регионы с внутренними пробелами не разбиваются: формат вводит
// только литеральные скобки, без дополнительных разделителей.
func BinKey(region, label string) string {
	return fmt.Sprintf("%s (%sBP)", region, label)
}

// SplitBinKey восстанавливает регион и метку периода из составного ключа.
// Разбиение идет по ПОСЛЕДНЕМУ вхождению " (", чтобы корректно
// обрабатывать многословные названия регионов.
func SplitBinKey(key string) (region, label string, ok bool) {
	i := strings.LastIndex(key, " (")
	if i < 0 || !strings.HasSuffix(key, "BP)") {
		return "", "", false
	}

	return key[:i], key[i+2 : len(key)-3], true
}
