package transform

import (
	"sort"

	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// BasalEncoder кодирует разрешенные базальные ключи в числовые счетчики:
// индикатор на каждую удержанную букву плюс общий счетчик записи
type BasalEncoder struct {
	logger *utils.ETLLogger
}

// NewBasalEncoder создает новый экземпляр BasalEncoder
func NewBasalEncoder(logger *utils.ETLLogger) *BasalEncoder {
	return &BasalEncoder{logger: logger}
}

// retained сообщает, участвует ли разрешенный ключ в частотных таблицах.
// Исключаются пустые ключи, семейство сентинела (префикс 'n')
// и ключи, начинающиеся с небуквенного символа.
func retained(key string) bool {
	if key == "" {
		return false
	}

	first := key[0]
	if first == 'n' {
		return false
	}

	isAlpha := (first >= 'A' && first <= 'Z') || (first >= 'a' && first <= 'z')
	return isAlpha
}

// Schema вычисляет явную схему линии: отсортированный набор первых букв
// удержанных ключей. Схема вычисляется один раз после разрешения; группировка
// по первой букве устойчива к многобуквенным ключам, пережившим предел
// раундов с длиной 1 уже достигнутой на другом уровне иерархии.
func (e *BasalEncoder) Schema(keys []string) []string {
	seen := make(map[string]bool)
	for _, key := range keys {
		if !retained(key) {
			continue
		}
		seen[string(key[0])] = true
	}

	letters := make([]string, 0, len(seen))
	for letter := range seen {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	if e.logger != nil {
		e.logger.Debug("Схема базальных букв: %v", letters)
	}

	return letters
}

// Encode кодирует один разрешенный ключ по схеме букв линии.
// Возвращает счетчики по буквам (0/1 на букву) и общий счетчик записи,
// равный сумме счетчиков по буквам.
func (e *BasalEncoder) Encode(key string, letters []string) (map[string]int, int) {
	counts := make(map[string]int, len(letters))
	for _, letter := range letters {
		counts[letter] = 0
	}

	total := 0
	if retained(key) {
		letter := string(key[0])
		if _, ok := counts[letter]; ok {
			counts[letter] = 1
			total = 1
		}
	}

	return counts, total
}
