package transform

import (
	"regexp"
	"sort"
	"strings"
)

// Регулярное выражение для нормализации последовательностей пробельных
// символов в одиночный табулятор
var spaceToTab = regexp.MustCompile(`\s+`)

// AliasTable представляет отображение ключа классификации либо на его
// непосредственного родителя (таблица иерархии), либо на эквивалентный ключ
// (таблица перекрестных ссылок). Таблица не изменяется после построения.
type AliasTable map[string]string

// BuildAliasTable строит таблицу алиасов из строк источника.
// keyIndex и valueIndex — индексы полей, из которых берутся ключ и значение.
// Строки с недостаточным количеством полей пропускаются без ошибки.
func BuildAliasTable(lines []string, keyIndex, valueIndex int) AliasTable {
	table := make(AliasTable)

	required := keyIndex
	if valueIndex > required {
		required = valueIndex
	}

	for _, line := range lines {
		// Нормализуем пробельные разделители к табулятору и разбиваем на поля
		normalized := spaceToTab.ReplaceAllString(strings.TrimSpace(line), "\t")
		parts := strings.Split(normalized, "\t")
		if len(parts) < required+1 {
			continue
		}

		key := strings.TrimSpace(parts[keyIndex])
		value := strings.TrimSpace(parts[valueIndex])
		table[key] = value
	}

	return table
}

// Invert возвращает обратное отображение значение → ключ.
// Отображение считается инъективным; при коллизиях побеждает
// лексикографически последний ключ, чтобы результат был детерминированным.
func (t AliasTable) Invert() AliasTable {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inverted := make(AliasTable, len(t))
	for _, key := range keys {
		inverted[t[key]] = key
	}
	return inverted
}
