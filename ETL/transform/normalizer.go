package transform

import "strings"

// NormalizeLabel очищает сырую строку классификации до ключа-кандидата.
// Отсекаются квалификаторы и аннотации субкладов (";", "-", "("),
// удаляются маркеры неуверенного определения ("~" и "*").
// Чистая функция: пустой или пробельный вход дает пустую строку.
func NormalizeLabel(raw string) string {
	label := raw

	if i := strings.Index(label, ";"); i >= 0 {
		label = label[:i]
	}
	if i := strings.Index(label, "-"); i >= 0 {
		label = label[:i]
	}
	if i := strings.Index(label, "("); i >= 0 {
		label = label[:i]
	}

	label = strings.ReplaceAll(label, "~", "")
	label = strings.ReplaceAll(label, "*", "")

	return strings.TrimSpace(label)
}
