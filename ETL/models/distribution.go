package models

import "sort"

// BasalColors задает фиксированную палитру для базальных гаплогрупп,
// чтобы цвет каждой буквы был стабилен между запусками и между картами
var BasalColors = map[string]string{
	"A": "#3182bd",
	"B": "#3182bd",
	"C": "#6baed6",
	"D": "#9ecae1",
	"E": "#c6dbef",
	"F": "#e6550d",
	"G": "#e6550d",
	"H": "#fd8d3c",
	"I": "#fdae6b",
	"J": "#fdd0a2",
	"K": "#31a354",
	"L": "#31a354",
	"M": "#74c476",
	"N": "#a1d99b",
	"O": "#c7e9c0",
	"P": "#756bb1",
	"Q": "#756bb1",
	"R": "#9e9ac8",
	"S": "#bcbddc",
	"T": "#dadaeb",
	"U": "#636363",
	"V": "#636363",
	"W": "#969696",
	"X": "#bdbdbd",
	"Y": "#d9d9d9",
	"Z": "#d9d9d9",
}

// defaultBasalColor используется для букв вне палитры
const defaultBasalColor = "#d9d9d9"

// HaplogroupShare представляет долю базальной гаплогруппы в выборке
type HaplogroupShare struct {
	Haplogroup string  `json:"haplogroup"`
	Count      int     `json:"count"`
	Frequency  float64 `json:"frequency"`
	Color      string  `json:"color"`
}

// SharesFromCounts преобразует карту счетчиков базальных гаплогрупп
// в отсортированный список долей с цветами палитры.
// Нулевые счетчики опускаются; нулевая сумма дает пустой список.
func SharesFromCounts(counts map[string]int) []HaplogroupShare {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return []HaplogroupShare{}
	}

	letters := make([]string, 0, len(counts))
	for letter, c := range counts {
		if c > 0 {
			letters = append(letters, letter)
		}
	}
	sort.Strings(letters)

	shares := make([]HaplogroupShare, 0, len(letters))
	for _, letter := range letters {
		color, ok := BasalColors[letter]
		if !ok {
			color = defaultBasalColor
		}
		shares = append(shares, HaplogroupShare{
			Haplogroup: letter,
			Count:      counts[letter],
			Frequency:  float64(counts[letter]) / float64(total),
			Color:      color,
		})
	}

	return shares
}
