package trend

import "time"

// TrendPoint представляет точку данных для расчета временного тренда
type TrendPoint struct {
	X      float64 // Нижняя граница временного периода в годах BP
	Y      float64 // Частота базальной гаплогруппы в бине (доля от общего счетчика)
	BinKey string  // Составной ключ бина, из которого взята точка
}

// TrendResult содержит результаты расчета линейного тренда частоты
// одной базальной гаплогруппы одного региона
type TrendResult struct {
	Region string // Регион (политическая единица)
	Track  string // Линия наследования: "y" или "mt"
	Letter string // Базальная буква

	A  float64 // Коэффициент наклона (изменение частоты на год BP)
	B  float64 // Сдвиг
	R  float64 // Коэффициент корреляции Пирсона
	R2 float64 // Коэффициент детерминации

	AgeStart float64 // Минимальный возраст в наборе точек
	AgeEnd   float64 // Максимальный возраст в наборе точек

	Points []TrendPoint // Исходные точки данных
}

// TrendRepository интерфейс для работы с хранилищем трендов
type TrendRepository interface {
	// EnsureTableExists создает таблицу трендов, если она не существует
	EnsureTableExists() error

	// SaveTrends сохраняет результаты расчета трендов
	SaveTrends(computedAt time.Time, trends []TrendResult) error

	// DeleteOldTrends удаляет результаты, рассчитанные раньше указанного времени
	DeleteOldTrends(olderThan time.Time) error
}
