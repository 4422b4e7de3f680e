package transform

import (
	"github.com/andrewbergman/haplomapper/ETL/utils"
)

// Sentinel — зарезервированное значение для классификации, которую
// невозможно разрешить дальше
const Sentinel = "n/a"

// DefaultMaxRounds — предел числа раундов итеративного разрешения.
// Предел нужен, потому что таблицы алиасов могут содержать циклы или
// висячие ссылки; достижение предела не является ошибкой.
const DefaultMaxRounds = 50

// Маркеры отсутствия родителя в таблице иерархии (корень дерева)
var noParentMarkers = map[string]bool{
	"#":    true,
	"Root": true,
}

// BasalResolver сводит ключи классификации всей партии записей к базальным
// (однобуквенным) гаплогруппам, итеративно подставляя ключи через
// приоритетную цепочку таблиц алиасов
type BasalResolver struct {
	hierarchy AliasTable // таблица иерархии: ключ → родитель
	crossRef  AliasTable // инвертированная таблица перекрестных ссылок (SNP)
	secondary AliasTable // вторичная таблица перекрестных ссылок (локусы); может быть nil
	maxRounds int
	logger    *utils.ETLLogger
}

// ResolveOutcome содержит результат разрешения партии:
// разрешенные ключи и сведения о сходимости
type ResolveOutcome struct {
	Keys       []string // базальная буква, сентинел или частично разрешенный ключ
	Rounds     int      // количество выполненных раундов
	Converged  bool     // false, если достигнут предел раундов
	Unresolved int      // количество ключей, не сведенных к одной букве
}

// NewBasalResolver создает новый экземпляр BasalResolver.
// Если maxRounds <= 0, используется DefaultMaxRounds.
func NewBasalResolver(hierarchy, crossRef, secondary AliasTable, maxRounds int, logger *utils.ETLLogger) *BasalResolver {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &BasalResolver{
		hierarchy: hierarchy,
		crossRef:  crossRef,
		secondary: secondary,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// ResolveBatch сводит сырые классификации партии к базальным ключам.
// Обновления каждого раунда вычисляются по снимку состояния предыдущего
// раунда: чтение из неизменяемого буфера, запись в свежий, обмен в конце
// раунда. Ни одно обновление не видит обновлений того же раунда.
func (r *BasalResolver) ResolveBatch(labels []string) ResolveOutcome {
	current := make([]string, len(labels))
	for i, raw := range labels {
		current[i] = NormalizeLabel(raw)
	}
	next := make([]string, len(labels))

	rounds := 0
	for rounds < r.maxRounds && !allResolved(current) {
		copy(next, current)

		for i, key := range current {
			// Сентинел и ключи длиной <= 1 больше не изменяются
			if len(key) <= 1 || key == Sentinel {
				continue
			}
			next[i] = r.step(key)
		}

		// Обмен буферов: снимок раунда становится текущим состоянием
		current, next = next, current
		rounds++
	}

	converged := allResolved(current)
	unresolved := 0
	for _, key := range current {
		if len(key) > 1 && key != Sentinel {
			unresolved++
		}
	}

	if r.logger != nil {
		if converged {
			r.logger.Debug("Разрешение базальных гаплогрупп сошлось за %d раундов (не разрешено: %d)", rounds, unresolved)
		} else {
			r.logger.Info("Достигнут предел %d раундов разрешения; частично разрешенных ключей: %d", r.maxRounds, unresolved)
		}
	}

	return ResolveOutcome{
		Keys:       current,
		Rounds:     rounds,
		Converged:  converged,
		Unresolved: unresolved,
	}
}

// step выполняет одну подстановку ключа через приоритетную цепочку таблиц
func (r *BasalResolver) step(key string) string {
	// 1. Таблица иерархии: подставляем родителя, если он не маркер корня
	if parent, ok := r.hierarchy[key]; ok && !noParentMarkers[parent] {
		return parent
	}

	// 2. Обратное отображение таблицы перекрестных ссылок
	if alias, ok := r.crossRef[key]; ok {
		return alias
	}

	// 3. Вторичная таблица перекрестных ссылок
	if r.secondary != nil {
		if alias, ok := r.secondary[key]; ok {
			return alias
		}
	}

	// 4. Разрешение невозможно
	return Sentinel
}

// allResolved сообщает, все ли ключи имеют длину <= 1 или равны сентинелу
func allResolved(keys []string) bool {
	for _, key := range keys {
		if len(key) > 1 && key != Sentinel {
			return false
		}
	}
	return true
}
