package trend

import (
	"fmt"
	"math"
)

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// LinearTrend выполняет расчет линейной регрессии частоты по возрасту
// методом наименьших квадратов и возвращает коэффициенты тренда
func LinearTrend(points []TrendPoint) (*TrendResult, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("для расчета тренда требуется минимум 2 точки, получено: %d", len(points))
	}

	minAge := points[0].X
	maxAge := points[0].X
	for _, p := range points {
		if p.X < minAge {
			minAge = p.X
		}
		if p.X > maxAge {
			maxAge = p.X
		}
	}

	// Формулы метода наименьших квадратов:
	// a = (n*sum(x*y) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
	// b = (sum(y) - a*sum(x)) / n
	n := float64(len(points))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все возраста одинаковы, невозможно вычислить наклон")
	}

	a := (n*sumXY - sumX*sumY) / denominator
	b := (sumY - a*sumX) / n

	// Коэффициент корреляции Пирсона
	numerator := n*sumXY - sumX*sumY
	denominator = math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	var r float64
	if math.Abs(denominator) < 1e-10 {
		r = 0 // все частоты одинаковы
	} else {
		r = numerator / denominator
	}

	return &TrendResult{
		A:        RoundToThousandth(a),
		B:        RoundToThousandth(b),
		R:        RoundToThousandth(r),
		R2:       RoundToThousandth(r * r),
		AgeStart: minAge,
		AgeEnd:   maxAge,
		Points:   points,
	}, nil
}

// Predict прогнозирует частоту для заданного возраста на основе модели тренда
func Predict(result *TrendResult, age float64) float64 {
	return RoundToThousandth(result.A*age + result.B)
}
