package utils

import "math"

// RoundWithTwoDecimalPlace arredonda valores monetários para centavos
func RoundWithTwoDecimalPlace(f float64) float64 {
	return math.Round(f*100) / 100
}

// SumCents soma valores monetários em centavos inteiros
func SumCents(values ...float64) float64 {
	var cents int64
	for _, v := range values {
		cents += int64(math.Round(v * 100))
	}
	return float64(cents) / 100
}
