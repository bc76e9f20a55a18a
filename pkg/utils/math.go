package utils

import "math"

// RoundDecimal rounds half away from zero to the given number of decimals,
// so RoundDecimal(1.23456, 3) is 1.235.
func RoundDecimal(value float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	pow := math.Pow10(decimals)
	return math.Round(value*pow) / pow
}
