package services

import "math"

// percentage returns numerator/denominator*100, or 0 when the denominator is zero.
func percentage(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(value float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}

// wholePercentage is percentage rounded to the nearest integer.
func wholePercentage(numerator, denominator int64) int {
	return int(math.Round(percentage(numerator, denominator)))
}

// completionRate rounds to two decimals first, then surfaces a whole percentage.
func completionRate(completed, started int64) int {
	return int(math.Round(roundTo(percentage(completed, started), 2)))
}

// mean returns sum/count rounded to two decimals, or 0 when count is zero.
func mean(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return roundTo(float64(sum)/float64(count), 2)
}
