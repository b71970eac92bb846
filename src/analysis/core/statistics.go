package core

import (
	"math"

	"price-movers/src/helpers"
)

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and population standard deviation (N denominator).
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	if len(data) == 1 {
		return mean, 0
	}

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(varianceSum / float64(len(data)))
}

// -----------------------------------------------------------------------------

// FindExtrema returns the indices of the first maximum and first minimum.
// Both are -1 for empty input.
func FindExtrema(data []float64) (maxIdx, minIdx int) {
	if len(data) == 0 {
		return -1, -1
	}
	for i, v := range data {
		if v > data[maxIdx] {
			maxIdx = i
		}
		if v < data[minIdx] {
			minIdx = i
		}
	}
	return maxIdx, minIdx
}

// -----------------------------------------------------------------------------

// CalculateZScore calculates Z-Score (Standard Score).
// A zero standard deviation yields helpers.ErrDivisionByZero, never Inf or NaN.
func CalculateZScore(value, mean, std float64) (float64, error) {
	if std == 0 {
		return 0, helpers.ErrDivisionByZero
	}
	return (value - mean) / std, nil
}
