package utils

import (
	"math"
	"math/rand"
	"sort"
)

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Median returns the median of values, or false when values is empty.
// The input slice is not modified.
func Median(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// Mean returns the arithmetic mean of values, or false when values is empty
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// MinMax returns the smallest and largest of values, or false when values is empty
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// SampleIndices draws k distinct indices out of [0, n) uniformly at random
// using a fixed seed. The result is sorted ascending, so sampled rows keep
// their source order. If k >= n every index is returned.
func SampleIndices(n, k int, seed int64) []int {
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	if k <= 0 {
		return []int{}
	}

	rng := rand.New(rand.NewSource(seed))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	// partial Fisher-Yates: the first k slots end up a uniform sample
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	picked := perm[:k:k]
	sort.Ints(picked)
	return picked
}
