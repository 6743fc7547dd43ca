package service

import (
	"math"

	"github.com/smartcity/accidents/internal/domain"
	"github.com/smartcity/accidents/pkg/utils"
)

// Fallback colors used when a basis has no usable range
var (
	SeverityDefaultColor     = domain.RGBA{128, 128, 128, 160}
	TemperatureFallbackColor = domain.RGBA{100, 100, 255, 160}
	VisibilityFallbackColor  = domain.RGBA{100, 255, 100, 160}
)

// nullChannel fills a channel whose basis value is missing
const nullChannel = 128

// Bounds are the normalization limits of one batch
type Bounds struct {
	Min, Max float64
	Valid    bool
}

// BoundsOf computes the min/max of the non-null values
func BoundsOf(values []*float64) Bounds {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil && utils.IsFinite(*v) {
			present = append(present, *v)
		}
	}
	lo, hi, ok := utils.MinMax(present)
	return Bounds{Min: lo, Max: hi, Valid: ok}
}

// SeverityColor looks up the fixed severity palette
func SeverityColor(severity *int) domain.RGBA {
	if severity == nil {
		return SeverityDefaultColor
	}
	if c, ok := domain.SeverityColors[*severity]; ok {
		return c
	}
	return SeverityDefaultColor
}

// TemperatureColor maps cold to blue and hot to red over the batch range
func TemperatureColor(value *float64, b Bounds) domain.RGBA {
	if !b.Valid || b.Max <= b.Min {
		return TemperatureFallbackColor
	}
	if value == nil || !utils.IsFinite(*value) {
		return domain.RGBA{nullChannel, 100, nullChannel, 160}
	}
	n := (*value - b.Min) / (b.Max - b.Min)
	return domain.RGBA{channel(n), 100, channel(1 - n), 160}
}

// VisibilityColor blends red, yellow and green as visibility rises
func VisibilityColor(value *float64, b Bounds) domain.RGBA {
	if !b.Valid || b.Max <= 0 {
		return VisibilityFallbackColor
	}
	if value == nil || !utils.IsFinite(*value) {
		return domain.RGBA{nullChannel, nullChannel, nullChannel, 200}
	}
	n := *value / b.Max
	return domain.RGBA{channel(1 - n), channel(math.Min(2*n, 2*(1-n))), channel(n), 200}
}

// channel scales a [0,1] intensity to 0..255, truncating like an int cast
func channel(n float64) uint8 {
	return uint8(utils.Clamp(math.Trunc(utils.Lerp(0, 255, n)), 0, 255))
}
