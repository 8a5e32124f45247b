package quality

import (
	"fmt"
	"image/color"
	"math"
)

// Band is the visual quality bucket of an element for one metric
type Band uint8

const (
	// BandNone leaves the element uncolored: no band threshold matched, or no
	// metric was selected
	BandNone Band = iota
	BandExcellent
	BandGood
	BandPoor
	BandBad
	// BandInvalid is used for negative Jacobian ratios only
	BandInvalid
)

func (b Band) String() string {
	switch b {
	case BandNone:
		return "none"
	case BandExcellent:
		return "excellent"
	case BandGood:
		return "good"
	case BandPoor:
		return "poor"
	case BandBad:
		return "bad"
	case BandInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Band(%d)", uint8(b))
	}
}

var bandColors = map[Band]color.RGBA{
	BandExcellent: {R: 0x00, G: 0x80, B: 0x00, A: 0xff}, // green
	BandGood:      {R: 0xff, G: 0xff, B: 0x00, A: 0xff}, // yellow
	BandPoor:      {R: 0xff, G: 0xa5, B: 0x00, A: 0xff}, // orange
	BandBad:       {R: 0xff, G: 0x00, B: 0x00, A: 0xff}, // red
	BandInvalid:   {R: 0xff, G: 0x69, B: 0xb4, A: 0xff}, // hot pink
}

// Color returns the display color of the band; BandNone is fully transparent
func (b Band) Color() color.RGBA {
	return bandColors[b]
}

// Bands lists every band in display order
func Bands() []Band {
	return []Band{BandExcellent, BandGood, BandPoor, BandBad, BandInvalid, BandNone}
}

// thresholds are the strict lower bounds of Excellent, Good, Poor and Bad
var thresholds = map[Metric][4]float64{
	AspectRatioMetric:   {0.9, 0.7, 0.6, 0},
	SkewnessMetric:      {0.9, 0.75, 0.6, 0},
	JacobianRatioMetric: {0.8, 0.5, 0.03, 0},
}

// Classify buckets a metric value. Aspect Ratio and Skewness need v > 0 to be
// Bad; the Jacobian Ratio is Bad for v >= 0 and Invalid below 0. NaN and
// unknown metrics give BandNone.
func Classify(m Metric, v float64) Band {
	th, ok := thresholds[m]
	if !ok || math.IsNaN(v) {
		return BandNone
	}
	switch {
	case v > th[0]:
		return BandExcellent
	case v > th[1]:
		return BandGood
	case v > th[2]:
		return BandPoor
	case v > th[3]:
		return BandBad
	}
	if m == JacobianRatioMetric {
		if v >= th[3] {
			return BandBad
		}
		return BandInvalid
	}
	return BandNone
}

// ClassifyAll returns the band of every quality for the selected metric, or nil
// when m is not a valid metric
func ClassifyAll(qs []Quality, m Metric) []Band {
	if !m.Valid() {
		return nil
	}
	bands := make([]Band, len(qs))
	for i, q := range qs {
		bands[i] = Classify(m, q.Value(m))
	}
	return bands
}
