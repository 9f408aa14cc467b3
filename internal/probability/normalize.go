package probability

import (
	"math"
)

// OddsToProbability converts decimal odds to an implied probability in percent.
// The bookmaker margin is not removed here; Normalize over the full market does that.
func OddsToProbability(odds float64) float64 {
	if odds <= 1 {
		return 0
	}
	return 1 / odds * 100
}

// Normalize scales values so they sum to 100. An all-zero input is split equally.
func Normalize(values ...float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	sum := 0.0
	for _, v := range values {
		if v > 0 {
			sum += v
		}
	}

	for i, v := range values {
		if sum == 0 {
			out[i] = 100 / float64(len(values))
			continue
		}
		out[i] = math.Max(0, v) / sum * 100
	}
	return out
}

// NormalizeRounded normalizes to 100 and rounds to one decimal. The rounding
// residual goes to the largest member so the result sums to exactly 100.0.
func NormalizeRounded(values ...float64) []float64 {
	out := Normalize(values...)
	if len(out) == 0 {
		return out
	}

	tenths := 0
	largest := 0
	for i := range out {
		out[i] = Round(out[i], 1)
		tenths += int(math.Round(out[i] * 10))
		if out[i] > out[largest] {
			largest = i
		}
	}
	if residual := 1000 - tenths; residual != 0 {
		out[largest] = Round(out[largest]+float64(residual)/10, 1)
	}
	return out
}

// Complement returns the rounded pair (p, 100-p)
func Complement(p float64) (float64, float64) {
	p = Round(clamp(p, 0, 100), 1)
	return p, Round(100-p, 1)
}

// Round rounds x to the given number of decimals
func Round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return clamp(x, lo, hi)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
