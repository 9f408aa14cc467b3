// Package probability holds the stateless numeric primitives shared by all
// statistical estimators.
package probability

import (
	"math"
)

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
// A non-positive rate puts all mass on zero goals.
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda)
func PoissonCDF(lambda float64, k int) float64 {
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PoissonPMF(lambda, i)
	}
	return math.Min(1, sum)
}

// RateForOverProbability finds the Poisson rate whose P(X > line) equals
// overPct percent. Used to turn a single over/under price into a full set of lines.
func RateForOverProbability(overPct float64, line float64) float64 {
	target := clamp(overPct/100, 0.001, 0.999)
	k := int(math.Floor(line))

	lo, hi := 0.01, 10.0
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if 1-PoissonCDF(mid, k) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}
