package strategy

import "math"

// rollingMeanAt returns the mean of the window values ending at index i, or
// NaN when the window does not fit or contains a NaN cell.
func rollingMeanAt(values []float64, window, i int) float64 {
	if window <= 0 || i+1 < window || i >= len(values) {
		return math.NaN()
	}
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		if math.IsNaN(values[j]) {
			return math.NaN()
		}
		sum += values[j]
	}
	return sum / float64(window)
}

// meanStdev computes the mean and sample standard deviation over the non-NaN
// values of the series.
func meanStdev(values []float64) (mean, stdev float64) {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			mean += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	mean /= float64(n)
	if n < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
		}
	}
	return mean, math.Sqrt(ss / float64(n-1))
}

// relativeStrengthIndex computes the RSI over the last period price deltas
// using the plain mean of gains and losses. NaN when the series is too short
// or contains NaN cells, or when no price moved at all.
func relativeStrengthIndex(values []float64, period int) float64 {
	if len(values) < period+1 {
		return math.NaN()
	}
	var gainSum, lossSum float64
	for i := len(values) - period; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if math.IsNaN(delta) {
			return math.NaN()
		}
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
