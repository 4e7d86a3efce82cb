package signal

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdev returns the sample standard deviation (n-1 denominator),
// or 0 when fewer than two values are present.
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// percentile picks the element at index floor(q*n) from an ascending
// slice. This is the platform's fixed convention: no interpolation, and
// q=0.5 over ten elements lands on the sixth. Consumers depend on these
// exact values.
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(q * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
