// Package stats keeps running statistics of benchmark samples.
package stats

import (
	"fmt"
	"math"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates samples with Welford's algorithm.
type Statistic struct {
	n    int
	last float64
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	s.last = val
	if s.n == 1 {
		s.mean, s.m2 = val, 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = min(s.min, val)
	s.max = max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the sample variance.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Min() float64    { return s.min }
func (s *Statistic) Max() float64    { return s.max }
func (s *Statistic) Last() float64   { return s.last }
func (s *Statistic) Iterations() int { return s.n }

// ConfidenceInterval returns the interval around the mean holding the true
// mean with the given confidence, in percent.
func (s *Statistic) ConfidenceInterval(confidence float64) (float64, float64) {
	h := ZVal(confidence) * s.StandardError()
	return s.mean - h, s.mean + h
}

// Summary formats the mean with its 95% confidence interval.
func (s *Statistic) Summary(unit string) string {
	lo, hi := s.ConfidenceInterval(95)
	return fmt.Sprintf("%.1f %s (95%%: %.1f - %.1f, min %.1f, max %.1f, n=%d)",
		s.mean, unit, lo, hi, s.min, s.max, s.n)
}
