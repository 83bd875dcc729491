package rng

import (
	"math"

	"github.com/simgo/simgo/internal/simtime"
)

// Each distribution returns a restartable lazy sequence of samples as a
// func() simtime.T bound to the stream and its parameters — the
// caller invokes it once per sample (e.g. as an interarrival source).

// Uniform draws from [lo, hi).
func (s *Stream) Uniform(lo, hi float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		return simtime.New(lo+s.Float64()*(hi-lo), unit)
	}
}

// Exponential draws with the given rate (mean = 1/rate).
func (s *Stream) Exponential(rate float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		u := s.Float64()
		for u <= 0 {
			u = s.Float64()
		}
		return simtime.New(-math.Log(u)/rate, unit)
	}
}

// Normal draws from N(mean, stddev^2).
func (s *Stream) Normal(mean, stddev float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		return simtime.New(mean+stddev*s.normFloat64(), unit)
	}
}

// Lognormal draws exp(N(mu, sigma^2)).
func (s *Stream) Lognormal(mu, sigma float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		return simtime.New(math.Exp(mu+sigma*s.normFloat64()), unit)
	}
}

// Triangular draws from a triangular distribution on [lo, hi] with mode m.
func (s *Stream) Triangular(lo, m, hi float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		u := s.Float64()
		fm := (m - lo) / (hi - lo)
		var v float64
		if u < fm {
			v = lo + math.Sqrt(u*(hi-lo)*(m-lo))
		} else {
			v = hi - math.Sqrt((1-u)*(hi-lo)*(hi-m))
		}
		return simtime.New(v, unit)
	}
}

// Weibull draws with the given shape k and scale lambda.
func (s *Stream) Weibull(shape, scale float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		u := s.Float64()
		for u <= 0 {
			u = s.Float64()
		}
		return simtime.New(scale*math.Pow(-math.Log(u), 1/shape), unit)
	}
}

// Pareto draws with the given shape alpha and scale x_m.
func (s *Stream) Pareto(shape, scale float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		u := s.Float64()
		for u <= 0 {
			u = s.Float64()
		}
		return simtime.New(scale/math.Pow(u, 1/shape), unit)
	}
}

// Logistic draws from a logistic distribution with location mu and
// scale s_.
func (s *Stream) Logistic(mu, scale float64, unit simtime.Unit) func() simtime.T {
	return func() simtime.T {
		u := s.Float64()
		for u <= 0 || u >= 1 {
			u = s.Float64()
		}
		return simtime.New(mu+scale*math.Log(u/(1-u)), unit)
	}
}

// Geometric draws a count of Bernoulli(p) trials until (and including)
// the first success.
func (s *Stream) Geometric(p float64) func() int {
	return func() int {
		u := s.Float64()
		for u <= 0 {
			u = s.Float64()
		}
		n := int(math.Ceil(math.Log(1-u) / math.Log(1-p)))
		if n < 1 {
			n = 1
		}
		return n
	}
}

// Binomial draws the count of successes over n Bernoulli(p) trials.
func (s *Stream) Binomial(n int, p float64) func() int {
	return func() int {
		count := 0
		for i := 0; i < n; i++ {
			if s.Float64() < p {
				count++
			}
		}
		return count
	}
}

// Gamma draws from Gamma(shape, scale) via the Marsaglia-Tsang method
// (shape >= 1; shape < 1 is boosted via the standard shape+1 transform).
func (s *Stream) Gamma(shape, scale float64) func() float64 {
	return func() float64 { return s.gammaSample(shape) * scale }
}

func (s *Stream) gammaSample(shape float64) float64 {
	if shape < 1 {
		u := s.Float64()
		for u <= 0 {
			u = s.Float64()
		}
		return s.gammaSample(shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := s.normFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.Float64()
		if u <= 0 {
			continue
		}
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// Beta draws from Beta(alpha, beta) via the two-gamma-samples construction.
func (s *Stream) Beta(alpha, beta float64) func() float64 {
	return func() float64 {
		x := s.gammaSample(alpha)
		y := s.gammaSample(beta)
		return x / (x + y)
	}
}

// Wald draws from the inverse Gaussian distribution with mean mu and
// shape lambda, via the Michael-Schucany-Haas algorithm.
func (s *Stream) Wald(mu, lambda float64) func() float64 {
	return func() float64 {
		v := s.normFloat64()
		y := v * v
		x := mu + (mu*mu*y)/(2*lambda) - (mu/(2*lambda))*math.Sqrt(4*mu*lambda*y+mu*mu*y*y)
		u := s.Float64()
		if u <= mu/(mu+x) {
			return x
		}
		return mu * mu / x
	}
}
