package predictor

// minMaxScaler maps values into [0,1] using the min/max seen at fit time.
// A constant series has zero range; Transform then maps everything to 0 and
// Inverse returns the fitted minimum.
type minMaxScaler struct {
	min    float64
	max    float64
	fitted bool
}

func (s *minMaxScaler) fit(xs []float64) {
	s.min, s.max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < s.min {
			s.min = x
		}
		if x > s.max {
			s.max = x
		}
	}
	s.fitted = true
}

func (s *minMaxScaler) transform(xs []float64) []float64 {
	out := make([]float64, len(xs))
	span := s.max - s.min
	for i, x := range xs {
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (x - s.min) / span
	}
	return out
}

func (s *minMaxScaler) inverse(v float64) float64 {
	span := s.max - s.min
	if span == 0 {
		return s.min
	}
	return v*span + s.min
}
