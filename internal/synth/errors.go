package synth

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned for degenerate shapes or kernel parameters.
var ErrInvalidParameter = errors.New("synth: invalid parameter")

func validateSize(name string, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s must be > 0: %d", ErrInvalidParameter, name, size)
	}
	return nil
}

func validateSigma(name string, sigma float64) error {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return fmt.Errorf("%w: %s must be finite and > 0: %v", ErrInvalidParameter, name, sigma)
	}
	return nil
}

func validateFinite(name string, values []float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s[%d] is not finite: %v", ErrInvalidParameter, name, i, v)
		}
	}
	return nil
}
