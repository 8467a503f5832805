// quantile/position.go
package quantile

import "math"

// Epsilon is the tolerance used by the discontinuous rules when testing
// whether a rank sits on an order statistic and whether PosH is zero.
const Epsilon = 1e-16

// Position maps quantile q of a sample of size n to the blend weight gamma and
// the 0-based index j of the left neighbour.
//
// Quantiles at or above 1 always map to (1, n-2), the last observation. The
// result is not meaningful for n < 2; callers answer single-element samples
// directly.
func (c Config) Position(q float64, n int) (gamma float64, j int) {
	if q >= 1 {
		return 1, n - 2
	}

	fn := float64(n)
	posTry := q*(fn+c.F1) + c.F2
	pos := posTry
	if posTry-c.PosH < 0 {
		pos = 0
	}
	k := math.Floor(pos)

	jk := 0.0
	if k > 0 {
		jk = k - float64(c.JDecrement)
	}
	j = int(jk)

	if c.Continuous {
		if pos < 1 || pos > fn {
			return 0, j
		}
		return pos - k, j
	}

	even := true
	if math.Abs(c.PosH) > Epsilon {
		even = int(k)%2 == 0
	}

	fk := k
	if c.NearestTiebreak {
		fk = (math.Ceil(pos) + k) / 2
	}

	if fk >= pos-Epsilon && even {
		gamma = c.GammaL
	} else {
		gamma = c.GammaR
	}
	if c.ZeroClamp && pos == 0 {
		gamma = 0
	}
	return gamma, j
}
