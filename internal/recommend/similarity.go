package recommend

import (
	"gonum.org/v1/gonum/floats"
)

// similarity returns a higher-is-better score between two vectors.
// Cosine is the raw cosine of the angle; Euclidean distance is mapped
// through 1/(1+d) so both metrics sort the same direction.
func similarity(metric Metric, a, b []float64) float64 {
	switch metric {
	case MetricEuclidean:
		return 1 / (1 + floats.Distance(a, b, 2))
	default: // MetricCosine
		na := floats.Norm(a, 2)
		nb := floats.Norm(b, 2)
		if na == 0 || nb == 0 {
			return 0
		}
		return floats.Dot(a, b) / (na * nb)
	}
}
