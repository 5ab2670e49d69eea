package softmax

// Naive is the textbook three-pass softmax and the reference every other
// kernel is checked against.
func Naive(x []float32) {
	if len(x) == 0 {
		return
	}

	maxVal := maxRange(x)

	var sum float32
	for i, v := range x {
		e := expf(v - maxVal)
		x[i] = e
		sum += e
	}

	if sum > 0 {
		for i := range x {
			x[i] /= sum
		}
	}
}

// Handcoded is Naive written with raw indexed loops and a reciprocal
// multiply in place of the division.
func Handcoded(x []float32) {
	n := len(x)
	if n == 0 {
		return
	}

	maxVal := x[0]
	for i := 1; i < n; i++ {
		if x[i] > maxVal {
			maxVal = x[i]
		}
	}

	var sum float32
	for i := 0; i < n; i++ {
		e := expf(x[i] - maxVal)
		x[i] = e
		sum += e
	}

	if sum > 0 {
		recip := 1 / sum
		for i := 0; i < n; i++ {
			x[i] *= recip
		}
	}
}
