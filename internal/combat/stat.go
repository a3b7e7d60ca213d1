package combat

import "math"

// Stat summarises Count samples by mean and population variance.
type Stat struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Count    int     `json:"count"`
}

func (s Stat) StdDev() float64 { return math.Sqrt(s.Variance) }

// lostFrom turns a stat over remaining values into one over values lost from
// a fixed starting amount. The spread is unchanged.
func (s Stat) lostFrom(initial float64) Stat {
	return Stat{Mean: initial - s.Mean, Variance: s.Variance, Count: s.Count}
}

// welford is an online mean/variance accumulator.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func constantWelford(x float64, n int) welford {
	if n <= 0 {
		return welford{}
	}
	return welford{n: n, mean: x}
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// merge folds o into w using the pairwise combine of Chan et al.
func (w *welford) merge(o welford) {
	if o.n == 0 {
		return
	}
	if w.n == 0 {
		*w = o
		return
	}
	n := w.n + o.n
	delta := o.mean - w.mean
	w.mean += delta * float64(o.n) / float64(n)
	w.m2 += o.m2 + delta*delta*float64(w.n)*float64(o.n)/float64(n)
	w.n = n
}

func (w welford) stat() Stat {
	if w.n == 0 {
		return Stat{}
	}
	variance := w.m2 / float64(w.n)
	if variance < 0 {
		variance = 0
	}
	return Stat{Mean: w.mean, Variance: variance, Count: w.n}
}
