package algorithm

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

//*******************************************
// non-negative least squares
//*******************************************

// SolveNNLS solves min ||A*x - b|| subject to x >= 0 using the active-set
// method of Lawson and Hanson. A has one row per observation and one column
// per unknown.
func SolveNNLS(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	rows, cols := a.Dims()
	if b.Len() != rows {
		return nil, errors.New("dimension mismatch between matrix and rhs")
	}

	const tolerance = 1e-10
	max_iter := 3 * cols

	x := make([]float64, cols)
	passive := make([]bool, cols)

	residual := mat.NewVecDense(rows, nil)
	gradient := mat.NewVecDense(cols, nil)

	compute_gradient := func() {
		xv := mat.NewVecDense(cols, x)
		residual.MulVec(a, xv)
		residual.SubVec(b, residual)
		gradient.MulVec(a.T(), residual)
	}

	// solve the unconstrained subproblem restricted to the passive columns
	solve_passive := func() ([]float64, error) {
		indices := make([]int, 0, cols)
		for j := 0; j < cols; j++ {
			if passive[j] {
				indices = append(indices, j)
			}
		}
		if len(indices) == 0 {
			return nil, nil
		}
		sub := mat.NewDense(rows, len(indices), nil)
		for i := 0; i < rows; i++ {
			for k, j := range indices {
				sub.Set(i, k, a.At(i, j))
			}
		}
		var sol mat.VecDense
		if err := sol.SolveVec(sub, b); err != nil {
			return nil, err
		}
		z := make([]float64, cols)
		for k, j := range indices {
			z[j] = sol.AtVec(k)
		}
		return z, nil
	}

	for iter := 0; iter < max_iter; iter++ {
		compute_gradient()

		// pick the most violated active constraint
		best := -1
		best_w := tolerance
		for j := 0; j < cols; j++ {
			if passive[j] {
				continue
			}
			if w := gradient.AtVec(j); w > best_w {
				best_w = w
				best = j
			}
		}
		if best < 0 {
			break
		}
		passive[best] = true

		for {
			z, err := solve_passive()
			if err != nil {
				return nil, err
			}
			feasible := true
			for j := 0; j < cols; j++ {
				if passive[j] && z[j] <= tolerance {
					feasible = false
					break
				}
			}
			if feasible {
				copy(x, z)
				break
			}
			// step towards z until the first passive component hits zero
			alpha := 1.0
			for j := 0; j < cols; j++ {
				if passive[j] && z[j] <= tolerance {
					if step := x[j] / (x[j] - z[j]); step < alpha {
						alpha = step
					}
				}
			}
			for j := 0; j < cols; j++ {
				x[j] += alpha * (z[j] - x[j])
				if passive[j] && x[j] <= tolerance {
					x[j] = 0
					passive[j] = false
				}
			}
		}
	}

	return x, nil
}
