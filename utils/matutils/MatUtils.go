// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// RowMean compute and returns the mean of the rows of a matrix
func RowMean(matrix *mat.Dense) *mat.VecDense {
	r, _ := matrix.Dims()
	rowMeans := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMeans[i] = stat.Mean(matrix.RawRowView(i), nil)
	}
	return mat.NewVecDense(r, rowMeans)
}

// RowMax computes and returns the maximum of each row of a matrix
func RowMax(matrix *mat.Dense) *mat.VecDense {
	r, _ := matrix.Dims()
	rowMax := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMax[i] = floats.Max(matrix.RawRowView(i))
	}
	return mat.NewVecDense(r, rowMax)
}

// ChangedCols returns the number of columns of a in which at least one
// element differs from the corresponding element of b by more than
// tol. Both matrices must have the same dimensions.
func ChangedCols(a, b mat.Matrix, tol float64) int {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("changedCols: dimension mismatch (%d, %d) != "+
			"(%d, %d)", ar, ac, br, bc))
	}

	changed := 0
	for j := 0; j < ac; j++ {
		for i := 0; i < ar; i++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				changed++
				break
			}
		}
	}
	return changed
}
