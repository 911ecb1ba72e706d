// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/canvas"
)

// Matrix is a 4x4 transformation matrix, stored row-major. Backends upload
// it with ColumnMajor, the layout GPU APIs expect.
type Matrix [4][4]float32

// IdentityMatrix returns the matrix that maps every point to itself.
func IdentityMatrix() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// MatrixFromTransform embeds a 2D canvas transform into a 4x4 matrix. The
// 2D translation column moves into the fourth column so points transform
// as homogeneous (x, y, 0, 1) vectors.
func MatrixFromTransform(t canvas.Transform2D) Matrix {
	return Matrix{
		{t[0][0], t[0][1], 0, t[0][2]},
		{t[1][0], t[1][1], 0, t[1][2]},
		{t[2][0], t[2][1], 1, t[2][2]},
		{0, 0, 0, 1},
	}
}

// Multiply composes two matrices, applying m after b.
func (m Matrix) Multiply(b Matrix) Matrix {
	var r Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// FlipY mirrors the matrix vertically. Render target textures have their
// origin at the opposite corner from the frame buffer, so plans that draw
// a target's texture apply this before sampling.
func (m Matrix) FlipY() Matrix {
	flip := Matrix{
		{1, 0, 0, 0},
		{0, -1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	return flip.Multiply(m)
}

// ColumnMajor returns the 16 matrix values in column-major order for
// upload to a GPU uniform.
func (m Matrix) ColumnMajor() [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row][col]
		}
	}
	return out
}

// Apply transforms a 2D point, treating it as (x, y, 0, 1).
func (m Matrix) Apply(x, y float32) (float32, float32) {
	ox := m[0][0]*x + m[0][1]*y + m[0][3]
	oy := m[1][0]*x + m[1][1]*y + m[1][3]
	return ox, oy
}
