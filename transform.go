package canvas

import "github.com/chewxy/math32"

// Transform2D is a 2D transformation as a row-major 3x3 matrix. Affine
// transforms keep the last row at (0, 0, 1); the full matrix is carried so
// transforms survive serialisation exactly.
type Transform2D [3][3]float32

// IdentityMatrix is the transform that maps every point to itself.
var IdentityMatrix = Transform2D{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Translate returns a transform that moves points by (dx, dy).
func Translate(dx, dy float32) Transform2D {
	return Transform2D{
		{1, 0, dx},
		{0, 1, dy},
		{0, 0, 1},
	}
}

// Scale returns a transform that scales points around the origin.
func Scale(sx, sy float32) Transform2D {
	return Transform2D{
		{sx, 0, 0},
		{0, sy, 0},
		{0, 0, 1},
	}
}

// Rotate returns a transform that rotates points anticlockwise around the
// origin by an angle in radians.
func Rotate(radians float32) Transform2D {
	sin := math32.Sin(radians)
	cos := math32.Cos(radians)

	return Transform2D{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// RotateDegrees returns a transform that rotates points anticlockwise
// around the origin by an angle in degrees.
func RotateDegrees(degrees float32) Transform2D {
	return Rotate(degrees / 180 * math32.Pi)
}

// Multiply composes two transforms: applying the result is the same as
// applying b, then t.
func (t Transform2D) Multiply(b Transform2D) Transform2D {
	var res Transform2D
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			res[row][col] = t[row][0]*b[0][col] + t[row][1]*b[1][col] + t[row][2]*b[2][col]
		}
	}
	return res
}

// Transform applies the transform to a point.
func (t Transform2D) Transform(p Point) Point {
	x := t[0][0]*p.X + t[0][1]*p.Y + t[0][2]
	y := t[1][0]*p.X + t[1][1]*p.Y + t[1][2]
	w := t[2][0]*p.X + t[2][1]*p.Y + t[2][2]

	if w != 1 && w != 0 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// Invert returns the inverse transform, or false if the matrix is
// singular.
func (t Transform2D) Invert() (Transform2D, bool) {
	det := t[0][0]*(t[1][1]*t[2][2]-t[1][2]*t[2][1]) -
		t[0][1]*(t[1][0]*t[2][2]-t[1][2]*t[2][0]) +
		t[0][2]*(t[1][0]*t[2][1]-t[1][1]*t[2][0])

	if det == 0 {
		return Transform2D{}, false
	}
	inv := 1 / det

	return Transform2D{
		{
			(t[1][1]*t[2][2] - t[1][2]*t[2][1]) * inv,
			(t[0][2]*t[2][1] - t[0][1]*t[2][2]) * inv,
			(t[0][1]*t[1][2] - t[0][2]*t[1][1]) * inv,
		},
		{
			(t[1][2]*t[2][0] - t[1][0]*t[2][2]) * inv,
			(t[0][0]*t[2][2] - t[0][2]*t[2][0]) * inv,
			(t[0][2]*t[1][0] - t[0][0]*t[1][2]) * inv,
		},
		{
			(t[1][0]*t[2][1] - t[1][1]*t[2][0]) * inv,
			(t[0][1]*t[2][0] - t[0][0]*t[2][1]) * inv,
			(t[0][0]*t[1][1] - t[0][1]*t[1][0]) * inv,
		},
	}, true
}

// ScaleFactor returns the uniform scale the transform applies to the
// y axis, used to convert pixel measurements to canvas units.
func (t Transform2D) ScaleFactor() float32 {
	return math32.Sqrt(t[1][0]*t[1][0] + t[1][1]*t[1][1])
}

// IsIdentity reports whether the transform maps every point to itself.
func (t Transform2D) IsIdentity() bool {
	return t == IdentityMatrix
}
