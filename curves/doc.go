// Package curves implements the bezier geometry behind path rendering:
// cubic curve evaluation and subdivision, root finding against the
// curve basis, curve/curve intersection, and a graph representation of
// collided paths that can trace exterior boundaries and heal gaps in
// them.
//
// Geometry here is computed in float64. Intersection snapping and gap
// healing work at tolerances of a hundredth of a unit and below, which
// float32 cannot hold once coordinates reach canvas scale.
package curves
