// Package math provides the geometric helpers the engine needs on top of mgl32:
// bounding boxes, interpolating curves and float32 scalar utilities.
package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for float32 comparisons.
const Epsilon = 1e-4

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Centroid returns the unweighted mean of the given points.
func Centroid(points ...mgl32.Vec3) mgl32.Vec3 {
	if len(points) == 0 {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(points)))
}

// DistanceSq returns the squared distance between a and b.
func DistanceSq(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}
