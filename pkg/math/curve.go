package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Curve is an open centripetal Catmull-Rom spline through a list of points.
// The parameter t in [0, 1] is distributed uniformly over the segments, so
// Point(0) is the first point and Point(1) the last one.
type Curve struct {
	points []mgl32.Vec3
}

// NewCurve builds a curve through points. At least two points are required;
// with fewer the curve degenerates to a constant.
func NewCurve(points []mgl32.Vec3) *Curve {
	cp := make([]mgl32.Vec3, len(points))
	copy(cp, points)
	return &Curve{points: cp}
}

// Points returns a copy of the interpolated waypoints.
func (c *Curve) Points() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// Point samples the curve at t, clamped to [0, 1].
func (c *Curve) Point(t float32) mgl32.Vec3 {
	n := len(c.points)
	switch n {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return c.points[0]
	}

	t = Clamp(t, 0, 1)
	p := float32(n-1) * t
	seg := int(math32.Floor(p))
	weight := p - float32(seg)
	if seg >= n-1 {
		seg = n - 2
		weight = 1
	}

	p1 := c.points[seg]
	p2 := c.points[seg+1]

	var p0, p3 mgl32.Vec3
	if seg > 0 {
		p0 = c.points[seg-1]
	} else {
		// extrapolate before the first point
		p0 = c.points[0].Mul(2).Sub(c.points[1])
	}
	if seg+2 < n {
		p3 = c.points[seg+2]
	} else {
		p3 = c.points[n-1].Mul(2).Sub(c.points[n-2])
	}

	dt0 := math32.Pow(DistanceSq(p0, p1), 0.25)
	dt1 := math32.Pow(DistanceSq(p1, p2), 0.25)
	dt2 := math32.Pow(DistanceSq(p2, p3), 0.25)
	if dt1 < Epsilon {
		dt1 = 1
	}
	if dt0 < Epsilon {
		dt0 = dt1
	}
	if dt2 < Epsilon {
		dt2 = dt1
	}

	var out mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		out[axis] = nonUniformCubic(p0[axis], p1[axis], p2[axis], p3[axis], dt0, dt1, dt2, weight)
	}
	return out
}

// nonUniformCubic evaluates the Hermite form of a Catmull-Rom segment with
// knot intervals dt0, dt1, dt2 at parameter w in [0, 1].
func nonUniformCubic(x0, x1, x2, x3, dt0, dt1, dt2, w float32) float32 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2

	w2 := w * w
	return c0 + c1*w + c2*w2 + c3*w2*w
}
