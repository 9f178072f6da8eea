package systems

import "math"

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, z1, x2, z2 float64) float64 {
	dx := x1 - x2
	dz := z1 - z2
	return dx*dx + dz*dz
}

// distance returns the Euclidean distance between two points.
func distance(x1, z1, x2, z2 float64) float64 {
	return math.Sqrt(distanceSq(x1, z1, x2, z2))
}

// segmentDistanceSq returns the squared distance from (px, pz) to the segment a-b.
func segmentDistanceSq(px, pz, ax, az, bx, bz float64) float64 {
	dx := bx - ax
	dz := bz - az
	lenSq := dx*dx + dz*dz
	if lenSq == 0 {
		return distanceSq(px, pz, ax, az)
	}
	t := ((px-ax)*dx + (pz-az)*dz) / lenSq
	t = clamp01(t)
	return distanceSq(px, pz, ax+t*dx, az+t*dz)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
