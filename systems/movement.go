package systems

// Mover integrates an ant's position toward its target.
type Mover interface {
	MoveToward(x, z, targetX, targetZ, speed, dt float64) (nx, nz float64)
}

// LinearMover walks in a straight line at constant speed and stops on the target.
type LinearMover struct{}

// MoveToward advances up to speed*dt toward the target without overshooting it.
func (LinearMover) MoveToward(x, z, targetX, targetZ, speed, dt float64) (float64, float64) {
	step := speed * dt
	if step <= 0 {
		return x, z
	}
	d := distance(x, z, targetX, targetZ)
	if d <= step {
		return targetX, targetZ
	}
	f := step / d
	return x + (targetX-x)*f, z + (targetZ-z)*f
}
