package superpix

// jointDistanceSquared computes D^2 = dC^2 + (m/S)^2 * dS^2 per spec.md
// §4.2. mOverSSquared is (m/S)^2, precomputed once per Segment call.
func jointDistanceSquared(lp, ap, bp, xp, yp float64, c *center, mOverSSquared float64) float64 {
	dl := lp - c.L
	da := ap - c.A
	db := bp - c.B
	dc2 := dl*dl + da*da + db*db

	dx := xp - c.X
	dy := yp - c.Y
	ds2 := dx*dx + dy*dy

	return dc2 + mOverSSquared*ds2
}
