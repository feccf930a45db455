package layout

import "math"

// Forces adjust velocities (centering adjusts positions) and run in this order every tick:
// links, many-body, centering, collision.

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// applyLinks pulls linked nodes toward LinkDistance. Each link's strength is
// 1/min(degree) and the correction is split by the endpoints' relative degree.
func (s *Simulation) applyLinks(alpha float64) {
	for _, l := range s.links {
		src, tgt := s.nodes[l.source], s.nodes[l.target]

		x := tgt.X + tgt.VX - src.X - src.VX
		if x == 0 {
			x = s.jiggle()
		}
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if y == 0 {
			y = s.jiggle()
		}

		d := math.Sqrt(x*x + y*y)
		k := (d - s.params.LinkDistance) / d * alpha * l.strength
		x *= k
		y *= k

		tgt.VX -= x * l.bias
		tgt.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}

// applyCharge is the pairwise many-body force. Distances under 1 are softened so
// overlapping nodes do not explode.
func (s *Simulation) applyCharge(alpha float64) {
	const distanceMin2 = 1.0
	strength := s.params.ChargeStrength

	for i, ni := range s.nodes {
		for j, nj := range s.nodes {
			if i == j {
				continue
			}
			x := nj.X - ni.X
			y := nj.Y - ni.Y
			l := x*x + y*y
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			w := strength * alpha / l
			ni.VX += x * w
			ni.VY += y * w
		}
	}
}

// applyCenter translates all nodes so their centroid moves to the canvas center
func (s *Simulation) applyCenter() {
	if len(s.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range s.nodes {
		sx += n.X
		sy += n.Y
	}
	n := float64(len(s.nodes))
	sx = (sx/n - s.width/2) * s.params.CenterStrength
	sy = (sy/n - s.height/2) * s.params.CenterStrength
	for _, node := range s.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// applyCollide separates nodes whose predicted positions overlap. Each pair is
// resolved once, the lighter (smaller) node moving more.
func (s *Simulation) applyCollide() {
	for i, ni := range s.nodes {
		ri := ni.Radius
		ri2 := ri * ri
		xi := ni.X + ni.VX
		yi := ni.Y + ni.VY

		for j := i + 1; j < len(s.nodes); j++ {
			nj := s.nodes[j]
			rj := nj.Radius
			r := ri + rj

			x := xi - nj.X - nj.VX
			y := yi - nj.Y - nj.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			k := (r - l) / l
			x *= k
			y *= k

			share := rj * rj / (ri2 + rj*rj)
			ni.VX += x * share
			ni.VY += y * share
			nj.VX -= x * (1 - share)
			nj.VY -= y * (1 - share)
		}
	}
}
