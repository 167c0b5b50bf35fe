package force

import (
	"math"

	"github.com/matzehuels/kgforce/pkg/layout"
)

// goldenAngle spreads the fallback directions of coincident pairs so that
// no two pairs are pushed along the same axis.
const goldenAngle = 2.399963229728653

// StepStats summarizes one frame.
type StepStats struct {
	// Energy is the kinetic energy Σ½|v|² of the free nodes after the frame.
	Energy float64

	// MaxSpeed is the largest |v| of any free node after the frame.
	MaxSpeed float64
}

// Step advances s by one frame.
//
// Step only mutates s. Every force is computed from the positions s held on
// entry, so no node sees another node's updated position within a frame.
// Fixed nodes take part in the force terms but keep their position and a
// zero velocity. When the viewport is not valid, centering and the boundary
// clamp are skipped.
func Step(s *layout.State, p Params) StepStats {
	if s == nil || s.Empty() {
		return StepStats{}
	}
	p = withDefaults(p)
	vp := s.Viewport
	bounded := vp.Valid()

	sanitize(s)

	// 1. Velocity decay
	for _, n := range s.Nodes {
		n.VX *= p.Damping
		n.VY *= p.Damping
	}

	index := make(map[*layout.Node]int, len(s.Nodes))
	for i, n := range s.Nodes {
		index[n] = i
	}

	// 2. Link springs
	for _, e := range s.Edges {
		if e.IsSelfLoop() {
			continue
		}
		src, dst := e.Source, e.Target
		ux, uy, d := direction(src.X-dst.X, src.Y-dst.Y, index[src], index[dst], p.MinDistance)
		k := p.LinkStrength
		if p.WeightedLinks {
			k *= e.Weight
		}
		f := (d - p.LinkDistance) * k
		fx, fy := f*ux, f*uy
		src.VX -= fx
		src.VY -= fy
		dst.VX += fx
		dst.VY += fy
	}

	// 3. Pairwise repulsion
	for i, a := range s.Nodes {
		for j := i + 1; j < len(s.Nodes); j++ {
			b := s.Nodes[j]
			ux, uy, d := direction(b.X-a.X, b.Y-a.Y, i, j, p.MinDistance)
			f := p.ChargeStrength / (d * d)
			fx, fy := f*ux, f*uy
			a.VX += fx
			a.VY += fy
			b.VX -= fx
			b.VY -= fy
		}
	}

	// 4. Centering
	if bounded && p.CenterStrength > 0 {
		cx, cy := vp.Center()
		if p.CenterMode == CenterNode {
			for _, n := range s.Nodes {
				n.VX += (cx - n.X) * p.CenterStrength
				n.VY += (cy - n.Y) * p.CenterStrength
			}
		} else {
			mx, my := centroid(s.Nodes)
			dx, dy := (cx-mx)*p.CenterStrength, (cy-my)*p.CenterStrength
			for _, n := range s.Nodes {
				n.VX += dx
				n.VY += dy
			}
		}
	}

	// 5. Integration, 6. boundary clamp
	var stats StepStats
	for _, n := range s.Nodes {
		if n.Fixed {
			n.VX, n.VY = 0, 0
			continue
		}
		px, py := n.X, n.Y
		n.X += n.VX * p.Alpha
		n.Y += n.VY * p.Alpha
		if !finite(n.X) || !finite(n.VX) {
			n.X, n.VX = px, 0
		}
		if !finite(n.Y) || !finite(n.VY) {
			n.Y, n.VY = py, 0
		}
		if bounded {
			n.X, n.Y = Clamp(vp, n.Radius, n.X, n.Y)
		}

		v2 := n.VX*n.VX + n.VY*n.VY
		stats.Energy += v2 / 2
		stats.MaxSpeed = math.Max(stats.MaxSpeed, math.Sqrt(v2))
	}
	return stats
}

// Clamp restricts (x, y) to [r, dimension−r] on both axes of vp. An axis
// too small to hold the radius collapses to its midpoint.
func Clamp(vp layout.Viewport, r, x, y float64) (float64, float64) {
	return clampAxis(x, r, vp.Width), clampAxis(y, r, vp.Height)
}

func clampAxis(v, r, dim float64) float64 {
	lo, hi := r, dim-r
	if lo > hi {
		return dim / 2
	}
	return math.Min(math.Max(v, lo), hi)
}

// direction returns the unit vector along (dx, dy) and the guarded distance.
// Coincident endpoints get a fixed direction derived from their indices so
// that they separate instead of staying stuck at zero force.
func direction(dx, dy float64, i, j int, minDist float64) (ux, uy, d float64) {
	raw := math.Hypot(dx, dy)
	if raw == 0 {
		angle := float64(i*31+j) * goldenAngle
		return math.Cos(angle), math.Sin(angle), minDist
	}
	return dx / raw, dy / raw, math.Max(raw, minDist)
}

func centroid(nodes []*layout.Node) (float64, float64) {
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	k := float64(len(nodes))
	return sx / k, sy / k
}

// sanitize repairs non-finite input so that it cannot spread through the
// force terms: positions move to the viewport center, velocities reset.
func sanitize(s *layout.State) {
	cx, cy := s.Viewport.Center()
	for _, n := range s.Nodes {
		if !finite(n.X) {
			n.X = cx
		}
		if !finite(n.Y) {
			n.Y = cy
		}
		if !finite(n.VX) {
			n.VX = 0
		}
		if !finite(n.VY) {
			n.VY = 0
		}
	}
}

// withDefaults replaces out-of-range constants that would break the
// integration with their defaults.
func withDefaults(p Params) Params {
	if p.IsZero() {
		return DefaultParams()
	}
	def := DefaultParams()
	if !(p.MinDistance > 0) || !finite(p.MinDistance) {
		p.MinDistance = def.MinDistance
	}
	if !finite(p.Damping) || p.Damping < 0 || p.Damping > 1 {
		p.Damping = def.Damping
	}
	if !finite(p.Alpha) || p.Alpha <= 0 {
		p.Alpha = def.Alpha
	}
	if !finite(p.LinkDistance) {
		p.LinkDistance = def.LinkDistance
	}
	if !finite(p.LinkStrength) {
		p.LinkStrength = def.LinkStrength
	}
	if !finite(p.ChargeStrength) {
		p.ChargeStrength = def.ChargeStrength
	}
	if !finite(p.CenterStrength) {
		p.CenterStrength = def.CenterStrength
	}
	return p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
