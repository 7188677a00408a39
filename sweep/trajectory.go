package sweep

import "github.com/wiless/vlib"

// Trajectory yields the receiver positions of a sweep, one per move. It is
// consumed once and is not restartable.
type Trajectory interface {
	// Next returns the position to move to from current, or false once the
	// trajectory is exhausted.
	Next(current vlib.Location3D) (vlib.Location3D, bool)
}

// Waypoints is a scripted list of absolute positions.
type Waypoints struct {
	Points []vlib.Location3D
	next   int
}

func NewWaypoints(points ...vlib.Location3D) *Waypoints {
	return &Waypoints{Points: append([]vlib.Location3D(nil), points...)}
}

func (w *Waypoints) Next(vlib.Location3D) (vlib.Location3D, bool) {
	if w.next >= len(w.Points) {
		return vlib.Location3D{}, false
	}
	p := w.Points[w.next]
	w.next++
	return p, true
}

// Len is the number of moves; a sweep over it produces Len()+1 samples.
func (w *Waypoints) Len() int { return len(w.Points) }

// StepWalk displaces the receiver by Step, Moves times.
type StepWalk struct {
	Step  vlib.Location3D
	Moves int
	done  int
}

func NewStepWalk(step vlib.Location3D, moves int) *StepWalk {
	return &StepWalk{Step: step, Moves: moves}
}

func (s *StepWalk) Next(current vlib.Location3D) (vlib.Location3D, bool) {
	if s.done >= s.Moves {
		return vlib.Location3D{}, false
	}
	s.done++
	return vlib.Location3D{
		X: current.X + s.Step.X,
		Y: current.Y + s.Step.Y,
		Z: current.Z + s.Step.Z,
	}, true
}

func (s *StepWalk) Len() int { return s.Moves }
