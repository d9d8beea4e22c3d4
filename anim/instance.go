package anim

// Command is a playback request. It is stored on the Instance and applied at
// the next control step, never synchronously.
type Command int

const (
	CommandNone Command = iota
	CommandStart
	CommandPause
	CommandStop
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandStart:
		return "start"
	case CommandPause:
		return "pause"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// State is the playback state of an Instance.
type State int

const (
	StateRequested State = iota
	StateRunning
	StatePaused
	StateStopped
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Instance is one animation attached to an entity.
type Instance struct {
	ID        uint32
	Animation *Animation
	Cursor    Cursor
	End       EndControl
	Rate      float64
	Command   Command
	State     State
}

// Visible reports whether the instance drives its entity's material.
func (in *Instance) Visible() bool {
	switch in.State {
	case StateRunning, StatePaused, StateDone:
		return true
	}
	return false
}

// Sprite returns the sprite index the instance currently shows.
func (in *Instance) Sprite() int {
	return in.Cursor.Sprite(in.Animation)
}

// EffectiveRate is the instance rate scaled by the animation's built rate.
func (in *Instance) EffectiveRate() float64 {
	return in.Rate * in.Animation.Rate
}

// Retime sets the instance rate so that its effective rate becomes rate.
// The shared animation is left as built. It reports whether the rate changed.
func (in *Instance) Retime(rate float64) bool {
	r := rate / in.Animation.Rate
	if !(r > 0) || r == in.Rate {
		return false
	}
	in.Rate = r
	return true
}

// step applies the pending command and advances a running instance.
// It returns false when the instance should be dropped from its Set.
func (in *Instance) step(dt float64) bool {
	switch in.Command {
	case CommandStart:
		if in.State == StateStopped || in.State == StateDone {
			in.Cursor.Reset()
		}
		in.State = StateRunning
	case CommandPause:
		if in.State == StateRunning || in.State == StateRequested {
			in.State = StatePaused
		}
	case CommandStop:
		in.Cursor.Reset()
		in.State = StateStopped
	}
	in.Command = CommandNone

	if in.State != StateRunning {
		return true
	}

	if in.Cursor.Advance(in.Animation, dt*in.EffectiveRate(), in.End) {
		in.State = StateDone
		if in.End.Kind == EndNormal {
			return false
		}
	}
	return true
}

// Set is the component holding every animation instance of one entity,
// keyed by a caller-chosen id.
type Set struct {
	Instances []Instance
}

// Add attaches animation a under id. It returns false, leaving the set
// unchanged, if id is already in use or a is nil or was not built.
func (s *Set) Add(id uint32, a *Animation, end EndControl, rate float64, cmd Command) bool {
	if a == nil || !a.built || s.Get(id) != nil {
		return false
	}
	s.Instances = append(s.Instances, Instance{
		ID:        id,
		Animation: a,
		End:       end,
		Rate:      rate,
		Command:   cmd,
		State:     StateRequested,
	})
	return true
}

// Get returns the instance with the given id, or nil.
func (s *Set) Get(id uint32) *Instance {
	for i := range s.Instances {
		if s.Instances[i].ID == id {
			return &s.Instances[i]
		}
	}
	return nil
}

// Command queues cmd for the instance with the given id.
func (s *Set) Command(id uint32, cmd Command) bool {
	in := s.Get(id)
	if in == nil {
		return false
	}
	in.Command = cmd
	return true
}

// CommandAll queues cmd on every instance.
func (s *Set) CommandAll(cmd Command) {
	for i := range s.Instances {
		s.Instances[i].Command = cmd
	}
}

// Remove detaches the instance with the given id.
func (s *Set) Remove(id uint32) bool {
	for i := range s.Instances {
		if s.Instances[i].ID == id {
			s.Instances = append(s.Instances[:i], s.Instances[i+1:]...)
			return true
		}
	}
	return false
}

// Step advances every instance by dt seconds of real time.
func (s *Set) Step(dt float64) {
	kept := s.Instances[:0]
	for _, in := range s.Instances {
		if in.step(dt) {
			kept = append(kept, in)
		}
	}
	clear(s.Instances[len(kept):])
	s.Instances = kept
}

// Active returns the last visible instance, which is the one that drives
// the entity's material, or nil.
func (s *Set) Active() *Instance {
	for i := len(s.Instances) - 1; i >= 0; i-- {
		if s.Instances[i].Visible() {
			return &s.Instances[i]
		}
	}
	return nil
}
