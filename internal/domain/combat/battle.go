package combat

import (
	"fmt"

	"rpg-arena/internal/domain/character"
)

// MaxRounds caps a battle so fighters that cannot hurt each other still finish.
const MaxRounds = 100

type Result int

const (
	InProgress Result = iota
	Winner1
	Winner2
	Draw
)

func (r Result) String() string {
	switch r {
	case InProgress:
		return "in_progress"
	case Winner1:
		return "winner1"
	case Winner2:
		return "winner2"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Result) UnmarshalText(b []byte) error {
	for _, candidate := range []Result{InProgress, Winner1, Winner2, Draw} {
		if candidate.String() == string(b) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown battle result %q", string(b))
}

// Event is one resolved attack inside a battle round.
type Event struct {
	Round          int    `json:"round"`
	Slot           int    `json:"slot"`
	Attacker       string `json:"attacker"`
	Defender       string `json:"defender"`
	Damage         uint32 `json:"damage"`
	DefenderHealth uint32 `json:"defender_health"`
}

type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Observers fans every event out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type Report struct {
	Result Result  `json:"result"`
	Rounds int     `json:"rounds"`
	Events []Event `json:"events"`
}

// Battle runs alternating rounds until one fighter dies or MaxRounds is reached.
// Both fighters are mutated in place; obs may be nil.
func Battle(f1, f2 *character.Character, obs Observer) Report {
	rep := Report{Events: make([]Event, 0, 8)}
	emit := func(e Event) {
		rep.Events = append(rep.Events, e)
		if obs != nil {
			obs.Observe(e)
		}
	}

	for f1.IsAlive() && f2.IsAlive() && rep.Rounds < MaxRounds {
		rep.Rounds++

		if f1.CanAttack() {
			dealt := Attack(f1, f2)
			emit(Event{Round: rep.Rounds, Slot: 1, Attacker: f1.Name(), Defender: f2.Name(), Damage: dealt, DefenderHealth: f2.Health()})
		}
		if !f2.IsAlive() {
			rep.Result = Winner1
			return rep
		}

		if f2.CanAttack() {
			dealt := Attack(f2, f1)
			emit(Event{Round: rep.Rounds, Slot: 2, Attacker: f2.Name(), Defender: f1.Name(), Damage: dealt, DefenderHealth: f1.Health()})
		}
		if !f1.IsAlive() {
			rep.Result = Winner2
			return rep
		}
	}

	rep.Result = byHealth(f1, f2)
	return rep
}

func byHealth(f1, f2 *character.Character) Result {
	switch {
	case f1.Health() > f2.Health():
		return Winner1
	case f2.Health() > f1.Health():
		return Winner2
	default:
		return Draw
	}
}
