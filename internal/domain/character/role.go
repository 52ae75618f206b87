package character

import "math"

type RoleKind int

const (
	RolePlayer RoleKind = iota
	RoleEnemy
	RoleNPC
)

func (k RoleKind) String() string {
	switch k {
	case RolePlayer:
		return "Player"
	case RoleEnemy:
		return "Enemy"
	case RoleNPC:
		return "NPC"
	default:
		return "Unknown"
	}
}

type Importance int

const (
	Minor Importance = iota
	Normal
	Important
	Legendary
)

func (i Importance) String() string {
	switch i {
	case Minor:
		return "Minor"
	case Normal:
		return "Normal"
	case Important:
		return "Important"
	case Legendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// Role is a tagged variant: only the field matching Kind is meaningful.
type Role struct {
	Kind        RoleKind
	Level       uint32
	ThreatLevel uint32
	Importance  Importance
}

func PlayerRole(level uint32) Role { return Role{Kind: RolePlayer, Level: level} }

func EnemyRole(threat uint32) Role { return Role{Kind: RoleEnemy, ThreatLevel: threat} }

func NPCRole(importance Importance) Role { return Role{Kind: RoleNPC, Importance: importance} }

// Coefficients are computed in float32 and every intermediate is converted
// explicitly so no fused multiply-add can change where truncation lands.

func (r Role) HealthCoefficient() float32 {
	switch r.Kind {
	case RolePlayer:
		step := float32(float32(r.Level) - 1)
		return float32(1 + float32(step*0.1))
	case RoleEnemy:
		switch t := r.ThreatLevel; {
		case t >= 1 && t <= 3:
			return 0.8
		case t >= 4 && t <= 6:
			return 1.0
		case t >= 7 && t <= 9:
			return 1.3
		case t >= 10:
			return 1.8
		default:
			return 0.5
		}
	case RoleNPC:
		switch r.Importance {
		case Minor:
			return 0.5
		case Normal:
			return 1.0
		case Important:
			return 1.5
		case Legendary:
			return 2.0
		}
	}
	return 1.0
}

func (r Role) DamageCoefficient() float32 {
	switch r.Kind {
	case RolePlayer:
		step := float32(float32(r.Level) - 1)
		return float32(1 + float32(step*0.15))
	case RoleEnemy:
		step := float32(float32(r.ThreatLevel) - 1)
		return float32(1 + float32(step*0.1))
	case RoleNPC:
		switch r.Importance {
		case Minor:
			return 0.3
		case Normal:
			return 0.7
		case Important:
			return 1.2
		case Legendary:
			return 2.5
		}
	}
	return 1.0
}

// scale truncates base*coefficient toward zero.
func scale(base uint32, coefficient float32) uint32 {
	v := float32(float32(base) * coefficient)
	if v <= 0 {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
