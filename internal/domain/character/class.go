package character

type DamageType int

const (
	Physical DamageType = iota
	Magical
)

func (d DamageType) String() string {
	switch d {
	case Physical:
		return "Physical"
	case Magical:
		return "Magical"
	default:
		return "Unknown"
	}
}

type AttackType int

const (
	Melee AttackType = iota
	Ranged
)

func (a AttackType) String() string {
	switch a {
	case Melee:
		return "Melee"
	case Ranged:
		return "Ranged"
	default:
		return "Unknown"
	}
}

type ClassKind int

const (
	Warrior ClassKind = iota
	Mage
)

func (k ClassKind) String() string {
	switch k {
	case Warrior:
		return "Warrior"
	case Mage:
		return "Mage"
	default:
		return "Unknown"
	}
}

// Class is the fixed archetype a character is built on. The zero value of an
// attribute that belongs to the other class is reported as absent by its getter.
type Class struct {
	kind     ClassKind
	strength uint32
	mana     uint32
	power    uint32
}

func NewWarriorClass() Class {
	return Class{kind: Warrior, strength: 10}
}

func NewMageClass() Class {
	return Class{kind: Mage, mana: 100, power: 10}
}

func (c Class) Kind() ClassKind { return c.kind }

func (c Class) BaseHealth() uint32 {
	if c.kind == Mage {
		return 75
	}
	return 100
}

func (c Class) DamageType() DamageType {
	if c.kind == Mage {
		return Magical
	}
	return Physical
}

func (c Class) AttackType() AttackType {
	if c.kind == Mage {
		return Ranged
	}
	return Melee
}

func (c Class) Strength() (uint32, bool) {
	if c.kind != Warrior {
		return 0, false
	}
	return c.strength, true
}

func (c Class) Mana() (uint32, bool) {
	if c.kind != Mage {
		return 0, false
	}
	return c.mana, true
}

func (c Class) Power() (uint32, bool) {
	if c.kind != Mage {
		return 0, false
	}
	return c.power, true
}
