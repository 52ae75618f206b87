package character

import "fmt"

// Compare renders a one-line side-by-side summary of two characters.
func Compare(a, b *Character) string {
	return fmt.Sprintf("%s vs %s: HP (%d vs %d), Damage (%d vs %d), Type (%s vs %s)",
		a.Name(), b.Name(),
		a.CalculatedMaxHealth(), b.CalculatedMaxHealth(),
		a.CalculatedDamage(), b.CalculatedDamage(),
		a.DamageType(), b.DamageType(),
	)
}

// FindStrongest returns the character with the highest calculated damage. The
// earliest entry wins ties; nil means the slice was empty.
func FindStrongest(cs []Character) *Character {
	return maxBy(cs, func(c *Character) uint32 { return c.CalculatedDamage() })
}

// FindTankiest returns the character with the highest calculated max health.
func FindTankiest(cs []Character) *Character {
	return maxBy(cs, func(c *Character) uint32 { return c.CalculatedMaxHealth() })
}

func maxBy(cs []Character, key func(*Character) uint32) *Character {
	var best *Character
	var bestKey uint32
	for i := range cs {
		k := key(&cs[i])
		if best == nil || k > bestKey {
			best = &cs[i]
			bestKey = k
		}
	}
	return best
}

func HealParty(party []Character, amount uint32) {
	for i := range party {
		party[i].Heal(amount)
	}
}

func PartyTotalHealth(party []Character) uint64 {
	var total uint64
	for i := range party {
		total += uint64(party[i].Health())
	}
	return total
}

type Snapshot struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	Role        string `json:"role"`
	Health      uint32 `json:"health"`
	MaxHealth   uint32 `json:"max_health"`
	Damage      uint32 `json:"damage"`
	DamageType  string `json:"damage_type"`
	AttackType  string `json:"attack_type"`
	Level       uint32 `json:"level,omitempty"`
	Experience  uint32 `json:"experience,omitempty"`
	ThreatLevel uint32 `json:"threat_level,omitempty"`
	Importance  string `json:"importance,omitempty"`
	Mana        uint32 `json:"mana,omitempty"`
	MaxMana     uint32 `json:"max_mana,omitempty"`
	Gold        uint32 `json:"gold,omitempty"`
	Dialogue    string `json:"dialogue,omitempty"`
	CanAttack   bool   `json:"can_attack"`
	Invincible  bool   `json:"invincible"`
}

func (c Character) Snapshot() Snapshot {
	s := Snapshot{
		Kind:       c.kind,
		Name:       c.name,
		Class:      c.class.Kind().String(),
		Role:       c.role.Kind.String(),
		Health:     c.health,
		MaxHealth:  c.maxHealth,
		Damage:     c.CalculatedDamage(),
		DamageType: c.DamageType().String(),
		AttackType: c.AttackType().String(),
		Level:      c.Level(),
		Experience: c.experience,
		Mana:       c.mana,
		MaxMana:    c.maxMana,
		Gold:       c.gold,
		Dialogue:   c.Dialogue(),
		CanAttack:  c.CanAttack(),
		Invincible: c.IsInvincible(),
	}
	if t, ok := c.ThreatLevel(); ok {
		s.ThreatLevel = t
	}
	if imp, ok := c.Importance(); ok {
		s.Importance = imp.String()
	}
	return s
}
