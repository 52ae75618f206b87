package character

import (
	"fmt"
	"math"
)

// Character is a value type: copying it yields an independent character, which
// is what tournament brackets rely on. Accessors take value receivers; only
// methods that change state need an addressable character.
type Character struct {
	kind      Kind
	name      string
	health    uint32
	maxHealth uint32
	class     Class
	role      Role

	experience uint32
	mana       uint32
	maxMana    uint32
	gold       uint32
	quests     uint32
}

// New builds a character of the given kind at full health.
func New(kind Kind, name string) Character {
	a := kind.archetype()
	if !kind.valid() {
		kind = Villager
	}
	c := Character{
		kind:    kind,
		name:    name,
		class:   a.class(),
		role:    a.role,
		mana:    a.mana,
		maxMana: a.mana,
		gold:    a.gold,
		quests:  a.quests,
	}
	c.maxHealth = c.CalculatedMaxHealth()
	c.health = c.maxHealth
	return c
}

func NewPlayerWarrior(name string) Character { return New(PlayerWarrior, name) }
func NewPlayerMage(name string) Character    { return New(PlayerMage, name) }
func NewGoblinWarrior(name string) Character { return New(GoblinWarrior, name) }
func NewGoblinMage(name string) Character    { return New(GoblinMage, name) }
func NewDragonBoss(name string) Character    { return New(DragonBoss, name) }
func NewMerchant(name string) Character      { return New(Merchant, name) }
func NewQuestGiver(name string) Character    { return New(QuestGiver, name) }
func NewLegendaryNPC(name string) Character  { return New(LegendaryNPC, name) }
func NewVillager(name string) Character      { return New(Villager, name) }

func (c Character) Kind() Kind             { return c.kind }
func (c Character) Name() string           { return c.name }
func (c Character) Health() uint32         { return c.health }
func (c Character) MaxHealth() uint32      { return c.maxHealth }
func (c Character) BaseHealth() uint32     { return c.kind.archetype().baseHealth }
func (c Character) BaseDamage() uint32     { return c.kind.archetype().baseDamage }
func (c Character) Class() Class           { return c.class }
func (c Character) Role() Role             { return c.role }
func (c Character) DamageType() DamageType { return c.class.DamageType() }
func (c Character) AttackType() AttackType { return c.class.AttackType() }

func (c Character) CalculatedMaxHealth() uint32 {
	return scale(c.BaseHealth(), c.role.HealthCoefficient())
}

func (c Character) CalculatedDamage() uint32 {
	return scale(c.BaseDamage(), c.role.DamageCoefficient())
}

func (c Character) IsAlive() bool { return c.health > 0 }

func (c Character) IsInvincible() bool {
	switch c.kind.archetype().invincible {
	case invincibleAlways:
		return true
	case invincibleAboveHalf:
		return c.health > c.maxHealth/2
	default:
		return false
	}
}

func (c Character) CanAttack() bool {
	switch c.kind.archetype().attack {
	case attackNever:
		return false
	case attackAlways:
		return true
	case attackWithMana:
		return c.health > 0 && c.mana >= manaCost
	default:
		return c.health > 0 && !c.IsInvincible()
	}
}

// SetHealth stores health clamped to the current maximum.
func (c *Character) SetHealth(health uint32) {
	c.health = min(health, c.maxHealth)
}

// Heal adds amount without ever exceeding the maximum.
func (c *Character) Heal(amount uint32) {
	if amount >= c.maxHealth-c.health {
		c.health = c.maxHealth
		return
	}
	c.health += amount
}

// TakeDamage subtracts amount, flooring at zero.
func (c *Character) TakeDamage(amount uint32) {
	if amount >= c.health {
		c.health = 0
		return
	}
	c.health -= amount
}

// Revive restores a dead character. It is a no-op while health is above zero.
func (c *Character) Revive() {
	if c.health != 0 {
		return
	}
	c.Recover()
}

// Recover restores full health and mana regardless of current state.
func (c *Character) Recover() {
	c.health = c.maxHealth
	c.mana = c.maxMana
}

// setRole swaps the role and recomputes the derived maximum.
func (c *Character) setRole(r Role) {
	c.role = r
	c.maxHealth = c.CalculatedMaxHealth()
	c.health = min(c.health, c.maxHealth)
}

func (c Character) Mana() uint32    { return c.mana }
func (c Character) MaxMana() uint32 { return c.maxMana }

func (c Character) ThreatLevel() (uint32, bool) {
	if c.role.Kind != RoleEnemy {
		return 0, false
	}
	return c.role.ThreatLevel, true
}

func (c Character) Aggro() uint32 { return c.kind.archetype().aggro }

func (c Character) Strength() uint32 { return c.kind.archetype().strength }

func (c Character) Power() uint32 { return c.kind.archetype().power }

// BerserkerRage returns the bonus damage a strength-based enemy can unleash.
func (c Character) BerserkerRage() uint32 { return c.Strength() * 2 }

func (c Character) String() string {
	return fmt.Sprintf("%s (%s, %d/%d HP)", c.name, c.kind, c.health, c.maxHealth)
}

func saturatingAdd(a, b uint32) uint32 {
	if b > math.MaxUint32-a {
		return math.MaxUint32
	}
	return a + b
}
