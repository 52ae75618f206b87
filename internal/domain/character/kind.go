package character

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown character kind")

// Kind is the closed set of concrete characters.
type Kind int

const (
	PlayerWarrior Kind = iota
	PlayerMage
	GoblinWarrior
	GoblinMage
	DragonBoss
	Merchant
	QuestGiver
	LegendaryNPC
	Villager
)

type attackRule int

const (
	attackUnlessInvincible attackRule = iota
	attackNever
	attackAlways
	attackWithMana
)

type invincibilityRule int

const (
	invincibleNever invincibilityRule = iota
	invincibleAlways
	invincibleAboveHalf
)

// manaCost is the mana a character must hold for attackWithMana to allow an attack.
const manaCost = 10

type archetype struct {
	slug       string
	title      string
	class      func() Class
	role       Role
	baseHealth uint32
	baseDamage uint32
	attack     attackRule
	invincible invincibilityRule

	mana     uint32
	strength uint32
	power    uint32
	aggro    uint32

	dialogue string
	gold     uint32
	quests   uint32
	trades   bool
	mentor   bool
}

var archetypes = [...]archetype{
	PlayerWarrior: {
		slug: "player_warrior", title: "PlayerWarrior",
		class: NewWarriorClass, role: PlayerRole(1),
		baseHealth: 100, baseDamage: 25,
	},
	PlayerMage: {
		slug: "player_mage", title: "PlayerMage",
		class: NewMageClass, role: PlayerRole(1),
		baseHealth: 75, baseDamage: 30,
		mana: 100,
	},
	GoblinWarrior: {
		slug: "goblin_warrior", title: "GoblinWarrior",
		class: NewWarriorClass, role: EnemyRole(3),
		baseHealth: 50, baseDamage: 15,
		strength: 5, aggro: 75,
	},
	GoblinMage: {
		slug: "goblin_mage", title: "GoblinMage",
		class: NewMageClass, role: EnemyRole(4),
		baseHealth: 25, baseDamage: 20,
		attack: attackWithMana,
		mana:   50, power: 5, aggro: 25,
	},
	DragonBoss: {
		slug: "dragon_boss", title: "DragonBoss",
		class: NewWarriorClass, role: EnemyRole(15),
		baseHealth: 200, baseDamage: 50,
		invincible: invincibleAboveHalf,
		aggro:      100,
	},
	Merchant: {
		slug: "merchant", title: "Merchant",
		class: NewWarriorClass, role: NPCRole(Normal),
		baseHealth: 60, baseDamage: 10,
		attack:   attackNever,
		dialogue: "Welcome to my shop! What can I get for you?",
		gold:     1000, trades: true,
	},
	QuestGiver: {
		slug: "quest_giver", title: "QuestGiver",
		class: NewMageClass, role: NPCRole(Important),
		baseHealth: 80, baseDamage: 25,
		attack:   attackNever,
		dialogue: "I have important tasks for brave adventurers!",
		quests:   3,
	},
	LegendaryNPC: {
		slug: "legendary_npc", title: "LegendaryNPC",
		class: NewMageClass, role: NPCRole(Legendary),
		baseHealth: 150, baseDamage: 75,
		attack: attackAlways, invincible: invincibleAlways,
		dialogue: "The winds of fate have brought you to me, young one...",
		trades:   true, mentor: true,
	},
	Villager: {
		slug: "villager", title: "Villager",
		class: NewWarriorClass, role: NPCRole(Minor),
		baseHealth: 30, baseDamage: 5,
		attack:   attackNever,
		dialogue: "Hello there, traveler!",
	},
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(archetypes) }

func (k Kind) archetype() archetype {
	if !k.valid() {
		return archetypes[Villager]
	}
	return archetypes[k]
}

func (k Kind) String() string {
	if !k.valid() {
		return "Unknown"
	}
	return archetypes[k].title
}

// Slug is the lower snake-case name used on the wire.
func (k Kind) Slug() string {
	if !k.valid() {
		return "unknown"
	}
	return archetypes[k].slug
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.Slug()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts either the slug ("goblin_mage") or the title ("GoblinMage"),
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for i, a := range archetypes {
		if strings.EqualFold(s, a.slug) || strings.EqualFold(s, a.title) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func Kinds() []Kind {
	kinds := make([]Kind, len(archetypes))
	for i := range archetypes {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) IsPlayer() bool { return k.archetype().role.Kind == RolePlayer }
func (k Kind) IsEnemy() bool  { return k.archetype().role.Kind == RoleEnemy }
func (k Kind) IsNPC() bool    { return k.archetype().role.Kind == RoleNPC }
