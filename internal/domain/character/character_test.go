package character

import (
	"errors"
	"testing"
)

func TestKindStats(t *testing.T) {
	tests := []struct {
		kind       Kind
		maxHealth  uint32
		damage     uint32
		damageType DamageType
		attackType AttackType
	}{
		{PlayerWarrior, 100, 25, Physical, Melee},
		{PlayerMage, 75, 30, Magical, Ranged},
		{GoblinWarrior, 40, 18, Physical, Melee},
		{GoblinMage, 25, 26, Magical, Ranged},
		{DragonBoss, 360, 120, Physical, Melee},
		{Merchant, 60, 7, Physical, Melee},
		{QuestGiver, 120, 30, Magical, Ranged},
		{LegendaryNPC, 300, 187, Magical, Ranged},
		{Villager, 15, 1, Physical, Melee},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := New(tt.kind, "x")
			if c.MaxHealth() != tt.maxHealth {
				t.Fatalf("max health = %d, want %d", c.MaxHealth(), tt.maxHealth)
			}
			if c.Health() != tt.maxHealth {
				t.Fatalf("new character health = %d, want full %d", c.Health(), tt.maxHealth)
			}
			if c.CalculatedDamage() != tt.damage {
				t.Fatalf("damage = %d, want %d", c.CalculatedDamage(), tt.damage)
			}
			if c.DamageType() != tt.damageType || c.AttackType() != tt.attackType {
				t.Fatalf("types = %v/%v, want %v/%v", c.DamageType(), c.AttackType(), tt.damageType, tt.attackType)
			}
		})
	}
}

func TestGoblinWarriorThreatThreeHealth(t *testing.T) {
	g := NewGoblinWarrior("Azog")
	if got := g.Role().HealthCoefficient(); got != 0.8 {
		t.Fatalf("coefficient = %v, want 0.8", got)
	}
	if g.BaseHealth() != 50 || g.MaxHealth() != 40 {
		t.Fatalf("base/max = %d/%d, want 50/40", g.BaseHealth(), g.MaxHealth())
	}
	if lvl, ok := g.ThreatLevel(); !ok || lvl != 3 {
		t.Fatalf("threat = %d,%v", lvl, ok)
	}
}

func TestRoleCoefficients(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		health float32
		damage float32
	}{
		{"player level 1", PlayerRole(1), 1.0, 1.0},
		{"player level 2", PlayerRole(2), 1.1, 1.15},
		{"enemy threat 0", EnemyRole(0), 0.5, 0.9},
		{"enemy threat 1", EnemyRole(1), 0.8, 1.0},
		{"enemy threat 5", EnemyRole(5), 1.0, 1.4},
		{"enemy threat 9", EnemyRole(9), 1.3, 1.8},
		{"enemy threat 10", EnemyRole(10), 1.8, 1.9},
		{"npc minor", NPCRole(Minor), 0.5, 0.3},
		{"npc normal", NPCRole(Normal), 1.0, 0.7},
		{"npc important", NPCRole(Important), 1.5, 1.2},
		{"npc legendary", NPCRole(Legendary), 2.0, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.HealthCoefficient(); !near(got, tt.health) {
				t.Fatalf("health coefficient = %v, want %v", got, tt.health)
			}
			if got := tt.role.DamageCoefficient(); !near(got, tt.damage) {
				t.Fatalf("damage coefficient = %v, want %v", got, tt.damage)
			}
		})
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func TestRecomputeIsIdempotent(t *testing.T) {
	for _, k := range Kinds() {
		c := New(k, "x")
		before := c.MaxHealth()
		c.setRole(c.Role())
		c.setRole(c.Role())
		if c.MaxHealth() != before || c.MaxHealth() != c.CalculatedMaxHealth() {
			t.Fatalf("%s: max health drifted %d -> %d", k, before, c.MaxHealth())
		}
	}
}

func TestHealNeverExceedsMax(t *testing.T) {
	c := NewPlayerWarrior("A")
	c.SetHealth(10)
	c.Heal(5)
	if c.Health() != 15 {
		t.Fatalf("health = %d, want 15", c.Health())
	}
	c.Heal(^uint32(0))
	if c.Health() != c.MaxHealth() {
		t.Fatalf("health = %d, want max %d", c.Health(), c.MaxHealth())
	}
}

func TestSetHealthClamps(t *testing.T) {
	c := NewGoblinWarrior("g")
	c.SetHealth(1000)
	if c.Health() != 40 {
		t.Fatalf("health = %d, want 40", c.Health())
	}
}

func TestReviveOnlyWhenDead(t *testing.T) {
	m := NewPlayerMage("Gandalf")
	m.SetHealth(5)
	m.Revive()
	if m.Health() != 5 {
		t.Fatalf("revive healed a living character: %d", m.Health())
	}
	m.TakeDamage(100)
	if m.Health() != 0 || m.IsAlive() {
		t.Fatalf("expected dead, health=%d", m.Health())
	}
	m.Revive()
	if m.Health() != m.MaxHealth() || m.Mana() != m.MaxMana() {
		t.Fatalf("revive = %d hp %d mana", m.Health(), m.Mana())
	}
}

func TestDragonInvincibleAboveHalf(t *testing.T) {
	d := NewDragonBoss("Smaug")
	if !d.IsInvincible() || d.CanAttack() {
		t.Fatal("full-health dragon must be invincible and unable to attack")
	}
	d.SetHealth(d.MaxHealth() / 2)
	if d.IsInvincible() || !d.CanAttack() {
		t.Fatalf("dragon at half health (%d) must be vulnerable and attack", d.Health())
	}
	d.SetHealth(0)
	if d.CanAttack() {
		t.Fatal("dead dragon must not attack")
	}
}

func TestAttackOverrides(t *testing.T) {
	tests := []struct {
		kind       Kind
		canAttack  bool
		invincible bool
	}{
		{PlayerWarrior, true, false},
		{GoblinMage, true, false},
		{Merchant, false, false},
		{QuestGiver, false, false},
		{Villager, false, false},
		{LegendaryNPC, true, true},
	}
	for _, tt := range tests {
		c := New(tt.kind, "x")
		if c.CanAttack() != tt.canAttack || c.IsInvincible() != tt.invincible {
			t.Fatalf("%s: canAttack=%v invincible=%v", tt.kind, c.CanAttack(), c.IsInvincible())
		}
	}

	legend := NewLegendaryNPC("Tom")
	legend.SetHealth(0)
	if !legend.CanAttack() {
		t.Fatal("legendary NPC always attacks")
	}
}

func TestGoblinMageNeedsMana(t *testing.T) {
	g := NewGoblinMage("g")
	if g.Mana() != 50 || !g.CanAttack() {
		t.Fatalf("mana=%d canAttack=%v", g.Mana(), g.CanAttack())
	}
	g.mana = manaCost - 1
	if g.CanAttack() {
		t.Fatal("goblin mage without mana must not attack")
	}
}

func TestMerchantGold(t *testing.T) {
	m := NewMerchant("Bree Trader")
	if m.Gold() != 1000 {
		t.Fatalf("gold = %d, want 1000", m.Gold())
	}
	if !m.SpendGold(150) || m.Gold() != 850 {
		t.Fatalf("spend 150: gold = %d", m.Gold())
	}
	if m.SpendGold(10000) || m.Gold() != 850 {
		t.Fatalf("overspend changed gold: %d", m.Gold())
	}
	if !m.EarnGold(500) || m.Gold() != 1350 {
		t.Fatalf("earn 500: gold = %d", m.Gold())
	}

	v := NewVillager("Maggot")
	if v.SpendGold(0) || v.EarnGold(10) || v.Gold() != 0 {
		t.Fatal("villagers keep no purse")
	}
}

func TestNPCInteraction(t *testing.T) {
	q := NewQuestGiver("Elrond")
	if got, want := q.Interact(), `Elrond says: "I have important tasks for brave adventurers!"`; got != want {
		t.Fatalf("interact = %q, want %q", got, want)
	}
	if !q.CanGiveQuests() || q.CanTrade() {
		t.Fatal("quest giver gives quests and does not trade")
	}
	l := NewLegendaryNPC("Tom")
	if !l.CanGiveQuests() || !l.CanTrade() {
		t.Fatal("legendary NPC trades and gives quests")
	}
	if imp, ok := l.Importance(); !ok || imp != Legendary {
		t.Fatalf("importance = %v,%v", imp, ok)
	}
	if _, ok := NewPlayerWarrior("a").Importance(); ok {
		t.Fatal("players have no importance")
	}
}

func TestClassAttributes(t *testing.T) {
	w := NewWarriorClass()
	if s, ok := w.Strength(); !ok || s != 10 {
		t.Fatalf("strength = %d,%v", s, ok)
	}
	if _, ok := w.Mana(); ok {
		t.Fatal("warriors have no mana")
	}
	m := NewMageClass()
	if mana, ok := m.Mana(); !ok || mana != 100 {
		t.Fatalf("mana = %d,%v", mana, ok)
	}
	if p, ok := m.Power(); !ok || p != 10 {
		t.Fatalf("power = %d,%v", p, ok)
	}
	if m.BaseHealth() != 75 || w.BaseHealth() != 100 {
		t.Fatal("class base health mismatch")
	}
}

func TestBerserkerRage(t *testing.T) {
	g := NewGoblinWarrior("Azog")
	if g.BerserkerRage() != 10 || g.Aggro() != 75 {
		t.Fatalf("rage=%d aggro=%d", g.BerserkerRage(), g.Aggro())
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.Slug())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.Slug(), got, err)
		}
		got, err = ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("orc"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := NewPlayerWarrior("A")
	b := a
	b.TakeDamage(30)
	if a.Health() != 100 || b.Health() != 70 {
		t.Fatalf("copy aliases original: a=%d b=%d", a.Health(), b.Health())
	}
}

// Health must stay inside [0, max] for any sequence of mutations.
func FuzzHealthInvariant(f *testing.F) {
	f.Add(uint8(0), []byte{0, 10, 1, 200, 2, 0, 3, 5, 4, 255})
	f.Add(uint8(4), []byte{1, 255, 1, 255, 3, 0, 0, 1})
	f.Fuzz(func(t *testing.T, kind uint8, ops []byte) {
		c := New(Kind(int(kind)%len(archetypes)), "fuzz")
		for i := 0; i+1 < len(ops); i += 2 {
			amount := uint32(ops[i+1]) * 7
			switch ops[i] % 5 {
			case 0:
				c.TakeDamage(amount)
			case 1:
				c.Heal(amount)
			case 2:
				c.SetHealth(amount)
			case 3:
				c.Revive()
			case 4:
				c.AddExperience(amount)
			}
			if c.Health() > c.MaxHealth() {
				t.Fatalf("health %d exceeds max %d after op %d", c.Health(), c.MaxHealth(), ops[i]%5)
			}
			if c.MaxHealth() != c.CalculatedMaxHealth() {
				t.Fatalf("max health %d stale, want %d", c.MaxHealth(), c.CalculatedMaxHealth())
			}
		}
	})
}

func TestAccessorsOnConstructedValues(t *testing.T) {
	if NewDragonBoss("Smaug").CalculatedMaxHealth() != 360 || NewDragonBoss("Smaug").Name() != "Smaug" {
		t.Fatal("dragon accessors on a fresh value")
	}
	if imp, ok := NewMerchant("Bree").Importance(); !ok || imp != Normal {
		t.Fatalf("merchant importance = %v,%v", imp, ok)
	}
	if _, ok := NewVillager("Tom").ThreatLevel(); ok {
		t.Fatal("villagers have no threat level")
	}
	if got := NewPlayerMage("Gandalf").Snapshot().MaxMana; got != 100 {
		t.Fatalf("mage snapshot max mana = %d, want 100", got)
	}
}
