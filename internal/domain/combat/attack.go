// Package combat resolves attacks and drives battles between characters.
package combat

import "rpg-arena/internal/domain/character"

// Attack applies the attacker's calculated damage to the defender and returns
// the amount dealt. An attacker that cannot attack deals nothing.
func Attack(attacker, defender *character.Character) uint32 {
	if !attacker.CanAttack() {
		return 0
	}
	damage := attacker.CalculatedDamage()
	defender.TakeDamage(damage)
	return damage
}

// DamageWithBonus is the attacker's calculated damage scaled by the damage-type
// and attack-range matchups against the defender.
func DamageWithBonus(attacker, defender *character.Character) uint32 {
	base := float32(attacker.CalculatedDamage())
	typed := float32(base * typeMultiplier(attacker.DamageType(), defender.DamageType()))
	ranged := float32(typed * rangeMultiplier(attacker.AttackType(), defender.AttackType()))
	if ranged <= 0 {
		return 0
	}
	return uint32(ranged)
}

func typeMultiplier(attacker, defender character.DamageType) float32 {
	switch {
	case attacker == character.Physical && defender == character.Magical:
		return 1.2
	case attacker == character.Magical && defender == character.Physical:
		return 0.8
	default:
		return 1.0
	}
}

func rangeMultiplier(attacker, defender character.AttackType) float32 {
	switch {
	case attacker == character.Ranged && defender == character.Melee:
		return 1.15
	case attacker == character.Melee && defender == character.Ranged:
		return 0.9
	default:
		return 1.0
	}
}
