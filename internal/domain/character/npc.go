package character

import "fmt"

func (c Character) Importance() (Importance, bool) {
	if c.role.Kind != RoleNPC {
		return 0, false
	}
	return c.role.Importance, true
}

func (c Character) Dialogue() string { return c.kind.archetype().dialogue }

func (c Character) CanTrade() bool { return c.kind.archetype().trades }

func (c Character) CanGiveQuests() bool {
	return c.kind.archetype().mentor || c.quests > 0
}

func (c Character) AvailableQuests() uint32 { return c.quests }

func (c Character) Interact() string {
	return fmt.Sprintf("%s says: \"%s\"", c.name, c.Dialogue())
}

// Gold is only tracked for merchants.
func (c Character) Gold() uint32 { return c.gold }

// SpendGold deducts amount when the balance covers it. Nothing is deducted on
// failure.
func (c *Character) SpendGold(amount uint32) bool {
	if c.kind != Merchant || c.gold < amount {
		return false
	}
	c.gold -= amount
	return true
}

// EarnGold credits a merchant, saturating at the largest balance. It reports
// false for characters that do not keep a purse.
func (c *Character) EarnGold(amount uint32) bool {
	if c.kind != Merchant {
		return false
	}
	c.gold = saturatingAdd(c.gold, amount)
	return true
}
