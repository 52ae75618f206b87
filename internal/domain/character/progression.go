package character

const (
	experiencePerLevel = 100
	manaPerLevel       = 10
)

// Level reports the player level, or zero for non-players.
func (c Character) Level() uint32 {
	if c.role.Kind != RolePlayer {
		return 0
	}
	return c.role.Level
}

func (c Character) Experience() uint32 { return c.experience }

// ExperienceToLevel is the threshold the current level must reach.
func (c Character) ExperienceToLevel() uint32 {
	return c.Level() * experiencePerLevel
}

// AddExperience grants experience and settles every level-up it pays for. It
// returns the number of levels gained. Non-players ignore experience.
func (c *Character) AddExperience(amount uint32) int {
	if c.role.Kind != RolePlayer {
		return 0
	}
	c.experience = saturatingAdd(c.experience, amount)
	gained := 0
	for {
		need := c.ExperienceToLevel()
		if need == 0 || c.experience < need {
			return gained
		}
		c.experience -= need
		c.levelUp()
		gained++
	}
}

func (c *Character) levelUp() {
	c.setRole(PlayerRole(c.role.Level + 1))
	c.health = c.maxHealth
	if c.class.Kind() == Mage {
		c.maxMana = saturatingAdd(c.maxMana, manaPerLevel)
		c.mana = c.maxMana
	}
}
