package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"rpg-arena/internal/domain/character"
	"rpg-arena/internal/domain/combat"
)

type demo struct {
	out    io.Writer
	logger zerolog.Logger
}

func newDemo(out io.Writer, logger zerolog.Logger) *demo {
	return &demo{out: out, logger: logger}
}

func (d *demo) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

func (d *demo) section(title string) {
	d.printf("\n=== %s ===\n", title)
}

// narrator prints each attack the way a battle log reads and mirrors it to the
// debug logger.
func (d *demo) narrator() combat.Observer {
	return combat.ObserverFunc(func(e combat.Event) {
		d.printf("Round %d: %s attacks %s for %d damage! (%d HP remaining)\n",
			e.Round, e.Attacker, e.Defender, e.Damage, e.DefenderHealth)
		d.logger.Debug().Int("round", e.Round).Str("attacker", e.Attacker).Uint32("damage", e.Damage).Msg("attack")
	})
}

func (d *demo) run() {
	d.printf("=== RPG ARENA ===\n")

	warrior := character.NewPlayerWarrior("Aragorn")
	mage := character.NewPlayerMage("Gandalf")
	goblin := character.NewGoblinWarrior("Azog")
	goblinMage := character.NewGoblinMage("Saruman's Lieutenant")
	dragon := character.NewDragonBoss("Smaug")
	merchant := character.NewMerchant("Barliman Butterbur")

	d.classes(&warrior, &mage)
	d.catalog()
	d.enemies(&goblin, &goblinMage)
	d.npcs()
	d.trading()
	d.progression(&warrior, &mage)
	d.attacks(&warrior, &mage, &goblin, &goblinMage)
	d.rewards()
	d.effectiveness(&warrior, &mage)
	d.party()
	d.rankings()
	d.tournaments()
	d.battles()
	d.finalBoss()

	d.section("MIXED CHARACTER ANALYSIS")
	for _, c := range []*character.Character{&warrior, &dragon, &merchant} {
		d.printf("%s: %d HP, %d damage, %s type\n", c.Name(), c.CalculatedMaxHealth(), c.CalculatedDamage(), c.DamageType())
	}

	d.section("MONSTER BATTLE")
	orc1 := character.NewGoblinWarrior("Shagrat")
	orc2 := character.NewGoblinMage("Gorbag")
	t1, _ := orc1.ThreatLevel()
	t2, _ := orc2.ThreatLevel()
	d.printf("%s (Threat %d) vs %s (Threat %d)\n", orc1.Name(), t1, orc2.Name(), t2)
	rep, err := combat.EnemyVsEnemy(&orc1, &orc2, d.narrator())
	if err != nil {
		d.logger.Error().Err(err).Msg("monster battle")
		return
	}
	d.printf("Result: %s after %d rounds\n", rep.Result, rep.Rounds)
}

func (d *demo) classes(warrior, mage *character.Character) {
	d.section("CLASS SYSTEM")
	for _, c := range []*character.Character{warrior, mage} {
		class := c.Class()
		d.printf("%s class:\n", class.Kind())
		d.printf("  Base Health: %d\n", class.BaseHealth())
		d.printf("  Damage Type: %s\n", class.DamageType())
		d.printf("  Attack Type: %s\n", class.AttackType())
		if v, ok := class.Strength(); ok {
			d.printf("  Strength: %d\n", v)
		}
		if v, ok := class.Mana(); ok {
			d.printf("  Mana: %d\n", v)
		}
		if v, ok := class.Power(); ok {
			d.printf("  Power: %d\n", v)
		}
	}
}

func (d *demo) catalog() {
	d.section("CHARACTER KINDS")
	t := &table{header: []string{"Kind", "Class", "Role", "HP", "Damage", "Type", "Range"}}
	for _, k := range character.Kinds() {
		c := character.New(k, k.String())
		t.add(k, c.Class().Kind(), c.Role().Kind, c.CalculatedMaxHealth(), c.CalculatedDamage(), c.DamageType(), c.AttackType())
	}
	t.render(d.out)
}

func (d *demo) enemies(goblin, goblinMage *character.Character) {
	d.section("ENEMY SPECIAL ABILITIES")
	threat, _ := goblin.ThreatLevel()
	d.printf("Goblin Warrior Stats:\n")
	d.printf("  Strength: %d\n", goblin.Strength())
	d.printf("  Aggro Level: %d\n", goblin.Aggro())
	d.printf("  Threat Level: %d\n", threat)
	d.printf("  Berserker Rage Bonus: %d\n", goblin.BerserkerRage())

	threat, _ = goblinMage.ThreatLevel()
	d.printf("Goblin Mage Stats:\n")
	d.printf("  Aggro Level: %d\n", goblinMage.Aggro())
	d.printf("  Threat Level: %d\n", threat)
	d.printf("  Mana: %d\n", goblinMage.Mana())
}

func (d *demo) npcs() {
	d.section("NPC INTERACTION")
	npcs := []character.Character{
		character.NewMerchant("Barliman Butterbur"),
		character.NewQuestGiver("Elrond"),
		character.NewLegendaryNPC("Tom Bombadil"),
		character.NewVillager("Farmer Maggot"),
	}
	for i := range npcs {
		npc := &npcs[i]
		importance, _ := npc.Importance()
		d.printf("\n--- %s (%s) ---\n", npc.Name(), npc.Kind())
		d.printf("Dialogue: %q\n", npc.Dialogue())
		d.printf("Importance: %s\n", importance)
		d.printf("Can Trade: %t\n", npc.CanTrade())
		d.printf("Can Give Quests: %t\n", npc.CanGiveQuests())
		d.printf("%s\n", npc.Interact())
	}
}

func (d *demo) trading() {
	d.section("MERCHANT TRADING")
	m := character.NewMerchant("Bree Trader")
	d.printf("Merchant %s has %d gold\n", m.Name(), m.Gold())
	d.printf("Attempting to spend 150 gold...\n")
	if m.SpendGold(150) {
		d.printf("Trade successful! Remaining gold: %d\n", m.Gold())
	} else {
		d.printf("Insufficient funds!\n")
	}
	m.EarnGold(500)
	d.printf("Merchant earned 500 gold! Total: %d\n", m.Gold())
}

func (d *demo) progression(warrior, mage *character.Character) {
	d.section("PLAYER PROGRESSION")
	show := func() {
		for _, p := range []*character.Character{warrior, mage} {
			d.printf("  %s - Level: %d, Experience: %d\n", p.Name(), p.Level(), p.Experience())
		}
	}
	d.printf("Initial Player Stats:\n")
	show()
	warrior.AddExperience(50)
	if gained := mage.AddExperience(150); gained > 0 {
		d.printf("%s reached level %d!\n", mage.Name(), mage.Level())
	}
	d.printf("After gaining experience:\n")
	show()
}

func (d *demo) attacks(warrior, mage, goblin, goblinMage *character.Character) {
	d.section("COMBAT SYSTEM")
	d.printf("%s attacks %s for %d damage!\n", warrior.Name(), goblin.Name(), combat.Attack(warrior, goblin))
	d.printf("%s attacks %s for %d damage!\n", mage.Name(), goblinMage.Name(), combat.Attack(mage, goblinMage))

	d.printf("Before healing: %s has %d HP\n", goblin.Name(), goblin.Health())
	goblin.Heal(20)
	d.printf("After healing: %s has %d HP\n", goblin.Name(), goblin.Health())

	d.printf("%s\n", character.Compare(warrior, goblin))
	d.printf("%s\n", character.Compare(mage, goblinMage))
}

func (d *demo) duel(player, enemy *character.Character) {
	threat, _ := enemy.ThreatLevel()
	d.printf("%s (Player, Level %d) vs %s (Enemy, Threat %d)\n", player.Name(), player.Level(), enemy.Name(), threat)
	duel, err := combat.PlayerVsEnemy(player, enemy, d.narrator())
	if err != nil {
		d.logger.Error().Err(err).Msg("duel")
		return
	}
	switch duel.Result {
	case combat.Winner1:
		d.printf("%s wins and gains %d experience!\n", player.Name(), duel.ExperienceGained)
	case combat.Winner2:
		d.printf("%s has been defeated by %s!\n", player.Name(), enemy.Name())
	default:
		d.printf("The battle ends in a draw!\n")
	}
}

func (d *demo) rewards() {
	d.section("COMBAT WITH REWARDS")
	player := character.NewPlayerWarrior("Boromir")
	enemy := character.NewGoblinWarrior("Orc Captain")
	d.printf("Before combat: Level %d, Experience %d\n", player.Level(), player.Experience())
	d.duel(&player, &enemy)
	d.printf("After combat: Level %d, Experience %d\n", player.Level(), player.Experience())
}

func (d *demo) effectiveness(warrior, mage *character.Character) {
	d.section("COMBAT TYPE EFFECTIVENESS")
	d.printf("Warrior vs Mage: %d damage (%s vs %s)\n", combat.DamageWithBonus(warrior, mage), warrior.DamageType(), mage.DamageType())
	d.printf("Mage vs Warrior: %d damage (%s vs %s)\n", combat.DamageWithBonus(mage, warrior), mage.DamageType(), warrior.DamageType())
}

func (d *demo) party() {
	d.section("PARTY OPERATIONS")
	party := []character.Character{
		character.NewPlayerWarrior("Gimli"),
		character.NewPlayerWarrior("Legolas"),
		character.NewPlayerWarrior("Faramir"),
	}
	for i := range party {
		party[i].SetHealth(party[i].Health() / 2)
	}
	d.printf("Party total health before healing: %d\n", character.PartyTotalHealth(party))
	character.HealParty(party, 25)
	for i := range party {
		d.printf("%s healed for 25 HP! Current HP: %d\n", party[i].Name(), party[i].Health())
	}
	d.printf("Party total health after healing: %d\n", character.PartyTotalHealth(party))
}

func (d *demo) rankings() {
	d.section("STRONGEST AND TANKIEST")
	warriors := []character.Character{
		character.NewGoblinWarrior("Grunt Orc"),
		character.NewGoblinWarrior("Uruk-hai"),
		character.NewGoblinWarrior("Mordor Elite"),
	}
	if c := character.FindStrongest(warriors); c != nil {
		d.printf("Strongest warrior enemy: %s with %d damage\n", c.Name(), c.CalculatedDamage())
	}
	if c := character.FindTankiest(warriors); c != nil {
		d.printf("Tankiest warrior enemy: %s with %d HP\n", c.Name(), c.CalculatedMaxHealth())
	}
	mages := []character.Character{
		character.NewGoblinMage("Witch-king"),
		character.NewGoblinMage("Mouth of Sauron"),
	}
	if c := character.FindStrongest(mages); c != nil {
		d.printf("Strongest mage enemy: %s with %d damage\n", c.Name(), c.CalculatedDamage())
	}
}

func (d *demo) tournament(title string, entrants []character.Character) {
	d.printf("\n--- %s (%d participants) ---\n", title, len(entrants))
	b := combat.Tournament(entrants, nil)
	for _, r := range b.Rounds {
		d.printf("Round %d:\n", r.Number)
		for _, m := range r.Matches {
			d.printf("  %s vs %s: %s advances after %d rounds\n", m.Fighter1, m.Fighter2, m.Winner, m.Rounds)
		}
		if r.Bye != "" {
			d.printf("  %s gets a bye to the next round!\n", r.Bye)
		}
	}
	if b.Winner != nil {
		d.printf("%s champion: %s!\n", title, b.Winner.Name())
	}
}

func (d *demo) tournaments() {
	d.section("TOURNAMENTS")
	d.tournament("Warrior tournament", []character.Character{
		character.NewGoblinWarrior("Gothmog"),
		character.NewGoblinWarrior("Bolg"),
		character.NewGoblinWarrior("Lurtz"),
		character.NewGoblinWarrior("Grishnakh"),
	})
	d.tournament("Mage tournament", []character.Character{
		character.NewGoblinMage("Radagast"),
		character.NewGoblinMage("Saruman"),
		character.NewGoblinMage("Necromancer"),
	})
}

func (d *demo) battles() {
	d.section("BATTLES")
	w1 := character.NewPlayerWarrior("Eomer")
	w2 := character.NewPlayerWarrior("Theoden")
	d.printf("Warrior vs Warrior: %s\n", combat.Battle(&w1, &w2, nil).Result)

	m := character.NewMerchant("Dale Merchant")
	w3 := character.NewPlayerWarrior("Denethor")
	d.printf("Warrior vs Merchant: %s\n", combat.Battle(&w3, &m, nil).Result)
}

func (d *demo) finalBoss() {
	d.section("FINAL BOSS BATTLE")
	hero := character.NewPlayerWarrior("Frodo")
	boss := character.NewDragonBoss("Balrog")
	hero.AddExperience(250)

	threat, _ := boss.ThreatLevel()
	d.printf("Hero: Level %d, %d HP, %d Damage\n", hero.Level(), hero.CalculatedMaxHealth(), hero.CalculatedDamage())
	d.printf("Boss: Threat %d, %d HP, %d Damage, Invincible: %t\n", threat, boss.CalculatedMaxHealth(), boss.CalculatedDamage(), boss.IsInvincible())
	d.duel(&hero, &boss)
}
