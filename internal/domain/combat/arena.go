package combat

import (
	"errors"
	"fmt"

	"rpg-arena/internal/domain/character"
)

var ErrInvalidMatchup = errors.New("invalid matchup")

// experiencePerThreat is the reward per enemy threat level for a player victory.
const experiencePerThreat = 25

type Duel struct {
	Report
	ExperienceGained uint32 `json:"experience_gained"`
	LevelsGained     int    `json:"levels_gained"`
}

// PlayerVsEnemy battles a player against an enemy and rewards a player win
// with experience scaled by the enemy's threat level.
func PlayerVsEnemy(player, enemy *character.Character, obs Observer) (Duel, error) {
	if !player.Kind().IsPlayer() {
		return Duel{}, fmt.Errorf("%w: %s is not a player", ErrInvalidMatchup, player.Kind())
	}
	threat, ok := enemy.ThreatLevel()
	if !ok {
		return Duel{}, fmt.Errorf("%w: %s is not an enemy", ErrInvalidMatchup, enemy.Kind())
	}

	d := Duel{Report: Battle(player, enemy, obs)}
	if d.Result == Winner1 {
		d.ExperienceGained = threat * experiencePerThreat
		d.LevelsGained = player.AddExperience(d.ExperienceGained)
	}
	return d, nil
}

func EnemyVsEnemy(e1, e2 *character.Character, obs Observer) (Report, error) {
	if !e1.Kind().IsEnemy() || !e2.Kind().IsEnemy() {
		return Report{}, fmt.Errorf("%w: %s vs %s is not a monster battle", ErrInvalidMatchup, e1.Kind(), e2.Kind())
	}
	return Battle(e1, e2, obs), nil
}

type Match struct {
	Fighter1 string `json:"fighter1"`
	Fighter2 string `json:"fighter2"`
	Result   Result `json:"result"`
	Winner   string `json:"winner"`
	Rounds   int    `json:"rounds"`
}

type BracketRound struct {
	Number  int     `json:"number"`
	Matches []Match `json:"matches"`
	Bye     string  `json:"bye,omitempty"`
}

type Bracket struct {
	Rounds []BracketRound `json:"rounds"`
	// Winner is nil only when there were no entrants.
	Winner *character.Character `json:"-"`
}

// Tournament runs a single-elimination bracket over copies of the entrants;
// the caller's slice is never modified. Adjacent entrants are paired and
// winners advance at full strength. An odd entrant out advances on a bye with
// its health as it was, unless it was dead, in which case it is revived.
func Tournament(entrants []character.Character, obs Observer) Bracket {
	var b Bracket
	if len(entrants) == 0 {
		return b
	}
	current := append([]character.Character(nil), entrants...)

	for round := 1; len(current) > 1; round++ {
		br := BracketRound{Number: round, Matches: make([]Match, 0, len(current)/2)}
		next := make([]character.Character, 0, (len(current)+1)/2)

		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				bye := current[i]
				bye.Revive()
				br.Bye = bye.Name()
				next = append(next, bye)
				continue
			}
			f1, f2 := current[i], current[i+1]
			rep := Battle(&f1, &f2, obs)
			winner := advance(rep.Result, f1, f2)
			winner.Recover()
			br.Matches = append(br.Matches, Match{
				Fighter1: f1.Name(),
				Fighter2: f2.Name(),
				Result:   rep.Result,
				Winner:   winner.Name(),
				Rounds:   rep.Rounds,
			})
			next = append(next, winner)
		}

		b.Rounds = append(b.Rounds, br)
		current = next
	}

	b.Winner = &current[0]
	return b
}

func advance(r Result, f1, f2 character.Character) character.Character {
	switch r {
	case Winner1:
		return f1
	case Winner2:
		return f2
	default:
		if f1.Health() >= f2.Health() {
			return f1
		}
		return f2
	}
}
