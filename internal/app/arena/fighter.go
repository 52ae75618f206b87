package arena

import (
	"fmt"
	"strings"

	"rpg-arena/internal/domain/character"
)

const maxNameLength = 64

// FighterSpec describes a fighter to build for a single request. Experience is
// granted before the fight, so a player can enter above level 1.
type FighterSpec struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Experience uint32 `json:"experience,omitempty"`
}

func (f FighterSpec) build() (character.Character, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return character.Character{}, fmt.Errorf("%w: name required", ErrInvalidFighter)
	}
	if len(name) > maxNameLength {
		return character.Character{}, fmt.Errorf("%w: name longer than %d bytes", ErrInvalidFighter, maxNameLength)
	}
	kind, err := character.ParseKind(f.Kind)
	if err != nil {
		return character.Character{}, fmt.Errorf("%w: %w", ErrInvalidFighter, err)
	}
	c := character.New(kind, name)
	if f.Experience > 0 {
		if !c.Kind().IsPlayer() {
			return character.Character{}, fmt.Errorf("%w: %s cannot gain experience", ErrInvalidFighter, c.Kind())
		}
		c.AddExperience(f.Experience)
	}
	return c, nil
}

// ParseFighter reads the "kind:name" shorthand used by query strings.
func ParseFighter(s string) (FighterSpec, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok {
		return FighterSpec{}, fmt.Errorf("%w: want kind:name, got %q", ErrInvalidFighter, s)
	}
	return FighterSpec{Kind: kind, Name: name}, nil
}

func memberKey(c *character.Character) string {
	return c.Kind().Slug() + ":" + c.Name()
}
