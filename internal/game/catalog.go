package game

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidCatalog is returned when a move table cannot form a game.
var ErrInvalidCatalog = errors.New("invalid move catalog")

// Rule declares one move and the moves it defeats.
type Rule struct {
	Name  string
	Beats []string
}

// Outcome is the result of one round from the player's side.
type Outcome int

const (
	Tie Outcome = iota
	Win
	Loss
)

// String returns the outcome category name
func (o Outcome) String() string {
	switch o {
	case Tie:
		return "tie"
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for _, candidate := range []Outcome{Tie, Win, Loss} {
		if candidate.String() == string(b) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Catalog is an immutable move table. Moves keep their declaration order so
// adapters can render buttons consistently.
type Catalog struct {
	name  string
	moves []string
	beats map[string][]string
}

// NewCatalog validates rules and builds a catalog from them.
func NewCatalog(name string, rules []Rule) (*Catalog, error) {
	if len(rules) < 2 {
		return nil, fmt.Errorf("%w: %q needs at least two moves", ErrInvalidCatalog, name)
	}

	c := &Catalog{
		name:  name,
		moves: make([]string, 0, len(rules)),
		beats: make(map[string][]string, len(rules)),
	}

	for _, rule := range rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("%w: %q has a move with no name", ErrInvalidCatalog, name)
		}
		if _, dup := c.beats[rule.Name]; dup {
			return nil, fmt.Errorf("%w: %q declares %q twice", ErrInvalidCatalog, name, rule.Name)
		}
		c.moves = append(c.moves, rule.Name)
		c.beats[rule.Name] = slices.Clone(rule.Beats)
	}

	for _, move := range c.moves {
		for _, beaten := range c.beats[move] {
			if beaten == move {
				return nil, fmt.Errorf("%w: %q beats itself", ErrInvalidCatalog, move)
			}
			if _, ok := c.beats[beaten]; !ok {
				return nil, fmt.Errorf("%w: %q beats unknown move %q", ErrInvalidCatalog, move, beaten)
			}
			if slices.Contains(c.beats[beaten], move) {
				return nil, fmt.Errorf("%w: %q and %q beat each other", ErrInvalidCatalog, move, beaten)
			}
		}
	}

	return c, nil
}

// MustCatalog is NewCatalog for tables known to be valid at compile time.
func MustCatalog(name string, rules []Rule) *Catalog {
	c, err := NewCatalog(name, rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the catalog name
func (c *Catalog) Name() string { return c.name }

// Moves returns the move names in declaration order.
func (c *Catalog) Moves() []string {
	return slices.Clone(c.moves)
}

// Has reports whether move is a key of the catalog. Matching is case-sensitive.
func (c *Catalog) Has(move string) bool {
	_, ok := c.beats[move]
	return ok
}

// Beats reports whether a defeats b.
func (c *Catalog) Beats(a, b string) bool {
	return slices.Contains(c.beats[a], b)
}

// Compare scores player against opponent. Both moves must be catalog keys.
func (c *Catalog) Compare(player, opponent string) Outcome {
	switch {
	case player == opponent:
		return Tie
	case c.Beats(player, opponent):
		return Win
	default:
		return Loss
	}
}

// Built-in catalogs.
var (
	Classic = MustCatalog("classic", []Rule{
		{Name: "Rock", Beats: []string{"Scissors"}},
		{Name: "Paper", Beats: []string{"Rock"}},
		{Name: "Scissors", Beats: []string{"Paper"}},
	})

	French = MustCatalog("french", []Rule{
		{Name: "Pierre", Beats: []string{"Ciseaux"}},
		{Name: "Feuille", Beats: []string{"Pierre"}},
		{Name: "Ciseaux", Beats: []string{"Feuille"}},
	})
)

// CatalogByName returns a built-in catalog.
func CatalogByName(name string) (*Catalog, bool) {
	switch name {
	case "classic", "":
		return Classic, true
	case "french":
		return French, true
	default:
		return nil, false
	}
}
