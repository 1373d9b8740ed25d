package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicCatalog(t *testing.T) {
	assert.Equal(t, []string{"Rock", "Paper", "Scissors"}, Classic.Moves())

	tests := []struct {
		player, opponent string
		expected         Outcome
	}{
		{"Rock", "Scissors", Win},
		{"Paper", "Rock", Win},
		{"Scissors", "Paper", Win},
		{"Scissors", "Rock", Loss},
		{"Rock", "Paper", Loss},
		{"Paper", "Scissors", Loss},
		{"Rock", "Rock", Tie},
		{"Paper", "Paper", Tie},
		{"Scissors", "Scissors", Tie},
	}

	for _, test := range tests {
		result := Classic.Compare(test.player, test.opponent)
		assert.Equal(t, test.expected, result, "%s vs %s", test.player, test.opponent)
	}
}

func TestCatalogLookupIsCaseSensitive(t *testing.T) {
	assert.True(t, Classic.Has("Rock"))
	assert.False(t, Classic.Has("rock"))
	assert.False(t, Classic.Has("Lizard"))
	assert.False(t, Classic.Has(""))
}

func TestMovesReturnsCopy(t *testing.T) {
	moves := Classic.Moves()
	moves[0] = "Lizard"
	assert.Equal(t, "Rock", Classic.Moves()[0])
}

func TestCatalogByName(t *testing.T) {
	c, ok := CatalogByName("french")
	require.True(t, ok)
	assert.Equal(t, []string{"Pierre", "Feuille", "Ciseaux"}, c.Moves())
	assert.Equal(t, Win, c.Compare("Pierre", "Ciseaux"))

	c, ok = CatalogByName("")
	require.True(t, ok)
	assert.Same(t, Classic, c)

	_, ok = CatalogByName("klingon")
	assert.False(t, ok)
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"too few moves", []Rule{{Name: "Rock"}}},
		{"empty name", []Rule{{Name: "Rock"}, {Name: ""}}},
		{"duplicate", []Rule{{Name: "Rock"}, {Name: "Rock"}}},
		{"beats itself", []Rule{{Name: "Rock", Beats: []string{"Rock"}}, {Name: "Paper"}}},
		{"unknown target", []Rule{{Name: "Rock", Beats: []string{"Lizard"}}, {Name: "Paper"}}},
		{"mutual", []Rule{
			{Name: "Rock", Beats: []string{"Paper"}},
			{Name: "Paper", Beats: []string{"Rock"}},
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewCatalog("bad", test.rules)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestNewCatalogLizardSpock(t *testing.T) {
	c, err := NewCatalog("rpsls", []Rule{
		{Name: "Rock", Beats: []string{"Scissors", "Lizard"}},
		{Name: "Paper", Beats: []string{"Rock", "Spock"}},
		{Name: "Scissors", Beats: []string{"Paper", "Lizard"}},
		{Name: "Lizard", Beats: []string{"Spock", "Paper"}},
		{Name: "Spock", Beats: []string{"Scissors", "Rock"}},
	})
	require.NoError(t, err)

	assert.Len(t, c.Moves(), 5)
	assert.Equal(t, Win, c.Compare("Lizard", "Spock"))
	assert.Equal(t, Loss, c.Compare("Spock", "Lizard"))
}
