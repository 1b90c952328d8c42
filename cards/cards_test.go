package cards

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/minicasino/internal/randutil"
)

func TestStandardDeckComposition(t *testing.T) {
	t.Parallel()

	d := StandardDeck()
	require.Len(t, d, 52)

	seen := map[Card]bool{}
	for _, c := range d {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestUnoDeckComposition(t *testing.T) {
	t.Parallel()

	d := UnoDeck()
	require.Len(t, d, 108)

	counts := map[UnoCard]int{}
	for _, c := range d {
		counts[c]++
	}

	for _, color := range UnoColors {
		assert.Equal(t, 1, counts[UnoCard{Color: color, Value: "0", Kind: Number}], "%s 0", color)
		assert.Equal(t, 2, counts[UnoCard{Color: color, Value: "7", Kind: Number}], "%s 7", color)
		for _, v := range []string{Skip, Reverse, DrawTwo} {
			assert.Equal(t, 2, counts[UnoCard{Color: color, Value: v, Kind: Action}], "%s %s", color, v)
		}
	}
	assert.Equal(t, 4, counts[UnoCard{Color: Wild, Value: WildValue, Kind: WildKind}])
	assert.Equal(t, 4, counts[UnoCard{Color: Wild, Value: WildFour, Kind: WildKind}])
}

func compareCards(a, b Card) int {
	return cmp.Or(cmp.Compare(a.Suit, b.Suit), cmp.Compare(a.Rank, b.Rank))
}

func compareUno(a, b UnoCard) int {
	return cmp.Or(cmp.Compare(a.Color, b.Color), cmp.Compare(a.Value, b.Value), cmp.Compare(a.Kind, b.Kind))
}

func TestShuffledDecksArePermutations(t *testing.T) {
	t.Parallel()

	for seed := range int64(20) {
		rng := randutil.New(seed)

		std := NewShuffledDeck(rng, StandardDeck()).cards
		want := StandardDeck()
		slices.SortFunc(std, compareCards)
		slices.SortFunc(want, compareCards)
		require.Equal(t, want, std, "seed %d", seed)

		uno := NewShuffledDeck(rng, UnoDeck()).cards
		wantUno := UnoDeck()
		slices.SortFunc(uno, compareUno)
		slices.SortFunc(wantUno, compareUno)
		require.Equal(t, wantUno, uno, "seed %d", seed)
	}
}

func TestDeckDrawPopsFromTop(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1), MustParseCards("2s", "3s", "4s"))

	c, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, "4♠", c.String())
	assert.Equal(t, 2, d.Len())

	for _, want := range []string{"3♠", "2♠"} {
		c, ok = d.Draw()
		require.True(t, ok)
		assert.Equal(t, want, c.String())
	}
	assert.Equal(t, 0, d.Len())

	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestDeckPushBottom(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1), MustParseCards("2s", "3s"))
	d.PushBottom(MustParseCards("Ah")[0])

	assert.Equal(t, MustParseCards("Ah", "2s", "3s"), d.cards)
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "A♠", want: NewCard(Ace, Spades)},
		{input: "10h", want: NewCard(Ten, Hearts)},
		{input: "Td", want: NewCard(Ten, Diamonds)},
		{input: "kc", want: NewCard(King, Clubs)},
		{input: "9♦", want: NewCard(Nine, Diamonds)},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "red", NewCard(Ten, Hearts).Color())
	assert.Equal(t, "black", NewCard(Ace, Clubs).Color())
	assert.Equal(t, "Wild Draw 4", UnoCard{Color: Wild, Value: WildFour, Kind: WildKind}.String())
	assert.Equal(t, "blue skip", UnoCard{Color: Blue, Value: Skip, Kind: Action}.String())
}

func TestParseUnoCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    UnoCard
		wantErr bool
	}{
		{input: "red 5", want: UnoCard{Color: Red, Value: "5", Kind: Number}},
		{input: "blue skip", want: UnoCard{Color: Blue, Value: Skip, Kind: Action}},
		{input: "green draw2", want: UnoCard{Color: Green, Value: DrawTwo, Kind: Action}},
		{input: "wild", want: UnoCard{Color: Wild, Value: WildValue, Kind: WildKind}},
		{input: "wild4", want: UnoCard{Color: Wild, Value: WildFour, Kind: WildKind}},
		{input: "purple 5", wantErr: true},
		{input: "red 10", wantErr: true},
		{input: "red", wantErr: true},
		{input: "wild red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnoCard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
