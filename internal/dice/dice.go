// Package dice rolls the word dice for the story-writing game.
package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Each die is a face list; a roll picks one face per die
var dice = [][]string{
	{
		"lighthouse", "attic", "orchard", "harbour", "cellar", "rooftop",
		"meadow", "crossroads", "library", "greenhouse", "train station", "shoreline",
	},
	{
		"grandmother", "stranger", "postman", "twins", "gardener", "sailor",
		"baker", "violinist", "neighbour", "beekeeper", "cartographer", "night watchman",
	},
	{
		"discovers", "loses", "inherits", "buries", "repairs", "follows",
		"remembers", "trades", "hides", "unlocks", "returns", "forgives",
	},
	{
		"a letter", "an old key", "a photograph", "a recipe", "a map",
		"a pocket watch", "a seed", "a song", "a debt", "a secret door",
		"a ring", "a promise",
	},
	{
		"at dawn", "during a storm", "after the harvest", "in midwinter",
		"on a birthday", "by candlelight", "before the wedding", "at low tide",
		"under a full moon", "on the last day of summer", "in the first snow",
		"while the bread rises",
	},
}

// MaxDice is the largest roll a single request may ask for
var MaxDice = len(dice)

// Roll picks one random face from each of the first n dice.
// n is clamped to [1, MaxDice]
func Roll(n int) ([]string, error) {
	if n < 1 {
		n = 1
	}
	if n > MaxDice {
		n = MaxDice
	}

	faces := make([]string, 0, n)
	for _, die := range dice[:n] {
		face, err := randomElement(die)
		if err != nil {
			return nil, fmt.Errorf("failed to roll die: %w", err)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}
	return slice[num.Int64()], nil
}
