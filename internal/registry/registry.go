// Package registry maps the closed set of game variants to their
// constructors. The table is fixed at compile time: there is no runtime
// registration and no mutable package state, so lookups are safe from any
// goroutine.
package registry

import (
	"fmt"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/games/mnk"
	"github.com/vovakirdan/zeroplay/internal/games/tictactoe"
)

// Options carries per-variant construction parameters.
// Variants without parameters ignore it.
type Options struct {
	MNK mnk.Options
}

// DefaultOptions returns the default parameters for every variant.
func DefaultOptions() Options {
	return Options{MNK: mnk.DefaultOptions()}
}

// Info contains metadata about a variant under default options.
type Info struct {
	Variant game.Variant
	ID      string
	Title   string
	Players int
	Actions int
}

// New creates a fresh game of the given variant.
func New(v game.Variant, opts Options) (game.Game, error) {
	switch v {
	case game.VariantTicTacToe:
		return tictactoe.New(), nil
	case game.VariantMNK:
		g, err := mnk.New(opts.MNK)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, &game.ConstructionError{Variant: v, Err: fmt.Errorf("unsupported variant %d", v)}
	}
}

// Factory returns a constructor bound to v and opts, for callers that create
// many games of one kind. The options are validated once, up front.
func Factory(v game.Variant, opts Options) (func() game.Game, error) {
	if _, err := New(v, opts); err != nil {
		return nil, err
	}
	return func() game.Game {
		g, err := New(v, opts)
		if err != nil {
			panic(fmt.Sprintf("registry: %v", err)) // validated above
		}
		return g
	}, nil
}

// Title returns a human-readable name for the variant.
func Title(v game.Variant) string {
	switch v {
	case game.VariantTicTacToe:
		return "Tic-Tac-Toe"
	case game.VariantMNK:
		return "m,n,k-game"
	default:
		return "Unknown"
	}
}

// List returns information about every variant, in declaration order.
func List() []Info {
	variants := game.Variants()
	result := make([]Info, 0, len(variants))
	for _, v := range variants {
		g, err := New(v, DefaultOptions())
		if err != nil {
			continue
		}
		result = append(result, Info{
			Variant: v,
			ID:      v.String(),
			Title:   Title(v),
			Players: g.NumPlayers(),
			Actions: g.NumActions(),
		})
	}
	return result
}

// Exists checks whether name resolves to a playable variant.
func Exists(name string) bool {
	_, err := game.ParseVariant(name)
	return err == nil
}
