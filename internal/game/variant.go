package game

import (
	"fmt"
	"strings"
)

// Variant is the closed set of supported games. Adding a game means adding a
// constant here and a constructor case in the registry.
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantTicTacToe
	VariantMNK
)

// Variants lists every playable variant in declaration order.
func Variants() []Variant {
	return []Variant{VariantTicTacToe, VariantMNK}
}

// String returns the variant identifier used in config, CLI and storage.
func (v Variant) String() string {
	switch v {
	case VariantTicTacToe:
		return "tictactoe"
	case VariantMNK:
		return "mnk"
	default:
		return "unknown"
	}
}

// ParseVariant resolves an identifier to a variant. Matching is case-insensitive
// and accepts "tic_tac_toe" and "ttt" for tic-tac-toe.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tictactoe", "tic_tac_toe", "tic-tac-toe", "ttt":
		return VariantTicTacToe, nil
	case "mnk":
		return VariantMNK, nil
	}
	return VariantUnknown, fmt.Errorf("game: unknown variant %q", name)
}
