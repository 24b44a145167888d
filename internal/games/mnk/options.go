package mnk

import (
	"errors"
	"fmt"
)

const (
	MaxSide    = 16
	MinPlayers = 2
	MaxPlayers = 4
)

// Options describes an m,n,k board: Rows x Cols cells, K in a row to win.
type Options struct {
	Rows    int `yaml:"rows" env:"ROWS"`
	Cols    int `yaml:"cols" env:"COLS"`
	K       int `yaml:"k" env:"K"`
	Players int `yaml:"players" env:"PLAYERS"`
}

// DefaultOptions returns a 4x4 board, three in a row, two players.
func DefaultOptions() Options {
	return Options{Rows: 4, Cols: 4, K: 3, Players: 2}
}

// Validate checks the board dimensions and player count.
func (o Options) Validate() error {
	var errs []error
	if o.Rows < 1 || o.Rows > MaxSide {
		errs = append(errs, fmt.Errorf("rows %d not in [1, %d]", o.Rows, MaxSide))
	}
	if o.Cols < 1 || o.Cols > MaxSide {
		errs = append(errs, fmt.Errorf("cols %d not in [1, %d]", o.Cols, MaxSide))
	}
	if o.K < 1 || o.K > max(o.Rows, o.Cols) {
		errs = append(errs, fmt.Errorf("k %d not in [1, max(rows, cols)]", o.K))
	}
	if o.Players < MinPlayers || o.Players > MaxPlayers {
		errs = append(errs, fmt.Errorf("players %d not in [%d, %d]", o.Players, MinPlayers, MaxPlayers))
	}
	return errors.Join(errs...)
}

// Cells returns the board size, which is also the action count.
func (o Options) Cells() int {
	return o.Rows * o.Cols
}
