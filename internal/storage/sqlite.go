// Package storage provides SQLite-based persistence for self-play runs and
// the game records they produce.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/games/mnk"
	"github.com/vovakirdan/zeroplay/internal/registry"
	"github.com/vovakirdan/zeroplay/internal/selfplay"
	"github.com/vovakirdan/zeroplay/internal/session"
)

// ErrNoActiveRun is returned by SaveRecord and SaveRecords before CreateRun
// was called.
var ErrNoActiveRun = errors.New("storage: no active run")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	active *Run
}

var _ selfplay.Sink = (*Store)(nil)

// Run describes one batch of self-play games.
type Run struct {
	ID         string
	Variant    game.Variant
	Options    registry.Options
	Seed       uint64
	StreamBase uint64
	Games      int
	MaxTurns   int // 0 means the variant's action count
	CreatedAt  time.Time
}

// GameEntry is one stored game together with the options of its run.
type GameEntry struct {
	ID        int64
	RunID     string
	Options   registry.Options
	MaxTurns  int
	Record    session.Record
	CreatedAt time.Time
}

// Stats aggregates stored outcomes of one variant.
type Stats struct {
	Variant    game.Variant
	Games      int
	Wins       map[int]int // by player
	Draws      int
	Unfinished int
	TotalMoves int
}

// MeanLength returns the average number of moves per stored game.
func (s Stats) MeanLength() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.Games)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Seeds and streams are stored as decimal text: SQLite integers are signed.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			seed TEXT NOT NULL,
			stream_base TEXT NOT NULL,
			games INTEGER NOT NULL,
			max_turns INTEGER NOT NULL DEFAULT 0,
			mnk_rows INTEGER NOT NULL DEFAULT 0,
			mnk_cols INTEGER NOT NULL DEFAULT 0,
			mnk_k INTEGER NOT NULL DEFAULT 0,
			mnk_players INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			variant TEXT NOT NULL,
			seed TEXT NOT NULL,
			stream TEXT NOT NULL,
			actions TEXT NOT NULL,
			players INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			winner INTEGER NOT NULL DEFAULT -1,
			moves INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_run_id ON games(run_id);
		CREATE INDEX IF NOT EXISTS idx_games_variant ON games(variant, outcome);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	// Databases created before turn caps were stored.
	return s.addColumn("runs", "max_turns", "INTEGER NOT NULL DEFAULT 0")
}

// addColumn adds column to table unless it already exists.
func (s *Store) addColumn(table, column, decl string) error {
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun inserts a new run with a fresh id and makes it the target of
// SaveRecord.
func (s *Store) CreateRun(run Run) (Run, error) {
	run.ID = uuid.NewString()
	o := run.Options.MNK
	_, err := s.db.Exec(
		`INSERT INTO runs (id, variant, seed, stream_base, games, max_turns, mnk_rows, mnk_cols, mnk_k, mnk_players)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Variant.String(),
		formatUint(run.Seed),
		formatUint(run.StreamBase),
		run.Games,
		run.MaxTurns,
		o.Rows, o.Cols, o.K, o.Players,
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot create run: %w", err)
	}

	s.mu.Lock()
	s.active = &run
	s.mu.Unlock()
	return run, nil
}

func (s *Store) activeRun() (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoActiveRun
	}
	return s.active, nil
}

// SaveRecord stores rec under the run most recently created with CreateRun.
func (s *Store) SaveRecord(rec session.Record) error {
	run, err := s.activeRun()
	if err != nil {
		return err
	}
	_, err = s.SaveGame(run.ID, rec)
	return err
}

// SaveRecords stores a whole batch under the active run in one transaction.
// Either every record is stored or none is.
func (s *Store) SaveRecords(recs []session.Record) error {
	run, err := s.activeRun()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, rec := range recs {
		if _, err := insertGame(tx, run.ID, rec); err != nil {
			return fmt.Errorf("storage: game %d of batch: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit batch: %w", err)
	}
	return nil
}

// SaveGame stores rec under runID.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(runID string, rec session.Record) (int64, error) {
	return insertGame(s.db, runID, rec)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertGame(db execer, runID string, rec session.Record) (int64, error) {
	winner, ok := rec.Result.Winner()
	if !ok {
		winner = -1
	}
	result, err := db.Exec(
		`INSERT INTO games (run_id, variant, seed, stream, actions, players, outcome, winner, moves)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		rec.Variant.String(),
		formatUint(rec.Seed),
		formatUint(rec.Stream),
		EncodeActions(rec.Actions),
		rec.Result.Players(),
		rec.Result.Outcome(),
		winner,
		rec.Moves(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RunByID retrieves a run. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	var (
		run              Run
		variant          string
		seed, streamBase string
		o                mnk.Options
		createdAt        any
	)
	err := s.db.QueryRow(
		`SELECT id, variant, seed, stream_base, games, max_turns, mnk_rows, mnk_cols, mnk_k, mnk_players, created_at
		 FROM runs
		 WHERE id = ?`,
		id,
	).Scan(
		&run.ID,
		&variant,
		&seed,
		&streamBase,
		&run.Games,
		&run.MaxTurns,
		&o.Rows,
		&o.Cols,
		&o.K,
		&o.Players,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	if run.Variant, err = game.ParseVariant(variant); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", id, err)
	}
	run.Options = optionsFor(run.Variant, o)
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("storage: run %s: bad seed: %w", id, err)
	}
	if run.StreamBase, err = strconv.ParseUint(streamBase, 10, 64); err != nil {
		return nil, fmt.Errorf("storage: run %s: bad stream: %w", id, err)
	}
	run.CreatedAt = parseTime(createdAt)
	return &run, nil
}

const gameColumns = `g.id, g.run_id, g.variant, g.seed, g.stream, g.actions, g.players, g.outcome, g.winner,
		        r.max_turns, r.mnk_rows, r.mnk_cols, r.mnk_k, r.mnk_players, g.created_at
		 FROM games g JOIN runs r ON r.id = g.run_id`

// GameByID retrieves a stored game. Returns nil if it does not exist.
func (s *Store) GameByID(id int64) (*GameEntry, error) {
	rows, err := s.db.Query(`SELECT `+gameColumns+` WHERE g.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	entries, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// RecentGames retrieves the most recently stored games.
func (s *Store) RecentGames(limit int) ([]GameEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+gameColumns+` ORDER BY g.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	return scanGames(rows)
}

// RunGames retrieves every game of a run in insertion order.
func (s *Store) RunGames(runID string) ([]GameEntry, error) {
	rows, err := s.db.Query(`SELECT `+gameColumns+` WHERE g.run_id = ? ORDER BY g.id`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	return scanGames(rows)
}

func scanGames(rows *sql.Rows) ([]GameEntry, error) {
	defer rows.Close()

	var entries []GameEntry
	for rows.Next() {
		var (
			e                     GameEntry
			variant, seed, stream string
			actions, outcome      string
			players, winner       int
			o                     mnk.Options
			createdAt             any
		)
		if err := rows.Scan(
			&e.ID,
			&e.RunID,
			&variant,
			&seed,
			&stream,
			&actions,
			&players,
			&outcome,
			&winner,
			&e.MaxTurns,
			&o.Rows,
			&o.Cols,
			&o.K,
			&o.Players,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		rec, err := decodeRecord(variant, seed, stream, actions, outcome, players, winner)
		if err != nil {
			return nil, fmt.Errorf("storage: game %d: %w", e.ID, err)
		}
		e.Record = rec
		e.Options = optionsFor(rec.Variant, o)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// OutcomeStats aggregates every stored game of variant.
func (s *Store) OutcomeStats(variant game.Variant) (Stats, error) {
	stats := Stats{Variant: variant, Wins: make(map[int]int)}

	rows, err := s.db.Query(
		`SELECT outcome, winner, COUNT(*), COALESCE(SUM(moves), 0)
		 FROM games
		 WHERE variant = ?
		 GROUP BY outcome, winner`,
		variant.String(),
	)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			outcome       string
			winner, count int
			moves         int
		)
		if err := rows.Scan(&outcome, &winner, &count, &moves); err != nil {
			return stats, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stats.Games += count
		stats.TotalMoves += moves
		switch outcome {
		case "win":
			stats.Wins[winner] += count
		case "draw":
			stats.Draws += count
		default:
			stats.Unfinished += count
		}
	}

	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// EncodeActions renders actions as a comma-separated list.
func EncodeActions(actions []int) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}

// DecodeActions parses a comma-separated action list. Blank input yields an
// empty list.
func DecodeActions(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	actions := make([]int, len(parts))
	for i, p := range parts {
		a, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("storage: bad action %q: %w", p, err)
		}
		actions[i] = a
	}
	return actions, nil
}

func decodeRecord(variant, seed, stream, actions, outcome string, players, winner int) (session.Record, error) {
	var (
		rec session.Record
		err error
	)
	if rec.Variant, err = game.ParseVariant(variant); err != nil {
		return rec, err
	}
	if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return rec, fmt.Errorf("bad seed: %w", err)
	}
	if rec.Stream, err = strconv.ParseUint(stream, 10, 64); err != nil {
		return rec, fmt.Errorf("bad stream: %w", err)
	}
	if rec.Actions, err = DecodeActions(actions); err != nil {
		return rec, err
	}

	switch outcome {
	case "win":
		if winner < 0 || winner >= players {
			return rec, fmt.Errorf("winner %d out of range for %d players", winner, players)
		}
		rec.Result = game.WinResult(players, winner)
	case "draw":
		rec.Result = game.DrawResult(players)
	default:
		rec.Result = game.NewTerminalResult(players)
	}
	return rec, nil
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// optionsFor returns the stored mnk options only when they apply.
func optionsFor(v game.Variant, o mnk.Options) registry.Options {
	opts := registry.DefaultOptions()
	if v == game.VariantMNK {
		opts.MNK = o
	}
	return opts
}
