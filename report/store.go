package report

import (
	"context"
	"database/sql"
	"fmt"
	"ggp/game"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS decisions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	match_id      TEXT    NOT NULL,
	turn          INTEGER NOT NULL,
	role          TEXT    NOT NULL,
	candidates    TEXT    NOT NULL,
	chosen        TEXT    NOT NULL,
	elapsed_ms    INTEGER NOT NULL,
	depth_charges INTEGER NOT NULL,
	failures      INTEGER NOT NULL,
	mean_depth    REAL    NOT NULL,
	overridden    INTEGER NOT NULL,
	recorded_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS decisions_match ON decisions (match_id, turn);`

// Store is a SQLite audit log of decisions. It doubles as an Observer.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path. Use ":memory:" in tests.
func OpenStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (
		   match_id, turn, role, candidates, chosen, elapsed_ms,
		   depth_charges, failures, mean_depth, overridden, recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Match,
		e.Turn,
		string(e.Role),
		joinCandidates(e.Candidates),
		string(e.Chosen),
		e.Elapsed.Milliseconds(),
		e.Search.DepthCharges,
		e.Search.Failures,
		e.Search.MeanDepth,
		e.Search.Overridden,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Observe inserts the event; failures are logged since observers cannot fail a decision.
func (s *Store) Observe(e Event) {
	if err := s.Insert(context.Background(), e); err != nil {
		log.Error().Err(err).Str("match", e.Match).Int("turn", e.Turn).Msg("failed to store decision")
	}
}

// Decisions returns the stored events of a match ordered by turn.
func (s *Store) Decisions(ctx context.Context, match string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, turn, role, candidates, chosen, elapsed_ms,
		        depth_charges, failures, mean_depth, overridden
		   FROM decisions
		  WHERE match_id = ?
		  ORDER BY turn, id`, match)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e          Event
			role       string
			candidates string
			chosen     string
			elapsedMs  int64
		)
		if err := rows.Scan(&e.Match, &e.Turn, &role, &candidates, &chosen, &elapsedMs,
			&e.Search.DepthCharges, &e.Search.Failures, &e.Search.MeanDepth, &e.Search.Overridden); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Role = game.Role(role)
		e.Chosen = game.Move(chosen)
		e.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		e.Candidates = splitCandidates(candidates)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return events, nil
}

func splitCandidates(s string) []game.Move {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	moves := make([]game.Move, len(parts))
	for i, p := range parts {
		moves[i] = game.Move(p)
	}
	return moves
}
