package store

// Package store keeps a history of completed motif searches in sqlite. A run
// is keyed by a SHA-256 of its request, so repeating an identical search can be
// answered from history; searches are deterministic, so a stored result is
// exactly what a fresh run would produce. Each stored result carries a CRC-64
// checksum that is verified on load.

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/snksoft/crc"
	_ "modernc.org/sqlite"

	"motiffinder/internal/finder"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    algorithm TEXT NOT NULL,
    motif_length INTEGER NOT NULL,
    sequences TEXT NOT NULL,
    result TEXT NOT NULL,
    checksum TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

var (
	// ErrNotFound is returned by Get for an unknown run id.
	ErrNotFound = errors.New("run not found")
	// ErrChecksum is returned when a stored result no longer matches its checksum.
	ErrChecksum = errors.New("run checksum mismatch")
)

// Run is one stored search.
type Run struct {
	ID          string         `json:"id"`
	Algorithm   string         `json:"algorithm"`
	MotifLength int            `json:"motif_length"`
	Sequences   []string       `json:"sequences"`
	Result      *finder.Result `json:"result"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Key derives the run id for a search: SHA-256 over the algorithm, the motif
// length and the sequences, each newline-terminated.
func Key(algorithm finder.Algorithm, k int, seqs []string) string {
	var b strings.Builder
	b.WriteString(string(algorithm))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(k))
	b.WriteByte('\n')
	for _, s := range seqs {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// checksum is the CRC-64/ECMA of a stored result payload.
func checksum(data []byte) string {
	return fmt.Sprintf("%016x", crc.CalculateCRC(crc.CRC64ECMA, data))
}

// Store is a sqlite-backed run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection serialises writers; sqlite allows only one anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores res under its request key, replacing any earlier run with the
// same key. It returns the stored run.
func (s *Store) Save(ctx context.Context, seqs []string, res *finder.Result) (Run, error) {
	if res == nil {
		return Run{}, errors.New("nil result")
	}
	run := Run{
		ID:          Key(res.Algorithm, res.MotifLength, seqs),
		Algorithm:   string(res.Algorithm),
		MotifLength: res.MotifLength,
		Sequences:   seqs,
		Result:      res,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	seqJSON, err := json.Marshal(seqs)
	if err != nil {
		return Run{}, err
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return Run{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, algorithm, motif_length, sequences, result, checksum, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Algorithm, run.MotifLength, string(seqJSON), string(resJSON), checksum(resJSON), run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Run{}, fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return run, nil
}

// Get loads the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, algorithm, motif_length, sequences, result, checksum, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// Lookup returns the stored result for a request, if any. A stored run only
// answers a request whose algorithm, motif length and sequences all match.
func (s *Store) Lookup(ctx context.Context, algorithm finder.Algorithm, k int, seqs []string) (*finder.Result, bool, error) {
	run, err := s.Get(ctx, Key(algorithm, k, seqs))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !run.matches(algorithm, k, seqs) {
		return nil, false, nil
	}
	return run.Result, true, nil
}

func (r Run) matches(algorithm finder.Algorithm, k int, seqs []string) bool {
	if r.Algorithm != string(algorithm) || r.MotifLength != k || len(r.Sequences) != len(seqs) {
		return false
	}
	if r.Result == nil || r.Result.Algorithm != algorithm || r.Result.MotifLength != k {
		return false
	}
	for i := range seqs {
		if r.Sequences[i] != seqs[i] {
			return false
		}
	}
	return true
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, algorithm, motif_length, sequences, result, checksum, created_at FROM runs ORDER BY created_at DESC, id`
	var args []interface{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run              Run
		seqJSON, resJSON string
		sum, created     string
	)
	if err := sc.Scan(&run.ID, &run.Algorithm, &run.MotifLength, &seqJSON, &resJSON, &sum, &created); err != nil {
		return Run{}, err
	}
	if got := checksum([]byte(resJSON)); got != sum {
		return Run{}, fmt.Errorf("%w: run %s has %s, stored %s", ErrChecksum, run.ID, got, sum)
	}
	if err := json.Unmarshal([]byte(seqJSON), &run.Sequences); err != nil {
		return Run{}, fmt.Errorf("run %s sequences: %w", run.ID, err)
	}
	run.Result = &finder.Result{}
	if err := json.Unmarshal([]byte(resJSON), run.Result); err != nil {
		return Run{}, fmt.Errorf("run %s result: %w", run.ID, err)
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s created_at: %w", run.ID, err)
	}
	run.CreatedAt = t
	return run, nil
}
