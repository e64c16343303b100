package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"motiffinder/internal/finder"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func search(t *testing.T, text string, k int) (finder.Request, *finder.Result) {
	t.Helper()
	req, err := finder.NewRequest(text, k, "")
	if err != nil {
		t.Fatalf("bad input: %v", err)
	}
	res, err := finder.New(finder.DefaultOptions(), nil).Run(req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	return req, res
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	req, res := search(t, "GGCGTTCAGGCA\nAAGAATCAGTCA\nCAAGGAGTTCGC\n", 4)

	run, err := s.Save(ctx, req.Sequences, res)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if run.ID != Key(finder.Greedy, 4, req.Sequences) {
		t.Fatalf("unexpected run id %s", run.ID)
	}

	got, err := s.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Result.Consensus != res.Consensus || got.Result.Score != res.Score {
		t.Fatalf("unexpected result: %+v", got.Result)
	}
	if len(got.Result.Motifs) != 3 || got.Result.Profile.Width() != 4 {
		t.Fatalf("result not fully restored: %+v", got.Result)
	}
	if len(got.Sequences) != 3 || got.Sequences[1] != "AAGAATCAGTCA" {
		t.Fatalf("unexpected sequences: %q", got.Sequences)
	}
}

func TestLookup(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	req, res := search(t, "AAAAAA\nAAAAAA\n", 4)

	if _, ok, err := s.Lookup(ctx, finder.Greedy, 4, req.Sequences); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if _, err := s.Save(ctx, req.Sequences, res); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Lookup(ctx, finder.Greedy, 4, req.Sequences)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Consensus != "AAAA" {
		t.Fatalf("unexpected consensus %q", got.Consensus)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Get(context.Background(), "deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	inputs := []string{"AAAAAA\nCCCCCC\n", "ACGTAC\nACGTAC\n", "TTTTGG\nGGTTTT\n"}
	var ids []string
	for _, in := range inputs {
		req, res := search(t, in, 4)
		run, err := s.Save(ctx, req.Sequences, res)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %+v", runs)
	}
	all, err := s.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d (err=%v)", len(all), err)
	}
}

func TestKeyDistinguishesRequests(t *testing.T) {
	seqs := []string{"ACGT", "TGCA"}
	a := Key(finder.Greedy, 4, seqs)
	if a != Key(finder.Greedy, 4, []string{"ACGT", "TGCA"}) {
		t.Fatalf("key not stable")
	}
	if a == Key(finder.Greedy, 3, seqs) {
		t.Fatalf("key ignores motif length")
	}
	if a == Key(finder.Greedy, 4, []string{"ACGTT", "GCA"}) {
		t.Fatalf("key ignores sequence boundaries")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex digits, got %q", a)
	}
}

func TestLookupIgnoresRunStoredUnderForeignKey(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	reqA, _ := search(t, "AAAAAAAAAA\nACGTACGTAC\n", 4)
	reqB, resB := search(t, "CCAAAAACCA\nACGTACGTAC\n", 4)

	run, err := s.Save(ctx, reqB.Sequences, resB)
	if err != nil {
		t.Fatal(err)
	}
	// file B's run under A's key, as a key collision would
	keyA := Key(finder.Greedy, 4, reqA.Sequences)
	if _, err := s.db.ExecContext(ctx, `UPDATE runs SET id = ? WHERE id = ?`, keyA, run.ID); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Lookup(ctx, finder.Greedy, 4, reqA.Sequences)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ok {
		t.Fatalf("served another request's result: %+v", got)
	}
	if _, ok, _ := s.Lookup(ctx, finder.Greedy, 5, reqA.Sequences); ok {
		t.Fatalf("hit for a different motif length")
	}
}

func TestGetRejectsCorruptResult(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	req, res := search(t, "ACGTTA\nACGTAA\nTCGTAA\n", 4)
	run, err := s.Save(ctx, req.Sequences, res)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE runs SET result = replace(result, '"score":', '"score":1') WHERE id = ?`, run.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, run.ID); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}
