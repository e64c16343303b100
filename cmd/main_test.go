package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motiffinder/internal/finder"
)

const textbook = "GGCGTTCAGGCA\nAAGAATCAGTCA\nCAAGGAGTTCGC\nCACGTCAATCAC\nCAATAATATTCG\n"

func TestRunPrintsReportAndWritesJSON(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.json")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-k", "4", "-out", out, "-config", filepath.Join(dir, "none.json")}, strings.NewReader(textbook), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d; stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Seq 5: ATTC") || !strings.Contains(stdout.String(), finder.LogoPlaceholder) {
		t.Fatalf("unexpected report:\n%s", stdout.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	var res finder.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if res.Consensus != "ATTC" || res.Score != 6 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunWarnsOnSingleSequence(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-k", "4", "-config", filepath.Join(t.TempDir(), "none.json")}, strings.NewReader(">only\nACGTACGT\n"), &stdout, &stderr)
	if code != exitWarning {
		t.Fatalf("expected exit %d, got %d", exitWarning, code)
	}
	if !strings.Contains(stdout.String(), "Please enter at least two DNA sequences.") {
		t.Fatalf("missing warning:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "Consensus Motif") {
		t.Fatalf("search output shown after rejection")
	}
}

func TestRunUsesHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	args := []string{"-k", "4", "-history", db, "-verbose", "-config", filepath.Join(dir, "none.json")}

	var stdout, stderr bytes.Buffer
	if code := run(args, strings.NewReader(textbook), &stdout, &stderr); code != 0 {
		t.Fatalf("first run failed: %d %s", code, stderr.String())
	}
	first := stdout.String()

	stdout.Reset()
	stderr.Reset()
	if code := run(args, strings.NewReader(textbook), &stdout, &stderr); code != 0 {
		t.Fatalf("second run failed: %d %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "answered from run history") {
		t.Fatalf("expected history hit, log:\n%s", stderr.String())
	}
	if stdout.String() != first {
		t.Fatalf("history result differs from fresh search")
	}
}

func TestRunDryRunAndToggles(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-k", "4", "-dry-run", "-config", filepath.Join(dir, "none.json")}, strings.NewReader(textbook), &stdout, &stderr)
	if code != 0 || stdout.Len() != 0 {
		t.Fatalf("dry run: code=%d stdout=%q", code, stdout.String())
	}

	stdout.Reset()
	code = run([]string{"-k", "4", "-no-pwm", "-no-logo", "-no-alignment", "-config", filepath.Join(dir, "none.json")}, strings.NewReader(textbook), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit %d", code)
	}
	if strings.Contains(stdout.String(), "Sequence Logo") || !strings.Contains(stdout.String(), "Consensus Motif") {
		t.Fatalf("toggles ignored:\n%s", stdout.String())
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, nil, &stdout, &stderr); code != 0 || !strings.Contains(stdout.String(), version) {
		t.Fatalf("unexpected version output %q (code %d)", stdout.String(), code)
	}
}
