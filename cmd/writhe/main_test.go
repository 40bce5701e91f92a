package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akhenakh/writhe/writhe"
)

// writeLinkedSquares writes two square loops that link once, as the CA
// traces of chains A and B.
func writeLinkedSquares(t *testing.T) string {
	t.Helper()
	chains := map[byte][][3]float64{
		'A': {{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}, {0, 0, 0}},
		'B': {{1, 1, -1}, {1, 1, 1}, {1, 3, 1}, {1, 3, -1}, {1, 1, -1}},
	}
	var b strings.Builder
	serial := 1
	for _, id := range []byte{'A', 'B'} {
		for i, p := range chains[id] {
			fmt.Fprintf(&b, "ATOM  %5d  CA  GLY %c%4d    %8.3f%8.3f%8.3f  1.00  0.00\n",
				serial, id, i+1, p[0], p[1], p[2])
			serial++
		}
	}
	name := filepath.Join(t.TempDir(), "linked.pdb")
	if err := os.WriteFile(name, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return name
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestRunLinking(t *testing.T) {
	name := writeLinkedSquares(t)
	for _, exec := range []string{"serial", "parallel", "vectorized"} {
		cfg := defaultConfig()
		cfg.Execution = exec
		cfg.Normalize = "gauss"
		cfg.Linking = true

		var out bytes.Buffer
		if err := run(cfg, name, &out, discard()); err != nil {
			t.Fatalf("%s: run failed: %v", exec, err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("%s: got %d lines, want 3:\n%s", exec, len(lines), out.String())
		}
		if want := name + "\tA\t4\t"; !strings.HasPrefix(lines[0], want) {
			t.Errorf("%s: first line %q, want prefix %q", exec, lines[0], want)
		}
		if want := name + "\tA-B\tlinking\t1.000000"; lines[2] != want {
			t.Errorf("%s: linking line %q, want %q", exec, lines[2], want)
		}
	}
}

func TestRunDumpAndPerturb(t *testing.T) {
	name := writeLinkedSquares(t)
	cfg := defaultConfig()
	cfg.Dump = filepath.Join(t.TempDir(), "segments.txt")
	cfg.Perturb = 2
	cfg.Magnitude = 0.25

	var out bytes.Buffer
	if err := run(cfg, name, &out, discard()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.Count(out.String(), "\tperturbed\t"); got != 2 {
		t.Errorf("got %d perturbed lines, want 2:\n%s", got, out.String())
	}

	dump, err := os.ReadFile(cfg.Dump)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(dump)), "\n")
	// A header and four segments per chain.
	if len(lines) != 10 {
		t.Fatalf("dump has %d lines, want 10:\n%s", len(lines), dump)
	}
	if want := "file: " + name + ";Chain: A"; lines[0] != want {
		t.Errorf("dump header %q, want %q", lines[0], want)
	}
	if want := "0;0;0;2;0;0"; lines[1] != want {
		t.Errorf("first dumped segment %q, want %q", lines[1], want)
	}
}

func TestRunErrors(t *testing.T) {
	name := writeLinkedSquares(t)
	bad := []func(*config){
		func(c *config) { c.Formulation = "simpson" },
		func(c *config) { c.Execution = "gpu" },
		func(c *config) { c.Normalize = "4pi" },
		func(c *config) { c.Workers = -2 },
	}
	for i, mod := range bad {
		cfg := defaultConfig()
		mod(&cfg)
		if err := run(cfg, name, io.Discard, discard()); err == nil {
			t.Errorf("case %d: run succeeded, want error", i)
		}
	}
	if err := run(defaultConfig(), filepath.Join(t.TempDir(), "missing.pdb"), io.Discard, discard()); err == nil {
		t.Errorf("run on a missing file succeeded, want error")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "writhe.json")
	text := `{"formulation": "anglesum", "execution": "parallel", "workers": 3, "normalize": "gauss", "nearZero": true, "skipAdjacent": true}`
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(name)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	got, err := cfg.aggregatorOptions()
	if err != nil {
		t.Fatalf("aggregatorOptions failed: %v", err)
	}
	want := writhe.DefaultAggregatorOptions()
	want.Formulation = writhe.FormulationAngleSum
	want.Execution = writhe.ExecutionParallel
	want.Workers = 3
	want.Normalization = writhe.NormalizeGauss
	want.Policy = writhe.NearZero
	want.SkipAdjacent = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(broken); err == nil {
		t.Errorf("loadConfig of broken JSON succeeded, want error")
	}
}

func TestLogWhere(t *testing.T) {
	name := filepath.Join(t.TempDir(), "writhe.log")
	l, err := logWhere(name)
	if err != nil {
		t.Fatalf("logWhere failed: %v", err)
	}
	l.Print("hello")
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Errorf("log file holds %q, want it to contain %q", b, "hello")
	}
	if _, err := logWhere(""); err != nil {
		t.Errorf("logWhere(\"\") failed: %v", err)
	}
}
