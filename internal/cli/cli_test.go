package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/treeideals/pkg/bench"
	"github.com/matzehuels/treeideals/pkg/enumerate"
	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/ideal"
	"github.com/matzehuels/treeideals/pkg/partition"
	"github.com/matzehuels/treeideals/pkg/samples"
)

// runCLI executes the root command with args and returns what it printed.
// The configuration file is looked up in a fresh temporary directory
// unless args set --config.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)

	hasConfig := false
	for _, a := range args {
		if a == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestCount(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"count", "--sample", "set_7Readme"}, "30"},
		{[]string{"count"}, "30"},
		{[]string{"count", "--sample", "set_7Readme", "--at", "2"}, "5"},
		{[]string{"count", "-s", "set_3D"}, "3"},
		{[]string{"count", "-s", "set_Ruskey"}, "33"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		args []string
		code apperrors.Code
	}{
		{[]string{"count", "--at", "99"}, apperrors.ErrCodeInvalidInput},
		{[]string{"count", "--sample", "nope"}, apperrors.ErrCodeSampleNotFound},
		{[]string{"count", "--sample", "../x"}, apperrors.ErrCodeInvalidInput},
		{[]string{"count", "--file", "missing.json"}, apperrors.ErrCodeFileNotFound},
		{[]string{"count", "--order", "random"}, apperrors.ErrCodeInvalidInput},
		{[]string{"generate", "--mode", "json"}, apperrors.ErrCodeInvalidMode},
		{[]string{"generate", "--engine", "quick"}, apperrors.ErrCodeInvalidEngine},
		{[]string{"render", "--ideal", "2,5", "--format", "dot"}, apperrors.ErrCodeInvalidInput},
		{[]string{"render", "--ideal", "1,x"}, apperrors.ErrCodeInvalidInput},
		{[]string{"render", "--format", "gif"}, apperrors.ErrCodeInvalidFormat},
		{[]string{"bench", "--reps", "0"}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCountRejectsUnknownParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("root: 1\nparents: [0, 1, 8, 3]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, cmd := range []string{"count", "generate", "bench"} {
		if _, err := runCLI(t, cmd, "--file", path); !apperrors.Is(err, apperrors.ErrCodeLookupMiss) {
			t.Errorf("%s: err = %v, want LOOKUP_MISS", cmd, err)
		}
	}
}

func TestGenerate(t *testing.T) {
	out, err := runCLI(t, "generate", "--sample", "set_3D", "--engine", "kr", "--mode", "labels")
	if err != nil {
		t.Fatal(err)
	}
	if want := "[1]\n[1 2]\n[1 2 3]\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, err = runCLI(t, "generate", "--sample", "set_3W", "--engine", "pjp", "--mode", "indices")
	if err != nil {
		t.Fatal(err)
	}
	if want := "[0 1 2]\n[0 1]\n[0 2]\n[0]\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestGenerateBoth(t *testing.T) {
	out, err := runCLI(t, "generate", "--engine", "both")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"=== koda-ruskey ===", "=== pop-jump-push ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if got := len(lines(out)); got != 62 {
		t.Errorf("got %d lines, want 2 headers and 2x30 ideals", got)
	}
}

func TestGenerateParallel(t *testing.T) {
	out, err := runCLI(t, "generate", "--engine", "pjp-par", "--workers", "4")
	if err != nil {
		t.Fatal(err)
	}
	got := lines(out)
	if len(got) != 30 {
		t.Fatalf("got %d ideals, want 30", len(got))
	}
	seen := make(map[string]bool)
	for _, l := range got {
		worker, set, ok := strings.Cut(l, ": ")
		if !ok || strings.TrimSpace(worker) == "" {
			t.Fatalf("line %q has no worker prefix", l)
		}
		if seen[set] {
			t.Errorf("duplicate ideal %s", set)
		}
		seen[set] = true
	}
}

func TestGenerateLimit(t *testing.T) {
	for _, engine := range []string{"kr", "pjp", "pjp-par"} {
		out, err := runCLI(t, "generate", "--engine", engine, "--workers", "4", "--limit", "5")
		if err != nil {
			t.Fatal(err)
		}
		if got := len(lines(out)); got != 5 {
			t.Errorf("%s: got %d ideals, want 5", engine, got)
		}
	}
}

func TestGenerateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "star.yaml")
	if err := os.WriteFile(path, []byte("root: 1\nparents: [0, 1, 1]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "generate", "--file", path, "--order", "largest")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(lines(out)); got != 4 {
		t.Errorf("got %d ideals, want 4", got)
	}
}

func TestBenchJSON(t *testing.T) {
	out, err := runCLI(t, "bench", "--engine", "pjp-par", "--workers", "4", "--reps", "2", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var r bench.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Ideals != 30 || r.Reps != 2 || r.Workers != 3 || len(r.WorkerStats) != 3 {
		t.Errorf("report = %+v", r)
	}
	if r.Sample != "set_7Readme" {
		t.Errorf("sample = %q", r.Sample)
	}
}

func TestBenchCached(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[cache]\ndir = " + strconvQuote(filepath.Join(dir, "cache")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := runCLI(t, "--config", cfgPath, "bench", "--engine", "kr", "--reps", "1", "--cached")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(first, "(cached)") {
		t.Error("first run should not be served from the cache")
	}
	second, err := runCLI(t, "--config", cfgPath, "bench", "--engine", "kr", "--reps", "1", "--cached")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(second, "(cached)") {
		t.Errorf("second run should be cached:\n%s", second)
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestDump(t *testing.T) {
	out, err := runCLI(t, "dump", "--workers", "4")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"=== koda-ruskey ===", "=== pop-jump-push ===", "[7 4 3 4 6 6 7]", "start 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
}

func TestPartitionJSON(t *testing.T) {
	out, err := runCLI(t, "partition", "--workers", "4", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var plan []partition.Worker
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatal(err)
	}
	if len(plan) != 3 {
		t.Errorf("got %d workers, want 3", len(plan))
	}
}

func TestSamples(t *testing.T) {
	out, err := runCLI(t, "samples")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range samples.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("listing lacks %s", name)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := runCLI(t, "render", "--ideal", "1,2,5", "--format", "dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "digraph") || !strings.Contains(out, `n5 [label="5", fillcolor=`) {
		t.Errorf("unexpected DOT:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "tree.dot")
	if _, err := runCLI(t, "render", "-o", path); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || !bytes.Contains(data, []byte("digraph")) {
		t.Errorf("%s: %v %q", path, err, data)
	}
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	if _, err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	out, err := runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `engine = "koda-ruskey"`) {
		t.Errorf("show lacks the engine:\n%s", out)
	}
	out, err = runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("path = %q, want %q", out, path)
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "treeideals"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
	out, err = runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on a fresh directory = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "treeideals") {
		t.Error("bash completion does not mention the command")
	}
}

func TestParseEngines(t *testing.T) {
	tests := []struct {
		in   string
		want []enumerate.Engine
	}{
		{"kr", []enumerate.Engine{enumerate.KodaRuskey}},
		{"both", []enumerate.Engine{enumerate.KodaRuskey, enumerate.PopJumpPush}},
		{"all", enumerate.Engines()},
		{"parallel", []enumerate.Engine{enumerate.Parallel}},
	}
	for _, tt := range tests {
		got, err := parseEngines(tt.in)
		if err != nil {
			t.Fatalf("parseEngines(%q): %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("parseEngines(%q) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseEngines(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestParseLabels(t *testing.T) {
	got, err := parseLabels(" 1, 2,5 ")
	if err != nil {
		t.Fatal(err)
	}
	if ideal.Key(got) != ideal.Key([]int{1, 2, 5}) {
		t.Errorf("parseLabels = %v", got)
	}
	if got, err := parseLabels(""); err != nil || got != nil {
		t.Errorf("parseLabels(\"\") = %v, %v", got, err)
	}
}

func TestLimitSinkConcurrent(t *testing.T) {
	var mu sync.Mutex
	passed := 0
	next := ideal.SinkFunc(func(ideal.View) bool {
		mu.Lock()
		defer mu.Unlock()
		passed++
		return true
	})
	s := &limitSink{next: next, limit: 10}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				s.Visit(ideal.SequenceView([]int{0}, []int{1}, w))
			}
		}()
	}
	wg.Wait()
	if passed != 10 {
		t.Errorf("passed %d ideals, want 10", passed)
	}
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestGrayModel(t *testing.T) {
	m, err := newGrayModel(samples.MustGet("set_3D"), "set_3D")
	if err != nil {
		t.Fatal(err)
	}
	if m.step != 1 || !strings.Contains(m.View(), "[1/3] added 1") {
		t.Fatalf("initial view:\n%s", m.View())
	}

	var model tea.Model = m
	for range 2 {
		model, _ = model.Update(key('n'))
	}
	if v := model.View(); !strings.Contains(v, "[3/3] added 3") {
		t.Errorf("third view:\n%s", v)
	}
	model, _ = model.Update(key('n'))
	if v := model.View(); !strings.Contains(v, "all 3 ideals visited") {
		t.Errorf("final view:\n%s", v)
	}

	model, _ = model.Update(key('r'))
	if gm := model.(GrayModel); gm.step != 1 || gm.done {
		t.Errorf("after restart step = %d, done = %v", gm.step, gm.done)
	}

	if _, cmd := model.Update(key('q')); cmd == nil {
		t.Error("q should quit")
	}
}
