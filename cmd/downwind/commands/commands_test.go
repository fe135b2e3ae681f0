package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/feli0x/Downwind/pkg/stripper"
)

// runCmd executes the CLI with an isolated (empty) config file.
func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "downwind.yaml")
	if err := os.WriteFile(cfgPath, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return runCmdWithConfig(t, cfgPath, stdin, args...)
}

func runCmdWithConfig(t *testing.T, cfgPath, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(append(args, "--config", cfgPath))
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// --- strip ---

func TestStrip_Stdin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		input    string
		want     string
		wantNote string
	}{
		{"layout", []string{"-c", "layout"}, "p-4 bg-red-500 font-bold", " bg-red-500 font-bold", "Removed layout classes"},
		{"all", []string{"-c", "all"}, `<div class="p-4 bg-red-500">`, `<div class="">`, "Emptied all classes"},
		{"all_noop", []string{"-c", "all"}, `<div>`, `<div>`, "No classes found"},
		{"styling_noop", []string{"-c", "styling"}, "font-bold", "font-bold", "No styling classes found"},
		{"chained", []string{"-c", "layout", "-c", "styling"}, `<p class="x p-4 bg-red-500">`, `<p class="x">`, "Removed layout+styling classes"},
		{"unknown_falls_back", []string{"-c", "colours"}, `<p class="x">`, `<p class="">`, "Emptied all classes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := runCmd(t, tt.input, append([]string{"strip"}, tt.args...)...)
			if err != nil {
				t.Fatalf("strip error = %v (stderr: %s)", err, errOut)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
			if !strings.Contains(errOut, tt.wantNote) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantNote)
			}
		})
	}
}

func TestStrip_NoCategory(t *testing.T) {
	_, _, err := runCmd(t, "p-4", "strip")
	if err == nil || !strings.Contains(err.Error(), "no category") {
		t.Fatalf("expected 'no category' error, got %v", err)
	}
}

func TestStrip_CategoryFromConfig(t *testing.T) {
	cfgPath := writeTemp(t, "cfg.yaml", "category: [styling]\nprefixes:\n  styling: [glass]\n")

	out, _, err := runCmdWithConfig(t, cfgPath, "a glass-card bg-white", "strip")
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if out != "a" {
		t.Errorf("stdout = %q, want %q", out, "a")
	}
}

func TestStrip_InvalidConfig(t *testing.T) {
	cfgPath := writeTemp(t, "cfg.yaml", "prefixes:\n  colours: [x]\n")

	_, _, err := runCmdWithConfig(t, cfgPath, "", "strip", "-c", "layout")
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestStrip_InPlace(t *testing.T) {
	changed := writeTemp(t, "a.html", `<div class="flex p-4 text-sm">`)
	unchanged := writeTemp(t, "b.html", `<div class="flex">`)

	_, errOut, err := runCmd(t, "", "strip", "-c", "layout", "-i", changed, unchanged)
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}

	if got := readFile(t, changed); got != `<div class="flex text-sm">` {
		t.Errorf("changed file = %q", got)
	}
	if got := readFile(t, unchanged); got != `<div class="flex">` {
		t.Errorf("unchanged file = %q", got)
	}
	if !strings.Contains(errOut, changed+": Removed layout classes") {
		t.Errorf("expected per-file notification, got %q", errOut)
	}
	if !strings.Contains(errOut, unchanged+": No layout classes found") {
		t.Errorf("expected per-file notification, got %q", errOut)
	}

	info, err := os.Stat(changed)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected permissions to be kept, got %v", info.Mode().Perm())
	}
}

func TestStrip_InPlaceNeedsFiles(t *testing.T) {
	_, _, err := runCmd(t, "x", "strip", "-c", "layout", "-i")
	if err == nil {
		t.Fatal("expected error for --in-place on stdin")
	}
}

func TestStrip_Lines(t *testing.T) {
	input := "<a class=\"x p-2\">\n<b class=\"x p-2\">\n<i class=\"x p-2\">\n"
	want := "<a class=\"x p-2\">\n<b class=\"x\">\n<i class=\"x p-2\">\n"

	out, _, err := runCmd(t, input, "strip", "-c", "layout", "--lines", "2:2")
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestStrip_InvalidLines(t *testing.T) {
	_, _, err := runCmd(t, "x", "strip", "-c", "layout", "--lines", "5:1")
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestStrip_Output(t *testing.T) {
	in := writeTemp(t, "in.html", `<p class="a text-lg">`)
	outPath := filepath.Join(t.TempDir(), "out.html")

	stdout, _, err := runCmd(t, "", "strip", "-c", "typography", "-o", outPath, in)
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}
	if got := readFile(t, outPath); got != `<p class="a">` {
		t.Errorf("output file = %q", got)
	}
	if got := readFile(t, in); got != `<p class="a text-lg">` {
		t.Errorf("input file must not change, got %q", got)
	}
}

func TestStrip_Check(t *testing.T) {
	dirty := writeTemp(t, "dirty.html", `<p class="a bg-white">`)
	clean := writeTemp(t, "clean.html", `<p class="a">`)

	_, _, err := runCmd(t, "", "strip", "-c", "styling", "--check", clean)
	if err != nil {
		t.Errorf("expected clean file to pass, got %v", err)
	}

	_, _, err = runCmd(t, "", "strip", "-c", "styling", "--check", dirty)
	if !errors.Is(err, ErrWouldChange) {
		t.Errorf("expected ErrWouldChange, got %v", err)
	}
	if got := readFile(t, dirty); got != `<p class="a bg-white">` {
		t.Errorf("--check must not write, file = %q", got)
	}
}

func TestStrip_StatsJSON(t *testing.T) {
	out, errOut, err := runCmd(t, "a bg-red-500 bg-blue-500", "strip", "-c", "styling", "--stats", "--format", "json")
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if out != "a" {
		t.Errorf("stdout = %q, want %q", out, "a")
	}

	// Stats go to stderr after the notification line.
	idx := strings.Index(errOut, "{")
	if idx < 0 {
		t.Fatalf("expected JSON stats on stderr, got %q", errOut)
	}
	var rep stripReport
	if err := json.Unmarshal([]byte(errOut[idx:]), &rep); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}
	if !rep.Changed || rep.Stats.TokensRemoved != 2 || rep.File != "-" {
		t.Errorf("unexpected report: %+v / %+v", rep, rep.Stats)
	}
}

func TestStrip_Quiet(t *testing.T) {
	_, errOut, err := runCmd(t, "p-4", "strip", "-q", "-c", "layout")
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if strings.Contains(errOut, "Removed") {
		t.Errorf("expected no notification in quiet mode, got %q", errOut)
	}
}

// --- inspect / categories / version ---

func TestInspect_JSON(t *testing.T) {
	out, _, err := runCmd(t, `<div class="p-4 bg-white font-bold card"></div>`, "inspect", "--format", "json")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}

	var rep struct {
		File   string `json:"file"`
		Report struct {
			Tokens     int                       `json:"tokens"`
			Categories map[string]map[string]int `json:"categories"`
		} `json:"report"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("failed to unmarshal: %v\n%s", err, out)
	}
	if rep.Report.Tokens != 4 {
		t.Errorf("expected 4 tokens, got %d", rep.Report.Tokens)
	}
	if rep.Report.Categories["styling"]["bg-white"] != 1 {
		t.Errorf("expected bg-white under styling, got %v", rep.Report.Categories)
	}
	if rep.Report.Categories["other"]["card"] != 1 {
		t.Errorf("expected card under other, got %v", rep.Report.Categories)
	}
}

func TestInspect_Text(t *testing.T) {
	out, _, err := runCmd(t, `<div class="p-4 text-sm"></div>`, "inspect")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	for _, want := range []string{"=== - ===", "layout", "p-4", "typography", "text-sm"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCategories(t *testing.T) {
	cfgPath := writeTemp(t, "cfg.yaml", "prefixes:\n  layout: [stack]\n")

	out, _, err := runCmdWithConfig(t, cfgPath, "", "categories", "--format", "jsonl")
	if err != nil {
		t.Fatalf("categories error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 categories, got %d:\n%s", len(lines), out)
	}
	var layout categoryEntry
	if err := json.Unmarshal([]byte(lines[1]), &layout); err != nil {
		t.Fatal(err)
	}
	if layout.Category != "layout" || layout.Prefixes[len(layout.Prefixes)-1] != "stack" {
		t.Errorf("unexpected layout entry: %+v", layout)
	}
	if !strings.Contains(lines[3], `"all"`) {
		t.Errorf("expected all as last entry, got %s", lines[3])
	}
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := runCmd(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, `"version"`) || !strings.Contains(out, `"go_version"`) {
		t.Errorf("unexpected version output: %s", out)
	}
}

// --- watch helpers ---

func TestCleanerFor(t *testing.T) {
	a := &app{stripper: stripper.New(nil)}

	if c := a.cleanerFor([]stripper.Category{stripper.Layout}); c.Name() != "strip(layout)" {
		t.Errorf("unexpected single cleaner %s", c.Name())
	}
	c := a.cleanerFor([]stripper.Category{stripper.Layout, stripper.Styling})
	if c.Name() != "chain(strip(layout)->strip(styling))" {
		t.Errorf("unexpected chain %s", c.Name())
	}
}

func TestWatch_InitialPassAndCancel(t *testing.T) {
	path := writeTemp(t, "w.html", `<p class="a p-4">`)
	a := &app{stripper: stripper.New(nil)}
	cmd := NewRootCmd()
	cmd.SetErr(&bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := a.watch(ctx, cmd, []string{path}, a.cleanerFor([]stripper.Category{stripper.Layout})); err != nil {
		t.Fatalf("watch error = %v", err)
	}
	if got := readFile(t, path); got != `<p class="a">` {
		t.Errorf("expected file to be cleaned on start, got %q", got)
	}
}

func TestCleanFile_MissingFile(t *testing.T) {
	a := &app{stripper: stripper.New(nil)}
	changed, err := a.cleanFile(NewRootCmd(), filepath.Join(t.TempDir(), "gone.html"), a.stripper.ForCategory(stripper.Layout))
	if err != nil || changed {
		t.Errorf("expected missing file to be skipped, got changed=%v err=%v", changed, err)
	}
}

func TestWatch_RewritesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	sibling := filepath.Join(dir, "other.html")
	if err := os.WriteFile(path, []byte(`<p class="a">`), 0o600); err != nil {
		t.Fatal(err)
	}

	a := &app{stripper: stripper.New(nil)}
	cmd := NewRootCmd()
	cmd.SetErr(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, cmd, []string{path}, a.cleanerFor([]stripper.Category{stripper.Layout}))
	}()
	defer func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("watch error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("watch did not stop after cancel")
		}
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	const dirty = `<p class="a p-4 mt-2">`
	if err := os.WriteFile(sibling, []byte(dirty), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(dirty), 0o600); err != nil {
		t.Fatal(err)
	}

	want := `<p class="a">`
	deadline := time.Now().Add(3 * time.Second)
	for readFile(t, path) != want {
		if time.Now().After(deadline) {
			t.Fatalf("file not rewritten, got %q", readFile(t, path))
		}
		time.Sleep(20 * time.Millisecond)
	}

	// The watcher's own write must not trigger further changes.
	time.Sleep(200 * time.Millisecond)
	if got := readFile(t, path); got != want {
		t.Errorf("file did not settle, got %q", got)
	}
	if got := readFile(t, sibling); got != dirty {
		t.Errorf("unwatched sibling was modified: %q", got)
	}
}

func TestRoot_LogJSON(t *testing.T) {
	_, errOut, err := runCmd(t, "p-4", "strip", "-c", "layout", "--debug", "--log-json")
	if err != nil {
		t.Fatalf("strip error = %v", err)
	}
	if !strings.Contains(errOut, `"msg":"config loaded"`) {
		t.Errorf("expected JSON log line on stderr, got %s", errOut)
	}
}
