package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topo2graph/pkg/errors"
)

const boundJSON = `[{"link":["a","b"],"metadata":{"type":"bound_to"}}]`

// runCLI executes the root command with isolated config and cache
// directories and returns what it wrote.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	c := New(&errOut, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertSingleFile(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)

	stdout, _, err := runCLI(t, "--compact", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != boundJSON+"\n" {
		t.Errorf("stdout = %q, want %q", stdout, boundJSON+"\n")
	}
}

func TestConvertPrettyByDefault(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{endpoint, "h1", "10.0.0.1", "s1", "1"}.`)

	stdout, _, err := runCLI(t, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "[\n  {\n") {
		t.Errorf("output should be indented, got %q", stdout)
	}
	for _, want := range []string{`"identifier": "h1"`, `"s1/1"`, `"type": "connected_to"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %s:\n%s", want, stdout)
		}
	}
}

func TestConvertMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeInput(t, dir, "a.topo", `{bound_to, "a", "b"}.`)
	second := writeInput(t, dir, "b.yaml", "- bound_to: {from: c, to: d}\n")

	stdout, _, err := runCLI(t, "--compact", first, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := boundJSON + "\n" + `[{"link":["c","d"],"metadata":{"type":"bound_to"}}]` + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestConvertUnknownRecordFlushesEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.topo", `{bound_to, "a", "b"}.`)
	bad := writeInput(t, dir, "bad.topo", `{bound_to, "a", "b"}. {frobnicate, x}.`)

	stdout, _, err := runCLI(t, "--compact", good, bad)
	if !errors.Is(err, errors.ErrCodeUnknownRecord) {
		t.Fatalf("error = %v, want UNKNOWN_RECORD", err)
	}
	if stdout != boundJSON+"\n" {
		t.Errorf("stdout = %q, want only the first file's array", stdout)
	}

	var report bytes.Buffer
	Report(&report, err)
	for _, want := range []string{bad, "frobnicate"} {
		if !strings.Contains(report.String(), want) {
			t.Errorf("report %q should contain %q", report.String(), want)
		}
	}
}

func TestConvertNoArgs(t *testing.T) {
	stdout, _, err := runCLI(t)
	if !errors.Is(err, errors.ErrCodeUsage) {
		t.Fatalf("error = %v, want USAGE", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}

	var report bytes.Buffer
	Report(&report, err)
	if !strings.HasSuffix(report.String(), usageLine+"\n") {
		t.Errorf("report %q should end with the usage line", report.String())
	}
}

func TestConvertMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.topo")

	stdout, _, err := runCLI(t, missing)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("error = %v, want FILE_NOT_FOUND", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}

	var report bytes.Buffer
	Report(&report, err)
	want := missing + ": file not found\n" + usageLine + "\n"
	if report.String() != want {
		t.Errorf("report = %q, want %q", report.String(), want)
	}
}

func TestConvertInvalidInputFormat(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)

	_, _, err := runCLI(t, "--input-format", "xml", path)
	if !errors.Is(err, errors.ErrCodeUsage) {
		t.Fatalf("error = %v, want USAGE", err)
	}
}

func TestConvertStrict(t *testing.T) {
	path := writeInput(t, t.TempDir(), "host.topo", `{lm_ph, "h", [{"eth0", "vp0"}], ["vp0"]}.`)

	if _, _, err := runCLI(t, "--no-cache", path); err != nil {
		t.Fatalf("default mode should accept shared suffixes: %v", err)
	}
	_, _, err := runCLI(t, "--no-cache", "--strict", path)
	if !errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
		t.Fatalf("error = %v, want DUPLICATE_IDENTIFIER", err)
	}
}

func TestConvertOutputDir(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "net.topo", `{bound_to, "a", "b"}.`)
	outDir := filepath.Join(dir, "out")

	stdout, stderr, err := runCLI(t, "--compact", "--output-dir", outDir, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}

	out := filepath.Join(outDir, "net.json")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != boundJSON+"\n" {
		t.Errorf("file = %q, want %q", data, boundJSON+"\n")
	}
	if !strings.Contains(stderr, out) {
		t.Errorf("stderr %q should name the written file", stderr)
	}
}

func TestConvertConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "net.topo", `{bound_to, "a", "b"}.`)
	cfg := writeInput(t, dir, "config.toml", "[output]\ncompact = true\n\n[cache]\nbackend = \"none\"\n")

	stdout, _, err := runCLI(t, "--config", cfg, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != boundJSON+"\n" {
		t.Errorf("stdout = %q, want compact output from config", stdout)
	}
}

func TestRenderDOT(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)

	stdout, _, err := runCLI(t, "render", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "digraph G {") {
		t.Errorf("stdout should be DOT, got %q", stdout)
	}
	if !strings.Contains(stdout, `"a" -> "b"`) {
		t.Errorf("DOT should contain the link:\n%s", stdout)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)

	_, _, err := runCLI(t, "render", "--format", "png", path)
	if !errors.Is(err, errors.ErrCodeUsage) {
		t.Fatalf("error = %v, want USAGE", err)
	}
}

func TestCachePath(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	var out, errOut bytes.Buffer
	c := New(&errOut, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(cacheHome, appName) + "\n"
	if out.String() != want {
		t.Errorf("cache path = %q, want %q", out.String(), want)
	}
}

func TestCacheClear(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	run := func(args ...string) string {
		t.Helper()
		var out, errOut bytes.Buffer
		c := New(&errOut, LogInfo)
		c.Out = &out
		root := c.RootCommand()
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return errOut.String()
	}

	run(path)
	entries, _ := os.ReadDir(filepath.Join(cacheHome, appName))
	if len(entries) == 0 {
		t.Fatal("conversion should populate the cache")
	}

	stderr := run("cache", "clear")
	if !strings.Contains(stderr, "Cleared file cache") {
		t.Errorf("stderr = %q", stderr)
	}
	entries, _ = os.ReadDir(filepath.Join(cacheHome, appName))
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries after clear", len(entries))
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "usage",
			err:  errors.New(errors.ErrCodeUsage, "no input files"),
			want: "no input files\n" + usageLine + "\n",
		},
		{
			name: "file not found",
			err:  errors.New(errors.ErrCodeFileNotFound, "x.topo: file not found"),
			want: "x.topo: file not found\n" + usageLine + "\n",
		},
		{
			name: "input error keeps chain",
			err:  errors.New(errors.ErrCodeUnknownRecord, "unknown record: {foo}"),
			want: "UNKNOWN_RECORD: unknown record: {foo}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Report(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("Report() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input, ext, want string
	}{
		{"net.topo", ".json", "net.json"},
		{"dir/lab.yaml", ".svg", "lab.svg"},
		{"noext", ".dot", "noext.dot"},
		{"a.b.topo", ".json", "a.b.json"},
	}

	for _, tt := range tests {
		if got := outputName(tt.input, tt.ext); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestNewBatchID(t *testing.T) {
	if got := newBatchID("lab-1"); got != "lab-1" {
		t.Errorf("newBatchID(explicit) = %q", got)
	}
	a, b := newBatchID(""), newBatchID("")
	if len(a) != 36 || a == b {
		t.Errorf("generated batch IDs should be distinct UUIDs, got %q and %q", a, b)
	}
}

func TestCheckReplace(t *testing.T) {
	tests := []struct {
		replace bool
		batch   string
		wantErr bool
	}{
		{false, "", false},
		{false, "lab-1", false},
		{true, "lab-1", false},
		{true, "", true},
	}
	for _, tt := range tests {
		err := checkReplace(tt.replace, tt.batch)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkReplace(%v, %q) = %v, wantErr %v", tt.replace, tt.batch, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUsage) {
			t.Errorf("checkReplace error = %v, want USAGE", err)
		}
	}
}

func TestPushMongoReplaceWithoutBatch(t *testing.T) {
	path := writeInput(t, t.TempDir(), "net.topo", `{bound_to, "a", "b"}.`)

	// Rejected before any connection attempt, so no server is needed.
	_, _, err := runCLI(t, "push", "mongo", "--uri", "mongodb://127.0.0.1:1", "--replace", path)
	if !errors.Is(err, errors.ErrCodeUsage) {
		t.Fatalf("error = %v, want USAGE", err)
	}
	if !strings.Contains(err.Error(), "--replace requires --batch") {
		t.Errorf("error %q should name the missing flag", err)
	}
}
