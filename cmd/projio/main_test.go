package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projio/internal/config"
	"projio/internal/ledger"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}

// run executes the root command and returns what it printed.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var runErr error
	out := captureStdout(t, func() {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		runErr = cmd.Execute()
	})
	if runErr != nil {
		t.Fatalf("projio %s: %v", strings.Join(args, " "), runErr)
	}
	return out
}

func initProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := run(t, "--json", "init", dir)
	var res map[string]string
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("init output %q: %v", out, err)
	}
	if res["config"] != config.ConfigPath(dir) {
		t.Fatalf("unexpected config path %q", res["config"])
	}
	return dir, res["config"]
}

func TestNewRootCmdIncludesCoreCommands(t *testing.T) {
	cmd := newRootCmd()
	got := map[string]bool{}
	for _, c := range cmd.Commands() {
		got[c.Name()] = true
	}
	for _, want := range []string{"init", "path", "for", "templates", "describe", "tree", "gitignore", "track", "producers", "outputs", "version"} {
		if !got[want] {
			t.Fatalf("expected command %q", want)
		}
	}
}

func TestPrintMessageAndJSON(t *testing.T) {
	msgOut := captureStdout(t, func() {
		if err := print(false, nil, "ok-message"); err != nil {
			t.Fatalf("print message failed: %v", err)
		}
	})
	if !strings.Contains(msgOut, "ok-message") {
		t.Fatalf("expected message output, got %q", msgOut)
	}

	jsonOut := captureStdout(t, func() {
		if err := print(true, map[string]string{"k": "v"}, "ignored"); err != nil {
			t.Fatalf("print json failed: %v", err)
		}
	})
	var parsed map[string]string
	if err := json.Unmarshal([]byte(jsonOut), &parsed); err != nil {
		t.Fatalf("expected valid json output, got %q: %v", jsonOut, err)
	}
	if parsed["k"] != "v" {
		t.Fatalf("unexpected json payload: %+v", parsed)
	}
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"name=model", "sample=A=1"})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}
	if vars["name"] != "model" || vars["sample"] != "A=1" {
		t.Fatalf("unexpected vars %+v", vars)
	}
	for _, bad := range []string{"novalue", "=x"} {
		_, err := parseVars([]string{bad})
		var ex ExitCoder
		if !errors.As(err, &ex) || ex.ExitCode() != 2 {
			t.Fatalf("expected exit code 2 for %q, got %v", bad, err)
		}
	}
}

func TestInitRefusesSecondRun(t *testing.T) {
	dir, _ := initProject(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"init", dir})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("expected already initialized error, got %v", err)
	}
}

func TestPathCommandResolvesCheckpoint(t *testing.T) {
	dir, cfgPath := initProject(t)
	out := run(t, "--json", "--config", cfgPath, "path", "checkpoint", "--run", "exp1", "--var", "name=model", "--datestamp=false")

	var res pathResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("path output %q: %v", out, err)
	}
	want := filepath.Join(dir, "lightning", "checkpoints", "exp1", "model.ckpt")
	if res.Path != want {
		t.Fatalf("path: want %s, got %s", want, res.Path)
	}
	if _, err := os.Stat(filepath.Dir(want)); err != nil {
		t.Fatalf("expected run directory to be created: %v", err)
	}
}

func TestPathCommandMapping(t *testing.T) {
	_, cfgPath := initProject(t)
	out := run(t, "--json", "--config", cfgPath, "--dry-run", "path", "filtered_matrix", "--datestamp=false")

	var res pathResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("path output %q: %v", out, err)
	}
	if len(res.Paths) != 3 || res.Path != "" {
		t.Fatalf("expected three mapped paths, got %+v", res)
	}
	if !strings.HasSuffix(res.Paths["matrix"], "matrix.mtx") {
		t.Fatalf("unexpected matrix path %q", res.Paths["matrix"])
	}
}

func TestDryRunCreatesNothing(t *testing.T) {
	dir, cfgPath := initProject(t)
	out := run(t, "--json", "--config", cfgPath, "--dry-run", "for", "logs", "train", "--ext", "log", "--subdir", "a")

	var res pathResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("for output %q: %v", out, err)
	}
	if !strings.HasSuffix(res.Path, "train.log") {
		t.Fatalf("unexpected path %q", res.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Fatalf("dry-run must not create directories, stat err=%v", err)
	}
}

func TestForUnknownKind(t *testing.T) {
	_, cfgPath := initProject(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfgPath, "for", "nope"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func TestTemplatesAddAndResolve(t *testing.T) {
	dir, cfgPath := initProject(t)
	run(t, "--json", "--config", cfgPath, "templates", "add", "umap",
		"--under", "figures", "--pattern", "{sample}", "--pattern", "umap", "--ext", ".png")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if _, ok := config.FindTemplate(cfg, "umap"); !ok {
		t.Fatalf("template not saved: %+v", cfg.Templates)
	}

	out := run(t, "--json", "--config", cfgPath, "path", "umap", "--var", "sample=S1", "--datestamp=false", "--create=false")
	var res pathResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("path output %q: %v", out, err)
	}
	want := filepath.Join(dir, "figures", "S1", "umap.png")
	if res.Path != want {
		t.Fatalf("path: want %s, got %s", want, res.Path)
	}

	out = run(t, "--json", "--config", cfgPath, "templates")
	var infos []templateInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("templates output %q: %v", out, err)
	}
	found := false
	for _, info := range infos {
		if info.Name == "umap" {
			found = true
			if len(info.Placeholders) != 1 || info.Placeholders[0] != "sample" {
				t.Fatalf("unexpected placeholders %v", info.Placeholders)
			}
		}
	}
	if !found {
		t.Fatal("expected umap in template listing")
	}

	run(t, "--config", cfgPath, "templates", "remove", "umap")
	cfg, err = config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if _, ok := config.FindTemplate(cfg, "umap"); ok {
		t.Fatal("template should be removed")
	}
}

func TestTemplatesAddRejectsBrokenDeclarations(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"builtin name", []string{"templates", "add", "checkpoint", "--pattern", "x"}, "TPL_DUPLICATE"},
		{"unclosed placeholder", []string{"templates", "add", "broken", "--pattern", "{sample"}, "TPL_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfgPath := initProject(t)
			cmd := newRootCmd()
			cmd.SetArgs(append([]string{"--config", cfgPath}, tt.args...))
			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %s error, got %v", tt.want, err)
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if len(cfg.Templates) != 0 {
				t.Fatalf("rejected template must not be saved: %+v", cfg.Templates)
			}
			// The project still opens.
			run(t, "--json", "--config", cfgPath, "describe")
		})
	}
}

func TestDescribeJSON(t *testing.T) {
	dir, cfgPath := initProject(t)
	out := run(t, "--json", "--config", cfgPath, "describe")
	var d map[string]any
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("describe output %q: %v", out, err)
	}
	if d["root"] != dir {
		t.Fatalf("root: want %s, got %v", dir, d["root"])
	}
	if d["outputs_state"] != "inherited" {
		t.Fatalf("outputs_state: got %v", d["outputs_state"])
	}
}

func TestGitignoreCommand(t *testing.T) {
	dir, cfgPath := initProject(t)
	out := run(t, "--json", "--config", cfgPath, "gitignore")
	var res gitignoreResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("gitignore output %q: %v", out, err)
	}
	if !res.Changed {
		t.Fatal("expected first run to change the file")
	}
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read gitignore: %v", err)
	}
	for _, want := range []string{"lightning/", "logs/", "cache/"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %q in %q", want, data)
		}
	}

	out = run(t, "--json", "--config", cfgPath, "gitignore")
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("gitignore output %q: %v", out, err)
	}
	if res.Changed {
		t.Fatal("second run should be a no-op")
	}
}

func TestTrackAndQuery(t *testing.T) {
	dir, cfgPath := initProject(t)
	target := filepath.Join(dir, "outputs", "a.csv")
	producer := filepath.Join(dir, "scripts", "make.py")
	run(t, "--json", "--config", cfgPath, "track", target, "--producer", producer, "--kind", "table")

	if _, err := os.Stat(filepath.Join(dir, config.DefaultLedgerFile)); err != nil {
		t.Fatalf("expected persisted ledger: %v", err)
	}

	out := run(t, "--json", "--config", cfgPath, "producers", target)
	var records []ledger.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("producers output %q: %v", out, err)
	}
	if len(records) != 1 || records[0].Producer != producer || records[0].Kind != "table" {
		t.Fatalf("unexpected producers %+v", records)
	}

	out = run(t, "--json", "--config", cfgPath, "outputs", producer)
	records = nil
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("outputs output %q: %v", out, err)
	}
	if len(records) != 1 || records[0].Target != target {
		t.Fatalf("unexpected outputs %+v", records)
	}
}

func TestTrackOutsideProjectWritesNothing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	target := filepath.Join(dir, "a.csv")
	out := run(t, "--json", "track", target, "--producer", filepath.Join(dir, "make.py"))

	var rec ledger.Record
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("track output %q: %v", out, err)
	}
	if rec.Target != target {
		t.Fatalf("unexpected record %+v", rec)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ProjectDir)); !os.IsNotExist(err) {
		t.Fatalf("track outside a project must not create %s, stat err=%v", config.ProjectDir, err)
	}
}

func TestTreeCommand(t *testing.T) {
	dir, cfgPath := initProject(t)
	if err := os.MkdirAll(filepath.Join(dir, "outputs", "figures"), 0o755); err != nil {
		t.Fatal(err)
	}
	out := run(t, "--config", cfgPath, "tree", "--depth", "2")
	if !strings.HasPrefix(out, filepath.Base(dir)+"/\n") {
		t.Fatalf("unexpected tree root line: %q", out)
	}
	if !strings.Contains(out, "figures/") {
		t.Fatalf("expected nested directory in %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out := run(t, "--json", "version")
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version output %q: %v", out, err)
	}
	if info["version"] != config.Version {
		t.Fatalf("unexpected version %+v", info)
	}
}
