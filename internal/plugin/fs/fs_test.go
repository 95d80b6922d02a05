package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"fyne.io/fyne/v2/test"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/logger"
	"localmind-desktop/internal/plugin"
)

func setup(t *testing.T) (*bridge.Bridge, string) {
	t.Helper()
	a := test.NewTempApp(t)
	root := t.TempDir()

	b := bridge.New(nil)
	t.Cleanup(b.Shutdown)
	if err := New(root).Init(&plugin.Host{App: a, Bridge: b, Logger: logger.Nop()}); err != nil {
		t.Fatalf("init: %v", err)
	}
	return b, root
}

func call(t *testing.T, b *bridge.Bridge, cmd string, args map[string]any) bridge.Response {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("encode args: %v", err)
	}
	return b.Invoke(context.Background(), bridge.Request{Command: plugin.CommandName(Name, cmd), Args: raw})
}

func TestAllowed(t *testing.T) {
	root := t.TempDir()
	p := New(root, "  ")

	for _, path := range []string{root, filepath.Join(root, "a.txt"), filepath.Join(root, "x", "..", "b")} {
		if _, err := p.Allowed(path); err != nil {
			t.Fatalf("expected %s allowed, got %v", path, err)
		}
	}
	for _, path := range []string{
		filepath.Dir(root),
		filepath.Join(root, "..", "escape"),
		root + "-sibling",
	} {
		if _, err := p.Allowed(path); !errors.Is(err, ErrOutOfScope) {
			t.Fatalf("expected %s out of scope, got %v", path, err)
		}
	}
}

func TestEmptyScopeDeniesEverything(t *testing.T) {
	if _, err := New().Allowed(os.TempDir()); !errors.Is(err, ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	b, root := setup(t)
	path := filepath.Join(root, "notes.md")

	if resp := call(t, b, "write_text_file", map[string]any{"path": path, "contents": "# hello"}); resp.Err != nil {
		t.Fatalf("write: %v", resp.Err)
	}
	resp := call(t, b, "read_text_file", map[string]any{"path": path})
	if resp.Err != nil {
		t.Fatalf("read: %v", resp.Err)
	}
	if resp.Data != "# hello" {
		t.Fatalf("unexpected contents %v", resp.Data)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil || string(onDisk) != "# hello" {
		t.Fatalf("unexpected file on disk %q %v", onDisk, err)
	}
}

func TestExistsMkdirReadDirRemove(t *testing.T) {
	b, root := setup(t)
	dir := filepath.Join(root, "docs")

	if resp := call(t, b, "exists", map[string]any{"path": dir}); resp.Err != nil || resp.Data != false {
		t.Fatalf("exists before mkdir: %+v", resp)
	}
	if resp := call(t, b, "mkdir", map[string]any{"path": dir}); resp.Err != nil {
		t.Fatalf("mkdir: %v", resp.Err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	resp := call(t, b, "read_dir", map[string]any{"path": root})
	if resp.Err != nil {
		t.Fatalf("read_dir: %v", resp.Err)
	}
	entries, ok := resp.Data.([]Entry)
	if !ok {
		t.Fatalf("unexpected listing type %T", resp.Data)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	if len(entries) != 2 || entries[0] != (Entry{Name: "a.txt"}) || entries[1] != (Entry{Name: "docs", IsDirectory: true}) {
		t.Fatalf("unexpected listing %+v", entries)
	}

	if resp := call(t, b, "remove", map[string]any{"path": filepath.Join(root, "a.txt")}); resp.Err != nil {
		t.Fatalf("remove: %v", resp.Err)
	}
	if _, err := os.Stat(filepath.Join(root, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err %v", err)
	}
}

func TestCommandsRejectOutOfScope(t *testing.T) {
	b, root := setup(t)
	outside := filepath.Join(filepath.Dir(root), "outside.txt")

	for _, cmd := range []string{"read_text_file", "write_text_file", "exists", "read_dir", "mkdir", "remove"} {
		resp := call(t, b, cmd, map[string]any{"path": outside})
		if !errors.Is(resp.Err, ErrOutOfScope) {
			t.Fatalf("%s: expected ErrOutOfScope, got %v", cmd, resp.Err)
		}
	}
}

func TestCommandsRequirePath(t *testing.T) {
	b, _ := setup(t)
	resp := call(t, b, "exists", map[string]any{})
	if !errors.Is(resp.Err, bridge.ErrMissingArg) {
		t.Fatalf("expected ErrMissingArg, got %v", resp.Err)
	}
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestSymlinkOutOfScopeRefused(t *testing.T) {
	b, root := setup(t)
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	symlinkOrSkip(t, outside, filepath.Join(root, "link"))

	resp := call(t, b, "read_text_file", map[string]any{"path": filepath.Join(root, "link", "secret.txt")})
	if !errors.Is(resp.Err, ErrOutOfScope) {
		t.Fatalf("read through link: expected ErrOutOfScope, got %v (data %v)", resp.Err, resp.Data)
	}

	resp = call(t, b, "write_text_file", map[string]any{"path": filepath.Join(root, "link", "pwn.txt"), "contents": "x"})
	if !errors.Is(resp.Err, ErrOutOfScope) {
		t.Fatalf("write through link: expected ErrOutOfScope, got %v", resp.Err)
	}
	if _, err := os.Stat(filepath.Join(outside, "pwn.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected no file written outside scope, stat err %v", err)
	}

	resp = call(t, b, "mkdir", map[string]any{"path": filepath.Join(root, "link", "new", "dir")})
	if !errors.Is(resp.Err, ErrOutOfScope) {
		t.Fatalf("mkdir through link: expected ErrOutOfScope, got %v", resp.Err)
	}
}

func TestDanglingSymlinkRefused(t *testing.T) {
	b, root := setup(t)
	target := filepath.Join(t.TempDir(), "missing.txt")
	symlinkOrSkip(t, target, filepath.Join(root, "dangling"))

	resp := call(t, b, "write_text_file", map[string]any{"path": filepath.Join(root, "dangling"), "contents": "x"})
	if !errors.Is(resp.Err, ErrOutOfScope) {
		t.Fatalf("expected ErrOutOfScope, got %v", resp.Err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected link target untouched, stat err %v", err)
	}
}

func TestSymlinkWithinScopeAllowed(t *testing.T) {
	b, root := setup(t)
	if err := os.Mkdir(filepath.Join(root, "real"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "real", "a.txt"), []byte("inside"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	symlinkOrSkip(t, filepath.Join(root, "real"), filepath.Join(root, "alias"))

	resp := call(t, b, "read_text_file", map[string]any{"path": filepath.Join(root, "alias", "a.txt")})
	if resp.Err != nil || resp.Data != "inside" {
		t.Fatalf("read via in-scope link: %+v", resp)
	}
}

func TestScopeRootBehindSymlink(t *testing.T) {
	realDir := t.TempDir()
	linkedRoot := filepath.Join(t.TempDir(), "root")
	symlinkOrSkip(t, realDir, linkedRoot)

	p := New(linkedRoot)
	if _, err := p.Allowed(filepath.Join(realDir, "a.txt")); err != nil {
		t.Fatalf("expected real path allowed, got %v", err)
	}
	if _, err := p.Allowed(filepath.Join(linkedRoot, "a.txt")); err != nil {
		t.Fatalf("expected linked path allowed, got %v", err)
	}
}
