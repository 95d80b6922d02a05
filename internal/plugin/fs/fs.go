// Package fs gives the frontend scoped access to the local filesystem.
package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2/storage"

	"localmind-desktop/internal/bridge"
	"localmind-desktop/internal/plugin"
)

const Name = "fs"

var ErrOutOfScope = errors.New("path is outside the allowed scope")

// Entry is one item of a directory listing.
type Entry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
}

// Plugin serves the fs commands. Every path is checked against scope after
// symlinks are resolved.
type Plugin struct {
	scope []string
}

// New builds the plugin. Only paths under one of roots are reachable; with
// no roots every path is refused.
func New(roots ...string) *Plugin {
	p := &Plugin{}
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		p.scope = append(p.scope, filepath.Clean(abs))
	}
	return p
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Init(h *plugin.Host) error {
	for cmd, fn := range map[string]bridge.Handler{
		"read_text_file":  p.readTextFile,
		"write_text_file": p.writeTextFile,
		"exists":          p.exists,
		"read_dir":        p.readDir,
		"mkdir":           p.mkdir,
		"remove":          p.remove,
	} {
		if err := h.Register(Name, cmd, fn); err != nil {
			return err
		}
	}
	h.Logger.Info("FS", "filesystem scope configured", map[string]interface{}{
		"roots": p.scope,
	})
	return nil
}

// Allowed resolves path, following symlinks, and reports whether the real
// location lies under a scope root. The resolved path is returned so callers
// act on exactly what was checked.
func (p *Plugin) Allowed(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	abs, err = realPath(filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	for _, root := range p.scope {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrOutOfScope)
}

// realPath evaluates symlinks in abs. Trailing components that do not exist
// yet (a file about to be written, a directory about to be made) are joined
// back onto their nearest existing parent.
func realPath(abs string) (string, error) {
	var missing []string
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		// A link whose target is missing would be followed on create.
		if _, lerr := os.Lstat(cur); lerr == nil {
			return "", fmt.Errorf("dangling symlink %s: %w", cur, ErrOutOfScope)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}

func (p *Plugin) scopedPath(inv *bridge.Invocation) (string, error) {
	path, err := inv.Require("path")
	if err != nil {
		return "", err
	}
	return p.Allowed(path)
}

func (p *Plugin) readTextFile(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	r, err := storage.Reader(storage.NewFileURI(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (p *Plugin) writeTextFile(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	w, err := storage.Writer(storage.NewFileURI(path))
	if err != nil {
		return nil, fmt.Errorf("open %s for writing: %w", path, err)
	}
	if _, err := io.WriteString(w, inv.String("contents")); err != nil {
		w.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	return nil, nil
}

func (p *Plugin) exists(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	ok, err := storage.Exists(storage.NewFileURI(path))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

func (p *Plugin) readDir(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	children, err := storage.List(storage.NewFileURI(path))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		dir, _ := storage.CanList(child)
		entries = append(entries, Entry{Name: child.Name(), IsDirectory: dir})
	}
	return entries, nil
}

func (p *Plugin) mkdir(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	if err := storage.CreateListable(storage.NewFileURI(path)); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil, nil
}

func (p *Plugin) remove(inv *bridge.Invocation) (any, error) {
	path, err := p.scopedPath(inv)
	if err != nil {
		return nil, err
	}
	if err := storage.Delete(storage.NewFileURI(path)); err != nil {
		return nil, fmt.Errorf("remove %s: %w", path, err)
	}
	return nil, nil
}
