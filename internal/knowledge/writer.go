// Package knowledge mirrors patterns into the synced knowledge directory
// as human-readable markdown. Writes are atomic (temp file + rename),
// refuse to traverse or follow symlinks, and are serialized across
// processes by an advisory lock scoped to the knowledge root.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/fernwood/patternbank/internal/store"
)

// ErrSecurity reports a refused write: the target escapes the knowledge
// root or a path component is a symlink. Never downgraded; no bytes are
// written on any fallback path.
var ErrSecurity = errors.New("security violation")

const lockFilename = ".patternbank.lock"

// Locker serializes mutations of the shared knowledge directory. The git
// sync layer holds the same lock around pushes, so the mechanism stays
// behind this interface rather than hardcoded into callers.
type Locker interface {
	// Acquire blocks until the lock is held or ctx expires. The returned
	// release func must be called on every exit path.
	Acquire(ctx context.Context) (release func(), err error)
}

// flockLocker is the default Locker: an advisory file lock on a lock file
// under the knowledge root.
type flockLocker struct {
	fl *flock.Flock
}

func (l *flockLocker) Acquire(ctx context.Context) (func(), error) {
	ok, err := l.fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire knowledge lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire knowledge lock: timed out")
	}
	return func() { l.fl.Unlock() }, nil
}

// Writer writes pattern files under <root>/_user/patterns/<category>/.
type Writer struct {
	root        string
	lock        Locker
	lockTimeout time.Duration
}

// NewWriter creates a writer rooted at the knowledge directory. The root
// must exist; it is resolved once so later containment checks compare
// against a stable canonical path.
func NewWriter(root string, lockTimeout time.Duration) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("knowledge root not configured")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve knowledge root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("knowledge root %s is not a directory", abs)
	}
	return &Writer{
		root:        abs,
		lock:        &flockLocker{fl: flock.New(filepath.Join(abs, lockFilename))},
		lockTimeout: lockTimeout,
	}, nil
}

// SetLocker replaces the default advisory lock (used when the caller
// already manages locking at a wider scope).
func (w *Writer) SetLocker(l Locker) {
	w.lock = l
}

// frontmatter is the YAML header of a mirrored pattern file.
type frontmatter struct {
	Category   string  `yaml:"category"`
	Confidence string  `yaml:"confidence"`
	Weight     float64 `yaml:"weight"`
}

// WritePattern mirrors a pattern to
// <root>/_user/patterns/<category>/<id>.md and returns the written path.
// The write is refused with ErrSecurity if the resolved target escapes the
// root or any existing path component (including the final file) is a
// symlink. Content becomes visible atomically via rename; a crash mid-write
// never leaves a truncated file at the final path.
func (w *Writer) WritePattern(p *store.Pattern) (string, error) {
	target := filepath.Join(w.root, "_user", "patterns", p.Category, p.ID+".md")

	// Containment check. The id and category are already sanitized, so
	// this only trips if a caller bypassed the store.
	if !strings.HasPrefix(filepath.Clean(target), w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: target %s escapes knowledge root", ErrSecurity, target)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.lockTimeout)
	defer cancel()
	release, err := w.lock.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	if err := w.refuseSymlinks(target); err != nil {
		return "", err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create category directory: %w", err)
	}

	content, err := renderPattern(p)
	if err != nil {
		return "", err
	}

	// Temp file in the destination directory so the rename stays on one
	// filesystem and is atomic.
	tmp, err := os.CreateTemp(dir, "."+p.ID+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename into place: %w", err)
	}

	return target, nil
}

// refuseSymlinks walks every path component strictly below the root down
// to the final file. A component that exists and is a symlink fails the
// write; a component that does not exist yet is fine (it will be created
// as a plain directory or file).
func (w *Writer) refuseSymlinks(target string) error {
	rel, err := filepath.Rel(w.root, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: target %s escapes knowledge root", ErrSecurity, target)
	}

	current := w.root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if os.IsNotExist(err) {
			return nil // nothing below here exists yet
		}
		if err != nil {
			return fmt.Errorf("inspect %s: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s is a symlink", ErrSecurity, current)
		}
	}
	return nil
}

// renderPattern produces the frontmatter + body markdown for a pattern.
func renderPattern(p *store.Pattern) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		Category:   p.Category,
		Confidence: string(p.Confidence),
		Weight:     p.Weight,
	})
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString("# " + p.Name + "\n")
	if p.Description != "" {
		b.WriteString("\n" + strings.TrimSpace(p.Description) + "\n")
	}
	if p.Instruction != "" {
		b.WriteString("\n## Instruction\n\n" + strings.TrimSpace(p.Instruction) + "\n")
	}
	return b.String(), nil
}
