// Package casefile gives the editors their only way into a case directory.
package casefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrPathEscape = errors.New("path escapes the case root")
	ErrNoCase     = errors.New("no case directory selected")
)

// FileAccessor reads and writes text files addressed relative to a case root
type FileAccessor interface {
	ReadTextFile(caseRoot, relPath string) (string, error)
	WriteTextFile(caseRoot, relPath, text string) error
}

// TreeAccessor adds the binary and directory access the geometry readers need
type TreeAccessor interface {
	FileAccessor
	ReadFile(caseRoot, relPath string) ([]byte, error)
	ListDir(caseRoot, relPath string) ([]string, error)
	Remove(caseRoot, relPath string) error
}

// FS implements TreeAccessor on an afero filesystem. Writes go to a temporary file
// in the target directory which is then renamed over the destination.
type FS struct {
	Fs afero.Fs
}

func NewFS(fs afero.Fs) *FS {
	return &FS{Fs: fs}
}

func NewOsFS() *FS {
	return NewFS(afero.NewOsFs())
}

// Resolve joins relPath onto caseRoot and rejects anything that lands outside it
func Resolve(caseRoot, relPath string) (string, error) {
	if strings.TrimSpace(caseRoot) == "" {
		return "", ErrNoCase
	}
	root := filepath.Clean(caseRoot)
	full := relPath
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, relPath)
	}
	full = filepath.Clean(full)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%s: %w", relPath, ErrPathEscape)
	}
	return full, nil
}

func (f *FS) ReadTextFile(caseRoot, relPath string) (string, error) {
	data, err := f.ReadFile(caseRoot, relPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FS) ReadFile(caseRoot, relPath string) ([]byte, error) {
	full, err := Resolve(caseRoot, relPath)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.Fs, full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}
	return data, nil
}

func (f *FS) WriteTextFile(caseRoot, relPath, text string) (err error) {
	var full string
	if full, err = Resolve(caseRoot, relPath); err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err = f.Fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(relPath), err)
	}
	tmp, err := afero.TempFile(f.Fs, dir, "."+filepath.Base(full)+".tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = f.Fs.Remove(tmpName)
		}
	}()
	if _, err = tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	if err = f.Fs.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", relPath, err)
	}
	if err = f.Fs.Rename(tmpName, full); err != nil {
		return fmt.Errorf("replacing %s: %w", relPath, err)
	}
	return nil
}

// ListDir returns the sorted names of regular files in a case directory
func (f *FS) ListDir(caseRoot, relPath string) ([]string, error) {
	full, err := Resolve(caseRoot, relPath)
	if err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(f.Fs, full)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", relPath, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Mode().IsRegular() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *FS) Remove(caseRoot, relPath string) error {
	full, err := Resolve(caseRoot, relPath)
	if err != nil {
		return err
	}
	if err = f.Fs.Remove(full); err != nil {
		return fmt.Errorf("removing %s: %w", relPath, err)
	}
	return nil
}

// Context is what every editor operation receives instead of global state
type Context struct {
	CaseRoot string
	Files    FileAccessor
	Log      *zap.Logger
}

func NewContext(caseRoot string, files FileAccessor, log *zap.Logger) (*Context, error) {
	if strings.TrimSpace(caseRoot) == "" {
		return nil, ErrNoCase
	}
	if files == nil {
		files = NewOsFS()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{CaseRoot: caseRoot, Files: files, Log: log}, nil
}

func (c *Context) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Context) Read(relPath string) (string, error) {
	return c.Files.ReadTextFile(c.CaseRoot, relPath)
}

func (c *Context) Write(relPath, text string) error {
	if err := c.Files.WriteTextFile(c.CaseRoot, relPath, text); err != nil {
		return err
	}
	c.Logger().Debug("wrote case file", zap.String("path", relPath), zap.Int("bytes", len(text)))
	return nil
}

// Tree exposes the binary/directory side of the accessor when it has one
func (c *Context) Tree() (TreeAccessor, bool) {
	t, ok := c.Files.(TreeAccessor)
	return t, ok
}

// IsNotExist reports whether err came from a missing file
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
