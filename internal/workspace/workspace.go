package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pipe01/tmplint/internal/validator"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

var DefaultExtensions = []string{".html", ".hbs", ".handlebars"}

type Options struct {
	Validator validator.Options

	// Extensions of the files picked up when walking a directory.
	Extensions []string

	// Jobs is the maximum number of files checked at once, 0 means one
	// per CPU.
	Jobs int
}

// Result is the outcome of checking one file. Err is nil if the file is
// valid.
type Result struct {
	Path string
	Err  error
}

type Workspace struct {
	rootPath string
	opts     Options

	mu           sync.Mutex
	checkedFiles map[string]struct{}
}

func New(rootPath string, opts Options) *Workspace {
	if opts.Extensions == nil {
		opts.Extensions = DefaultExtensions
	}

	return &Workspace{
		rootPath:     rootPath,
		opts:         opts,
		checkedFiles: make(map[string]struct{}),
	}
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}

	return filepath.Join(w.rootPath, relPath)
}

// Discover expands paths into the list of template files to check. Files are
// kept as they are, directories are walked for files with a known
// extension.
func (w *Workspace) Discover(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(w.fullPath(p))
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(w.fullPath(p), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !w.hasTemplateExt(path) {
				return nil
			}

			if rel, err := filepath.Rel(w.rootPath, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", p, err)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func (w *Workspace) hasTemplateExt(path string) bool {
	return slices.Contains(w.opts.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Check reads and validates a file relative to the workspace root.
func (w *Workspace) Check(relPath string) error {
	bytes, err := os.ReadFile(w.fullPath(relPath))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	return w.CheckContents(relPath, bytes)
}

// CheckContents validates contents as if they were the file at relPath.
func (w *Workspace) CheckContents(relPath string, contents []byte) error {
	w.mu.Lock()
	w.checkedFiles[w.fullPath(relPath)] = struct{}{}
	w.mu.Unlock()

	return validator.ValidateWithOptions(relPath, string(contents), w.opts.Validator)
}

// CheckAll checks every path concurrently. Results are in the same order as
// paths. The returned error is only set if ctx was cancelled.
func (w *Workspace) CheckAll(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	jobs := w.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, p := range paths {
		i, p := i, p

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = Result{
				Path: p,
				Err:  w.Check(p),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// CheckedFiles returns the absolute paths of all the files checked so far.
func (w *Workspace) CheckedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.checkedFiles))
	for f := range w.checkedFiles {
		files = append(files, f)
	}

	slices.Sort(files)
	return files
}
