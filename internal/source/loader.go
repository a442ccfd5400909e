// Package source turns a path on disk into a parsed source collection.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// DefaultExclude lists directory names skipped during discovery.
var DefaultExclude = []string{".git", "node_modules", "lib", "out", "cache", "artifacts"}

type Options struct {
	// DeltaOnly restricts the collection to files changed in the enclosing
	// git worktree.
	DeltaOnly   bool
	Exclude     []string
	Concurrency int
	Logger      hclog.Logger
}

// Load discovers .sol files under root and parses all of them. Any parse
// failure aborts the load; no partial collection is returned.
func Load(ctx context.Context, root string, opts Options) (*Collection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	files, err := Discover(root, exclude)
	if err != nil {
		return nil, err
	}
	if opts.DeltaOnly {
		changed, err := ChangedFiles(root)
		if err != nil {
			return nil, fmt.Errorf("delta scan: %w", err)
		}
		files = keepChanged(files, changed)
		logger.Debug("delta scan", "changed", len(changed), "files", len(files))
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	units := make([]*solidity.SourceUnit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			unit, err := solidity.Parse(file, data)
			if err != nil {
				return parseError(file, err)
			}
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("sources loaded", "root", root, "files", len(units))
	return NewCollection(units...), nil
}

// Discover returns the .sol files under root in lexical order. A root that
// is itself a .sol file is returned alone; any other file yields nothing.
func Discover(root string, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !isSolidity(root) {
			return nil, nil
		}
		return []string{filepath.ToSlash(root)}, nil
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if isSolidity(d.Name()) {
			out = append(out, filepath.ToSlash(path))
		}
		return nil
	})
	return out, err
}

func isSolidity(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".sol")
}

func keepChanged(files []string, changed map[string]bool) []string {
	var out []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		if changed[abs] {
			out = append(out, f)
		}
	}
	return out
}

func parseError(path string, err error) error {
	return fmt.Errorf("%w: parse %s: %w", model.ErrExtraction, path, err)
}
