package source

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ChangedFiles returns the absolute paths of files that are modified, added
// or untracked in the git worktree containing root.
func ChangedFiles(root string) (map[string]bool, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	base := wt.Filesystem.Root()
	out := make(map[string]bool)
	for file, s := range status {
		if s.Worktree == git.Unmodified && s.Staging == git.Unmodified {
			continue
		}
		if s.Worktree == git.Deleted || s.Staging == git.Deleted {
			continue
		}
		out[filepath.Join(base, filepath.FromSlash(file))] = true
	}
	return out, nil
}
