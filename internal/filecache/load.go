package filecache

import (
	"context"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// gitTimeout bounds the git invocation so a broken hook or credential
// helper cannot hang an interactive lint.
const gitTimeout = 10 * time.Second

// Load builds a cache for the repository at root. Inside a git checkout
// it lists tracked and untracked-but-not-ignored files via git, which
// honors the same ignore rules contributors see; elsewhere it falls back
// to walking the tree.
func Load(ctx context.Context, root string) (*Cache, error) {
	if files, err := gitListFiles(ctx, root); err == nil {
		return New(files), nil
	}
	files, err := walkFiles(root)
	if err != nil {
		return nil, err
	}
	return New(files), nil
}

func gitListFiles(ctx context.Context, root string) ([]string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, gitTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", "-C", root, "ls-files", "--cached", "--others", "--exclude-standard")
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
