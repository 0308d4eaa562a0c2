/*
Copyright © 2025 debmatrix contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package config resolves filesystem paths and the process environment for a
// debmatrix run. Nothing in this package mutates ambient state: environment
// resolution returns a merged read-only view instead of writing to the
// process environment.
package config

import (
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"

	"github.com/debmatrix/debmatrix/errors"
)

// ResolvePath normalizes path to an absolute path and verifies it names an
// existing writable directory. Returns ErrUsage otherwise.
func ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap("resolve path", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Usage("path does not exist: %s", abs)
		}
		return "", errors.Wrap("stat path", abs, err)
	}
	if !info.IsDir() {
		return "", errors.Usage("path is not a directory: %s", abs)
	}

	// Writability check: creating a file is the only portable answer.
	tmp, err := os.CreateTemp(abs, ".debmatrix-write-check-*")
	if err != nil {
		return "", errors.Usage("path is not writable: %s", abs)
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)

	return abs, nil
}

// FindRepoRoot locates the root of the git worktree containing path, walking
// parent directories the way the git CLI does.
func FindRepoRoot(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", errors.Configuration("not inside a git repository: %s", path)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", errors.Wrap("resolve git worktree", path, err)
	}

	return wt.Filesystem.Root(), nil
}
