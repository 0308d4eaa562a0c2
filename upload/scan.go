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

// Package upload routes built Debian packages to their Cloudsmith
// destination and pushes them through the cloudsmith CLI. Routing is
// fail-fast: one artifact in a directory whose codename is unknown aborts
// the whole run before anything is pushed.
package upload

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/debmatrix/debmatrix/distro"
	"github.com/debmatrix/debmatrix/errors"
	"github.com/debmatrix/debmatrix/logging"
)

var (
	// packagePattern matches Debian package and debug-symbol files,
	// name_version_arch.deb or .ddeb.
	packagePattern = regexp.MustCompile(`^[^_]+_(.*)_([^.]*)\.d?deb$`)

	// dirPattern matches artifact directory names, codename-<job>-<run>.
	dirPattern = regexp.MustCompile(`^([^-]+)-([^-]+)-([^-]+)$`)
)

// Artifact is one package file routed to its distribution channel.
type Artifact struct {
	Path     string // absolute file path
	Dir      string // containing directory, used as upload workdir
	File     string // base filename
	Codename string
	Vendor   string
	Release  string
}

// Scan walks root lexically for package artifacts and routes each through
// its containing directory's codename. An artifact in a directory whose
// codename the matrix does not know is ErrNotFound; the scan stops there and
// nothing is returned, so no partial upload can follow.
func Scan(ctx context.Context, root string, matrix *distro.Matrix) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap("walk package directory", root, err)
		}
		if d.IsDir() || !packagePattern.MatchString(d.Name()) {
			return nil
		}

		dir := filepath.Dir(path)
		segment := filepath.Base(dir)
		groups := dirPattern.FindStringSubmatch(segment)
		if groups == nil {
			logging.DebugContext(ctx, "Skipping %s: directory %q does not name a codename", d.Name(), segment)
			return nil
		}

		codename := groups[1]
		entry, ok := matrix.LookupCodename(codename)
		if !ok {
			return errors.NotFound("codename %q (from directory %s) is not in the matrix", codename, segment)
		}

		artifacts = append(artifacts, Artifact{
			Path:     path,
			Dir:      dir,
			File:     d.Name(),
			Codename: entry.Codename,
			Vendor:   strings.ToLower(entry.Vendor),
			Release:  entry.Release,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}
