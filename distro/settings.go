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

package distro

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/debmatrix/debmatrix/config"
	"github.com/debmatrix/debmatrix/errors"
)

// Built-in naming formats used when the document does not override them.
const (
	DefaultImageNameFmt = "@PACKAGE@-@VENDOR@-builder"
	DefaultImageTagFmt  = "@RELEASE@_@ARCHITECTURE@"
)

// Settings wraps the parsed settings document, the expanded matrix and the
// resolved environment for one run. It is read-only once constructed, except
// for the active combination set through SelectCombination. There is no way
// to clear a selection within one run.
type Settings struct {
	Doc      *Document
	Matrix   *Matrix
	RepoRoot string
	Env      *config.Environ

	selected *Combination
}

// Load reads the settings document under repoRoot and expands its matrix.
func Load(repoRoot string, env *config.Environ) (*Settings, error) {
	doc, err := LoadDocument(repoRoot)
	if err != nil {
		return nil, err
	}

	matrix, err := BuildMatrix(doc)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Doc:      doc,
		Matrix:   matrix,
		RepoRoot: repoRoot,
		Env:      env,
	}, nil
}

// Template substitutes @TOKEN@ placeholders in s. @PACKAGE@ is always
// available; @VENDOR@, @RELEASE@ and @ARCHITECTURE@ substitute only while a
// combination is selected and are left untouched otherwise. Replacement
// values never contain markers, so applying Template twice equals applying
// it once.
func (s *Settings) Template(in string) string {
	pairs := []string{"@PACKAGE@", s.Doc.Package}
	if s.selected != nil {
		pairs = append(pairs,
			"@VENDOR@", s.selected.Vendor,
			"@RELEASE@", s.selected.Release,
			"@ARCHITECTURE@", s.selected.Architecture,
		)
	}
	return strings.NewReplacer(pairs...).Replace(in)
}

// SelectCombination activates the matrix combination for an OS selector and
// architecture. The selector matches a codename case-insensitively or a
// release identifier exactly; the architecture is lowercased before matching.
// Entries are scanned in declaration order and the first entry matching both
// the selector and the architecture wins; a selector match whose entry lacks
// the architecture does not stop the scan. Returns ErrNotFound when no entry
// matches.
func (s *Settings) SelectCombination(osSelector, architecture string) error {
	arch := strings.ToLower(architecture)
	for i := range s.Doc.Matrix {
		entry := &s.Doc.Matrix[i]
		if !strings.EqualFold(entry.Codename, osSelector) && entry.Release != osSelector {
			continue
		}
		if !entryHasArchitecture(entry, arch) {
			continue
		}

		combo, ok := s.Matrix.Lookup(arch, entry.Release)
		if !ok {
			continue
		}
		s.selected = &combo
		return nil
	}

	return errors.NotFound("no matrix entry matches OS %q with architecture %q",
		osSelector, architecture)
}

func entryHasArchitecture(entry *OSEntry, arch string) bool {
	for _, a := range entry.Architectures {
		if a == arch {
			return true
		}
	}
	return false
}

// Selected returns the active combination, or nil before SelectCombination.
func (s *Settings) Selected() *Combination {
	return s.selected
}

func (s *Settings) requireSelection(what string) error {
	if s.selected == nil {
		return errors.Usage("%s requires an OS/architecture combination to be selected first", what)
	}
	return nil
}

// ImageName returns the Docker image name for the active combination.
func (s *Settings) ImageName() (string, error) {
	if err := s.requireSelection("image name"); err != nil {
		return "", err
	}

	format := s.Doc.ImageNameFmt
	if format == "" {
		format = DefaultImageNameFmt
	}
	return s.Template(format), nil
}

// ImageTag returns the Docker image tag for the active combination.
func (s *Settings) ImageTag() (string, error) {
	if err := s.requireSelection("image tag"); err != nil {
		return "", err
	}

	format := s.Doc.ImageTagFmt
	if format == "" {
		format = DefaultImageTagFmt
	}
	return s.Template(format), nil
}

// RegistryNamespace returns {DOCKER_REGISTRY_USER}/{DOCKER_REGISTRY_REPO}.
// Both variables must be set.
func (s *Settings) RegistryNamespace() (string, error) {
	user, err := s.Env.Require(config.EnvDockerRegistryUser)
	if err != nil {
		return "", err
	}
	repo, err := s.Env.Require(config.EnvDockerRegistryRepo)
	if err != nil {
		return "", err
	}
	return user + "/" + repo, nil
}

// RegistryTarget returns the fully qualified registry reference
// {hostname}/{user}/{repo}/{name}:{tag} for the active combination, where
// hostname is parsed out of DOCKER_REGISTRY_URL so the scheme never leaks
// into the image reference.
func (s *Settings) RegistryTarget() (string, error) {
	name, err := s.ImageName()
	if err != nil {
		return "", err
	}
	tag, err := s.ImageTag()
	if err != nil {
		return "", err
	}

	registryURL, err := s.Env.Require(config.EnvDockerRegistryURL)
	if err != nil {
		return "", err
	}
	parsed, err := url.Parse(registryURL)
	if err != nil {
		return "", errors.Wrap("parse registry URL", registryURL, err)
	}
	host := parsed.Hostname()
	if host == "" {
		// A bare hostname without a scheme parses as a path.
		host = registryURL
	}

	namespace, err := s.RegistryNamespace()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s:%s", host, namespace, name, tag), nil
}

// SourceDir returns the package source directory resolved against the
// repository root. Defaults to the root itself.
func (s *Settings) SourceDir() string {
	dir := s.Doc.SourceDir
	if dir == "" {
		return s.RepoRoot
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.RepoRoot, dir)
}

// Namespace returns the Cloudsmith namespace packages are published under.
// The CLOUDSMITH_NAMESPACE variable overrides the document value.
func (s *Settings) Namespace() (string, error) {
	if ns := s.Env.Get(config.EnvCloudsmithNS); ns != "" {
		return ns, nil
	}
	if s.Doc.CloudsmithRepoNamespace != "" {
		return s.Doc.CloudsmithRepoNamespace, nil
	}
	return "", errors.Usage("no Cloudsmith namespace: set %s or cloudsmith_repo_namespace", config.EnvCloudsmithNS)
}

// RepoSlug returns the Cloudsmith repository slug, defaulting to the
// package name.
func (s *Settings) RepoSlug() string {
	if s.Doc.CloudsmithRepoSlug != "" {
		return s.Doc.CloudsmithRepoSlug
	}
	return s.Doc.Package
}
