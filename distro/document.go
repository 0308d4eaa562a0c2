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

// Package distro loads a repository's debian-distro-settings document and
// derives the build matrix, Docker image naming and package upload targets
// from it. The document is read once per run and never mutated afterward.
package distro

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/debmatrix/debmatrix/errors"
)

// SettingsFile is the required per-repository settings document, relative to
// the repository root.
const SettingsFile = ".github/debian-distro-settings.yaml"

// OSEntry describes one supported OS version and the architectures packages
// are built for on it.
type OSEntry struct {
	Vendor        string   `yaml:"vendor" json:"vendor" jsonschema:"description=OS vendor name such as Ubuntu or Debian"`
	Release       string   `yaml:"release" json:"release" jsonschema:"description=Release identifier such as 22.04 or 12"`
	Codename      string   `yaml:"codename" json:"codename" jsonschema:"description=Release codename such as jammy or bookworm"`
	BaseImage     string   `yaml:"baseImage" json:"baseImage" jsonschema:"description=Docker base image the build image derives from"`
	Architectures []string `yaml:"architectures" json:"architectures" jsonschema:"description=Architectures to build on this release"`
}

// Document is the parsed debian-distro-settings.yaml. Field names follow the
// document's own mixed snake/camel key convention.
type Document struct {
	Package     string    `yaml:"package" json:"package" jsonschema:"description=Debian source package name"`
	ProjectName string    `yaml:"projectName" json:"projectName" jsonschema:"description=Human-facing project name"`
	Matrix      []OSEntry `yaml:"matrix" json:"matrix" jsonschema:"description=Supported OS/architecture combinations in build order"`

	LabelPrefix             string   `yaml:"label_prefix,omitempty" json:"label_prefix,omitempty"`
	DockerContextPath       string   `yaml:"docker_context_path,omitempty" json:"docker_context_path,omitempty"`
	DockerBuildContextFiles []string `yaml:"dockerBuildContextFiles,omitempty" json:"dockerBuildContextFiles,omitempty"`
	SourceDir               string   `yaml:"sourceDir,omitempty" json:"sourceDir,omitempty"`
	DebianDir               string   `yaml:"debian_dir,omitempty" json:"debian_dir,omitempty"`
	ScriptPreCmd            string   `yaml:"scriptPreCmd,omitempty" json:"scriptPreCmd,omitempty"`
	ScriptPostCmd           string   `yaml:"scriptPostCmd,omitempty" json:"scriptPostCmd,omitempty"`
	ConfigureSourceCmd      string   `yaml:"configureSourceCmd,omitempty" json:"configureSourceCmd,omitempty"`
	ImageNameFmt            string   `yaml:"imageNameFmt,omitempty" json:"imageNameFmt,omitempty" jsonschema:"description=Image name format with @TOKEN@ placeholders"`
	ImageTagFmt             string   `yaml:"imageTagFmt,omitempty" json:"imageTagFmt,omitempty" jsonschema:"description=Image tag format with @TOKEN@ placeholders"`
	CloudsmithRepoSlug      string   `yaml:"cloudsmith_repo_slug,omitempty" json:"cloudsmith_repo_slug,omitempty"`
	CloudsmithRepoNamespace string   `yaml:"cloudsmith_repo_namespace,omitempty" json:"cloudsmith_repo_namespace,omitempty"`
	AllowedCombinations     []string `yaml:"allowedCombinations,omitempty" json:"allowedCombinations,omitempty" jsonschema:"description=Optional release/architecture filters applied to the matrix"`
}

// LoadDocument reads and validates the settings document under repoRoot.
func LoadDocument(repoRoot string) (*Document, error) {
	path := filepath.Join(repoRoot, SettingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Configuration("settings file not found: %s", path)
		}
		return nil, errors.Wrap("read settings file", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Configuration("invalid settings file %s: %v", path, err)
	}

	if err := doc.validate(); err != nil {
		return nil, errors.Wrap("validate settings file", path, err)
	}

	return &doc, nil
}

func (d *Document) validate() error {
	if d.Package == "" {
		return errors.Configuration("package is required")
	}
	if d.ProjectName == "" {
		return errors.Configuration("projectName is required")
	}
	if len(d.Matrix) == 0 {
		return errors.Configuration("matrix must list at least one OS entry")
	}

	for i, entry := range d.Matrix {
		if entry.Vendor == "" {
			return errors.Configuration("matrix[%d]: vendor is required", i)
		}
		if entry.Release == "" {
			return errors.Configuration("matrix[%d]: release is required", i)
		}
		if entry.Codename == "" {
			return errors.Configuration("matrix[%d]: codename is required", i)
		}
		if len(entry.Architectures) == 0 {
			return errors.Configuration("matrix[%d] (%s): architectures must list at least one entry", i, entry.Codename)
		}
	}

	return nil
}
