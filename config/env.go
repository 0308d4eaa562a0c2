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

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/debmatrix/debmatrix/errors"
)

// LocalEnvFile is the optional per-repository file of environment variable
// defaults, relative to the repository root.
const LocalEnvFile = ".github/local-env.yaml"

// Environment variables the tool reads.
const (
	EnvDockerRegistryUser = "DOCKER_REGISTRY_USER"
	EnvDockerRegistryRepo = "DOCKER_REGISTRY_REPO"
	EnvDockerRegistryURL  = "DOCKER_REGISTRY_URL"
	EnvCloudsmithNS       = "CLOUDSMITH_NAMESPACE"
	EnvGitHubContext      = "GITHUB_CONTEXT"
)

// Environ is a read-only view of the environment for one run, merging the
// process environment snapshot over the repository's local-env defaults.
// An explicitly set variable always wins; the process environment is never
// written to.
type Environ struct {
	v *viper.Viper
}

// LoadEnviron builds the merged environment for the repository at repoRoot.
// snapshot is a list of KEY=VALUE entries, normally os.Environ(). The
// local-env file is optional; when present it must be a flat mapping of
// variable name to default value.
func LoadEnviron(repoRoot string, snapshot []string) (*Environ, error) {
	v := viper.New()

	path := filepath.Join(repoRoot, LocalEnvFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		defaults := map[string]string{}
		if err := yaml.Unmarshal(data, &defaults); err != nil {
			return nil, errors.Configuration("invalid local-env file %s: %v", path, err)
		}
		for key, value := range defaults {
			v.SetDefault(key, value)
		}
	case os.IsNotExist(err):
		// Optional file.
	default:
		return nil, errors.Wrap("read local-env file", path, err)
	}

	// Snapshot entries override file defaults.
	for _, entry := range snapshot {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		v.Set(key, value)
	}

	return &Environ{v: v}, nil
}

// SystemEnviron builds the merged environment from the current process
// environment.
func SystemEnviron(repoRoot string) (*Environ, error) {
	return LoadEnviron(repoRoot, os.Environ())
}

// Get returns the value for key, or the empty string when unset.
func (e *Environ) Get(key string) string {
	return e.v.GetString(key)
}

// IsSet reports whether key has a value from either source.
func (e *Environ) IsSet(key string) bool {
	return e.v.IsSet(key)
}

// Require returns the value for key, or ErrUsage naming the variable when it
// is unset or empty.
func (e *Environ) Require(key string) (string, error) {
	value := e.v.GetString(key)
	if value == "" {
		return "", errors.Usage("environment variable %s is not set", key)
	}
	return value, nil
}
