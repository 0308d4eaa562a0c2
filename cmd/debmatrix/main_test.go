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

package main

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debmatrix/debmatrix/errors"
)

const testSettingsYAML = `package: ethercat
projectName: EtherCAT
cloudsmith_repo_namespace: acme
matrix:
  - vendor: Ubuntu
    release: "18.04"
    codename: bionic
    baseImage: ubuntu:18.04
    architectures: [amd64]
`

// newTestRepo creates a git repository with a settings document.
func newTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	dir := filepath.Join(root, ".github")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debian-distro-settings.yaml"), []byte(testSettingsYAML), 0o644))
	return root
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	// Reset flag state left over from previous executions.
	uploadDryRun = false
	uploadListRepos = false
	uploadPackageDir = "packages"
	queryListKeys = false
	queryFormat = "auto"
	queryPretty = false
	queryOS = ""
	queryArch = ""

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestQueryCommand_Matrix(t *testing.T) {
	root := newTestRepo(t)
	assert.NoError(t, execute(t, "query", "matrix", "-p", root))
}

func TestQueryCommand_ListKeys(t *testing.T) {
	root := newTestRepo(t)
	assert.NoError(t, execute(t, "query", "--list-keys", "-p", root))
}

func TestQueryCommand_UnknownKey(t *testing.T) {
	root := newTestRepo(t)
	err := execute(t, "query", "bogus", "-p", root)
	assert.ErrorIs(t, err, errors.ErrUsage)
}

func TestQueryCommand_NoKeys(t *testing.T) {
	root := newTestRepo(t)
	err := execute(t, "query", "-p", root)
	assert.ErrorIs(t, err, errors.ErrUsage)
}

func TestQueryCommand_SelectorFlagsMustPair(t *testing.T) {
	root := newTestRepo(t)
	err := execute(t, "query", "image-name", "--version", "18.04", "-p", root)
	assert.ErrorIs(t, err, errors.ErrUsage)
}

func TestQueryCommand_ImageNameWithSelection(t *testing.T) {
	root := newTestRepo(t)
	err := execute(t, "query", "image-name", "--version", "bionic", "--architecture", "amd64", "-p", root)
	assert.NoError(t, err)
}

func TestUploadCommand_DryRun(t *testing.T) {
	root := newTestRepo(t)
	pkgDir := filepath.Join(root, "packages", "bionic-extra-1")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "ethercat_1.0-1_amd64.deb"), []byte("deb"), 0o644))

	assert.NoError(t, execute(t, "upload", "--dry-run", "-p", root))
}

func TestUploadCommand_UnknownCodename(t *testing.T) {
	root := newTestRepo(t)
	pkgDir := filepath.Join(root, "packages", "zesty-extra-1")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "ethercat_1.0-1_amd64.deb"), []byte("deb"), 0o644))

	err := execute(t, "upload", "--dry-run", "-p", root)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRootCommand_MissingSettings(t *testing.T) {
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	err = execute(t, "query", "matrix", "-p", root)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestRootCommand_BadPath(t *testing.T) {
	err := execute(t, "query", "matrix", "-p", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, errors.ErrUsage)
}
