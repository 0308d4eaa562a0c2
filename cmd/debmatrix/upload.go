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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/debmatrix/debmatrix/logging"
	"github.com/debmatrix/debmatrix/upload"
)

var (
	uploadPackageDir string
	uploadDryRun     bool
	uploadListRepos  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload built packages to the package host",
	Long: `Upload walks the package directory for Debian packages
(name_version_arch.deb or .ddeb), routes each through its containing
directory's codename to a namespace/repo/vendor/release destination, and
pushes it with the cloudsmith CLI. The first routing miss or failed push
aborts the run.

Examples:
  # Upload everything under <repo>/packages
  debmatrix upload

  # Show the commands that would run
  debmatrix upload --dry-run

  # List the repositories visible to the cloudsmith CLI
  debmatrix upload --list-repos`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadPackageDir, "package-directory", "packages", "Directory of built packages, relative to the repository root")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Log the upload commands without running them")
	uploadCmd.Flags().BoolVar(&uploadListRepos, "list-repos", false, "List package host repositories and exit")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if uploadListRepos {
		return upload.ListRepos(ctx, upload.ExecRunner{})
	}

	settings, err := settingsFromContext(cmd)
	if err != nil {
		return err
	}

	namespace, err := settings.Namespace()
	if err != nil {
		return err
	}

	pkgDir := uploadPackageDir
	if !filepath.IsAbs(pkgDir) {
		pkgDir = filepath.Join(settings.RepoRoot, pkgDir)
	}

	artifacts, err := upload.Scan(ctx, pkgDir, settings.Matrix)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		logging.WarnContext(ctx, "No package artifacts found under %s", pkgDir)
		return nil
	}
	logging.InfoContext(ctx, "Found %d package artifact(s) under %s", len(artifacts), pkgDir)

	uploader := &upload.Uploader{
		Namespace: namespace,
		RepoSlug:  settings.RepoSlug(),
		Runner:    upload.ExecRunner{},
		DryRun:    uploadDryRun,
	}
	return uploader.Push(ctx, artifacts)
}
