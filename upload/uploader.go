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

package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/debmatrix/debmatrix/logging"
)

// CloudsmithCommand is the external package-hosting CLI. Its API semantics
// are opaque to this tool; only the argument shape of the push and
// list-repos operations is fixed here.
const CloudsmithCommand = "cloudsmith"

// Uploader pushes artifacts to their Cloudsmith destinations, one command
// invocation per artifact, serially and fail-fast.
type Uploader struct {
	Namespace string
	RepoSlug  string
	Runner    CommandRunner
	DryRun    bool
}

// Destination returns the publish destination for a routed artifact,
// namespace/slug/vendor/release.
func (u *Uploader) Destination(a Artifact) string {
	return fmt.Sprintf("%s/%s/%s/%s", u.Namespace, u.RepoSlug, a.Vendor, a.Release)
}

// Push uploads artifacts in order. The first failure aborts the run; there
// is no retry and no partial-failure recovery, matching fail-fast CI
// semantics. In dry-run mode the exact command is logged and nothing runs.
func (u *Uploader) Push(ctx context.Context, artifacts []Artifact) error {
	for _, artifact := range artifacts {
		destination := u.Destination(artifact)
		args := []string{"push", "deb", "--republish", destination, artifact.File}

		if u.DryRun {
			logging.InfoContext(ctx, "[dry-run] would run: %s %s (in %s)",
				CloudsmithCommand, strings.Join(args, " "), artifact.Dir)
			continue
		}

		logging.InfoContext(ctx, "Uploading %s to %s", artifact.File, destination)
		if err := u.Runner.Run(ctx, artifact.Dir, CloudsmithCommand, args...); err != nil {
			return err
		}
	}

	return nil
}

// ListRepos invokes the package host's repository listing, printing its
// output unmodified.
func ListRepos(ctx context.Context, runner CommandRunner) error {
	return runner.Run(ctx, "", CloudsmithCommand, "list", "repos", "--output-format=json")
}
