// ABOUTME: Venv creation and package install/uninstall through the ruyi CLI
// ABOUTME: Side effects land on disk; callers observe them through rescans

package ruyi

import "context"

// VenvCreate provisions a new virtual environment for profile at path.
// The directory appears on disk; the caller rescans to pick it up.
func (r *Runner) VenvCreate(ctx context.Context, profile, path string) error {
	_, err := r.Run(ctx, "venv", profile, path)
	return err
}

// Install installs the named packages.
func (r *Runner) Install(ctx context.Context, pkgs ...string) error {
	args := append([]string{"install"}, pkgs...)
	_, err := r.Run(ctx, args...)
	return err
}

// Uninstall removes the named packages.
func (r *Runner) Uninstall(ctx context.Context, pkgs ...string) error {
	args := append([]string{"uninstall", "--yes"}, pkgs...)
	_, err := r.Run(ctx, args...)
	return err
}
