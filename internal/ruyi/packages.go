// ABOUTME: Package listing via the ruyi CLI's porcelain output
// ABOUTME: NDJSON lines with a ty discriminator; unknown line types are skipped

package ruyi

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// Package is one entry from the package listing.
type Package struct {
	Category string
	Name     string
	Versions []PackageVersion
}

// PackageVersion is one available version of a package.
type PackageVersion struct {
	Semver    string
	Installed bool
}

// FullName returns category/name.
func (p Package) FullName() string {
	if p.Category == "" {
		return p.Name
	}
	return p.Category + "/" + p.Name
}

// pkgListLine mirrors the porcelain pkglistoutput-v1 record.
type pkgListLine struct {
	Ty       string `json:"ty"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Vers     []struct {
		Semver      string   `json:"semver"`
		Remarks     []string `json:"remarks"`
		IsInstalled bool     `json:"is_installed"`
	} `json:"vers"`
}

// ListPackages returns the repository's packages with installed-version
// markers, via `ruyi --porcelain list`.
func (r *Runner) ListPackages(ctx context.Context) ([]Package, error) {
	res, err := r.Run(ctx, "--porcelain", "list")
	if err != nil {
		return nil, err
	}
	return parsePackages(res.Stdout), nil
}

// parsePackages decodes porcelain NDJSON. Lines that fail to decode or
// carry an unexpected ty are skipped with a debug log; the porcelain
// format is a best-effort contract across CLI versions.
func parsePackages(out string) []Package {
	var pkgs []Package
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec pkgListLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Debug("ruyi: skipping unparseable porcelain line: %v", err)
			continue
		}
		if rec.Ty != "pkglistoutput-v1" {
			continue
		}
		pkg := Package{Category: rec.Category, Name: rec.Name}
		for _, v := range rec.Vers {
			pkg.Versions = append(pkg.Versions, PackageVersion{
				Semver:    v.Semver,
				Installed: v.IsInstalled,
			})
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}
