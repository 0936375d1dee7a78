// Package version provides the ordering arithmetic the matcher needs to
// evaluate a CNA advisory's version rules (spec §4.2 step 3). Different
// advisory ecosystems express version order differently, so the scheme used
// is selected per-rule from its VersionType, falling back to the observed
// package's Format when the rule says "custom".
package version

import (
	"fmt"

	"github.com/Masterminds/semver"
	apkversion "github.com/knqyf263/go-apk-version"
	debversion "github.com/knqyf263/go-deb-version"
	rpmversion "github.com/knqyf263/go-rpm-version"
)

// Ordering is the result of comparing two versions: negative if a < b, zero
// if equal, positive if a > b.
type Ordering int

// Comparer orders two version strings of the same scheme.
type Comparer interface {
	Compare(a, b string) (Ordering, error)
}

type rpmComparer struct{}

func (rpmComparer) Compare(a, b string) (Ordering, error) {
	va, vb := rpmversion.NewVersion(a), rpmversion.NewVersion(b)
	return Ordering(va.Compare(vb)), nil
}

type debComparer struct{}

func (debComparer) Compare(a, b string) (Ordering, error) {
	va, err := debversion.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("version: parse deb version %q: %w", a, err)
	}
	vb, err := debversion.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("version: parse deb version %q: %w", b, err)
	}
	return Ordering(va.Compare(vb)), nil
}

type apkComparer struct{}

func (apkComparer) Compare(a, b string) (Ordering, error) {
	va, err := apkversion.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("version: parse apk version %q: %w", a, err)
	}
	vb, err := apkversion.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("version: parse apk version %q: %w", b, err)
	}
	return Ordering(va.Compare(vb)), nil
}

type semverComparer struct{}

func (semverComparer) Compare(a, b string) (Ordering, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("version: parse semver %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("version: parse semver %q: %w", b, err)
	}
	return Ordering(va.Compare(vb)), nil
}

// lexicalComparer is the last resort for ecosystems with no dedicated
// ordering library in the retrieval pack (e.g. win packages, or any
// unmapped format or version type), comparing versions as opaque strings.
type lexicalComparer struct{}

func (lexicalComparer) Compare(a, b string) (Ordering, error) {
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

var byScheme = map[string]Comparer{
	"rpm":    rpmComparer{},
	"deb":    debComparer{},
	"apk":    apkComparer{},
	"semver": semverComparer{},
}

// formatToScheme maps an observed package's Format (spec §3) to the version
// scheme that governs "custom"-typed rules for that ecosystem.
var formatToScheme = map[string]string{
	"rpm":    "rpm",
	"deb":    "deb",
	"pacman": "apk",
	"pypi":   "semver",
	"win":    "",
}

// ComparerFor resolves the Comparer to use for a version rule, given its
// VersionType and the observed package's Format (used only when
// VersionType is "custom" or empty).
func ComparerFor(versionType, packageFormat string) Comparer {
	switch versionType {
	case "", "custom":
		if scheme, ok := formatToScheme[packageFormat]; ok && scheme != "" {
			return byScheme[scheme]
		}
		return lexicalComparer{}
	default:
		if c, ok := byScheme[versionType]; ok {
			return c
		}
		return lexicalComparer{}
	}
}
