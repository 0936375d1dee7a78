// Package purl renders an observed package's identity as a package URL
// (purl), following the same format-to-type mapping the teacher's per-
// ecosystem purl.go files (rhel/purl.go, debian/purl.go, alpine/purl.go,
// suse/purl.go) each hard-code for their one ecosystem. This repo sees
// every ecosystem through one Package.Format field, so the mapping lives
// in a single table instead of one file per OS family.
package purl

import (
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/hostvuln/scanorch"
)

// typeByFormat maps a Package.Format (spec §3) to the purl "type"
// component, following the same plain-string convention the teacher's own
// per-ecosystem PURLType constants use (debian/purl.go's PURLType = "deb",
// rhel/purl.go's PURLType = packageurl.TypeRPM) rather than assuming every
// ecosystem has a library-defined constant. Formats with no purl-spec type
// (e.g. "win") are omitted; String returns "" for those.
var typeByFormat = map[string]string{
	"deb":    "deb",
	"rpm":    packageurl.TypeRPM,
	"pypi":   "pypi",
	"pacman": "alpm",
}

// String renders pkg as a purl string, or "" if pkg.Format has no known
// purl type or pkg.Name is empty. Qualifiers carry architecture the same
// way rhel.GenerateRPMPURL does, when known.
func String(pkg scanorch.Package) string {
	if strings.TrimSpace(pkg.Name) == "" {
		return ""
	}
	typ, ok := typeByFormat[pkg.Format]
	if !ok {
		return ""
	}

	var qualifiers packageurl.Qualifiers
	if pkg.Architecture != "" {
		qualifiers = packageurl.QualifiersFromMap(map[string]string{"arch": pkg.Architecture})
	}

	p := packageurl.PackageURL{
		Type:       typ,
		Namespace:  namespaceFor(pkg.Vendor),
		Name:       pkg.Name,
		Version:    pkg.Version,
		Qualifiers: qualifiers,
	}
	return p.String()
}

// namespaceFor supplies the purl namespace component, mirroring the
// teacher's per-ecosystem convention (e.g. rhel.PURLNamespace = "redhat")
// of naming the vendor rather than leaving the namespace empty, when the
// observed package carries a usable vendor string.
func namespaceFor(vendor string) string {
	fields := strings.Fields(vendor)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
