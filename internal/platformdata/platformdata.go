// Package platformdata holds the static, in-process configuration tables
// that transform a feed-resolved CNA name and an OS descriptor into the
// effective CNA namespace and CPE string a scan should query (spec §4.2,
// §3). These tables are owned by this repo, not the feed manager: the feed
// manager only resolves a raw CNA family name (e.g. "alma", "alas", "suse");
// everything past that point is local configuration.
package platformdata

import "strings"

// CNATemplates maps a raw CNA family name (as returned by the feed
// manager's getCnaNameBy* cascade) to a template string with placeholders
// $(MAJOR_VERSION) and $(PLATFORM).
var CNATemplates = map[string]string{
	"alma":   "alma_$(MAJOR_VERSION)",
	"alas":   "alas_$(MAJOR_VERSION)",
	"redhat": "redhat_$(MAJOR_VERSION)",
	"suse":   "$(PLATFORM)_$(MAJOR_VERSION)",
	"amazon": "alas_$(MAJOR_VERSION)",
	"ubuntu": "ubuntu_$(MAJOR_VERSION)",
	"debian": "debian_$(MAJOR_VERSION)",
	"fedora": "fedora_$(MAJOR_VERSION)",
}

// MajorVersionEquivalence rewrites an OS's reported major version before CNA
// template substitution, keyed by the OS platform tag then the raw major
// version string. Example: amzn/2018 -> 1 (Amazon Linux AMI maps onto
// ALAS-1; Amazon Linux 2022+ keeps its own major version).
var MajorVersionEquivalence = map[string]map[string]string{
	"amzn": {
		"2018": "1",
		"2":    "2",
	},
}

// PlatformEquivalence rewrites an OS's platform tag before CNA template
// substitution. Example: sled -> suse_desktop, sles -> suse_server.
var PlatformEquivalence = map[string]string{
	"sled": "suse_desktop",
	"sles": "suse_server",
}

// DefaultCNA is used when the feed manager's resolution cascade returns
// nothing usable (spec §4.2 step 5).
const DefaultCNA = "nvd"

// ResolveCNA applies the configured CNA mapping to a raw CNA family name,
// given the OS platform tag and major version that produced it.
func ResolveCNA(rawCNA, platform, majorVersion string) string {
	if rawCNA == "" {
		rawCNA = DefaultCNA
	}

	effPlatform := platform
	if p, ok := PlatformEquivalence[platform]; ok {
		effPlatform = p
	}

	effMajor := majorVersion
	if byMajor, ok := MajorVersionEquivalence[platform]; ok {
		if m, ok := byMajor[majorVersion]; ok {
			effMajor = m
		}
	}

	template, ok := CNATemplates[rawCNA]
	if !ok {
		template = rawCNA
	}

	r := strings.NewReplacer(
		"$(MAJOR_VERSION)", effMajor,
		"$(PLATFORM)", effPlatform,
	)
	return r.Replace(template)
}

// CPETemplates maps a platform tag to its CPE template string (spec §3).
// Windows templates vary by major release, so windows is keyed separately
// by major version under CPETemplatesWindows.
var CPETemplates = map[string]string{
	"ubuntu":              "canonical:ubuntu_linux:$(VERSION)",
	"rhel":                "redhat:enterprise_linux:$(MAJOR_VERSION)",
	"centos":              "centos:centos:$(MAJOR_VERSION)",
	"alma":                "almalinux:almalinux:$(MAJOR_VERSION)",
	"amzn":                "amazon:amazon_linux:$(MAJOR_VERSION)",
	"sles":                "suse:sles:$(MAJOR_VERSION)",
	"sled":                "suse:sled:$(MAJOR_VERSION)",
	"opensuse-leap":       "opensuse:leap:$(VERSION)",
	"opensuse-tumbleweed": "opensuse:tumbleweed",
	"fedora":              "fedoraproject:fedora:$(MAJOR_VERSION)",
	"darwin":              "apple:mac_os_x:$(VERSION)",
}

// CPETemplatesWindows maps a Windows major version to its CPE template
// string, keyed separately because the product name changes per release
// (windows_10, windows_11, ...).
var CPETemplatesWindows = map[string]string{
	"10": "microsoft:windows_10_$(DISPLAY_VERSION):$(VERSION):::::",
	"11": "microsoft:windows_11_$(DISPLAY_VERSION):$(VERSION):::::",
}

// CPETemplateFor returns the CPE template for a given platform/major
// version pair, or "" if none is configured.
func CPETemplateFor(platform, majorVersion string) string {
	if platform == "windows" {
		return CPETemplatesWindows[majorVersion]
	}
	return CPETemplates[platform]
}
