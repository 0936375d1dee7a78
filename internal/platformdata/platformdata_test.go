package platformdata

import (
	"strings"
	"testing"

	"github.com/hostvuln/scanorch"
)

func TestResolveCNA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rawCNA       string
		platform     string
		majorVersion string
		want         string
	}{
		{"alma 8", "alma", "alma", "8", "alma_8"},
		{"amzn 2018 maps to alas 1", "amazon", "amzn", "2018", "alas_1"},
		{"amzn 2022 keeps major", "amazon", "amzn", "2022", "alas_2022"},
		{"sled 15 maps platform and major", "suse", "sled", "15", "suse_desktop_15"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveCNA(tc.rawCNA, tc.platform, tc.majorVersion)
			if got != tc.want {
				t.Errorf("ResolveCNA(%q, %q, %q) = %q, want %q", tc.rawCNA, tc.platform, tc.majorVersion, got, tc.want)
			}
		})
	}
}

func TestResolveCNAEmptyFallsBackToDefault(t *testing.T) {
	t.Parallel()
	got := ResolveCNA("", "ubuntu", "22")
	want, ok := CNATemplates[DefaultCNA]
	if !ok {
		want = DefaultCNA
	}
	want = strings.NewReplacer("$(MAJOR_VERSION)", "22", "$(PLATFORM)", "ubuntu").Replace(want)
	if got != want {
		t.Errorf("ResolveCNA(\"\", ...) = %q, want %q", got, want)
	}
}

func TestMajorVersionEquivalenceCompleteness(t *testing.T) {
	t.Parallel()
	// Property test (spec §8 universal property 4): every
	// majorVersionEquivalence entry must, once substituted through its
	// platform's CNA template, leave no unresolved placeholders.
	for platform, byMajor := range MajorVersionEquivalence {
		for raw := range byMajor {
			cna := platform
			if platform == "amzn" {
				cna = "amazon"
			}
			got := ResolveCNA(cna, platform, raw)
			if strings.Contains(got, "$(") {
				t.Errorf("ResolveCNA(%q, %q, %q) = %q still contains a placeholder", cna, platform, raw, got)
			}
		}
	}
}

func TestCPETemplateForTotality(t *testing.T) {
	t.Parallel()
	// Property test (spec §8 universal property 5): every configured
	// platform template must produce a CPE name with no unresolved
	// placeholders once rendered.
	os := scanorch.OS{MajorVersion: "1", Version: "1.2.3", DisplayVersion: "H2", Platform: "rhel"}
	for platform := range CPETemplates {
		os.Platform = platform
		tmpl := CPETemplateFor(platform, "1")
		if tmpl == "" {
			t.Fatalf("CPETemplateFor(%q, ...) returned empty template", platform)
		}
		cpe := os.CPEName(tmpl)
		if !strings.HasPrefix(cpe, "cpe:/o:") {
			t.Errorf("CPEName for %q = %q, want cpe:/o: prefix", platform, cpe)
		}
		if strings.Contains(cpe, "$(") {
			t.Errorf("CPEName for %q = %q still contains a placeholder", platform, cpe)
		}
	}
	os.Platform = "windows"
	for major := range CPETemplatesWindows {
		tmpl := CPETemplateFor("windows", major)
		cpe := os.CPEName(tmpl)
		if !strings.HasPrefix(cpe, "cpe:/o:") {
			t.Errorf("CPEName for windows %s = %q, want cpe:/o: prefix", major, cpe)
		}
		if strings.Contains(cpe, "$(") {
			t.Errorf("CPEName for windows %s = %q still contains a placeholder", major, cpe)
		}
	}
}
