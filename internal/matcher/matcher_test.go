package matcher

import (
	"testing"

	"github.com/hostvuln/scanorch"
)

func TestMatchPackageScenarios(t *testing.T) {
	t.Parallel()

	base := scanorch.Package{
		Name:    "libgif7",
		Vendor:  "Ubuntu Developers <foo@example.com>",
		Version: "5.1.9",
		Format:  "deb",
	}

	tests := []struct {
		name      string
		pkg       scanorch.Package
		candidate scanorch.Candidate
		wantOK    bool
		wantTag   scanorch.MatchConditionTag
		wantVer   string
	}{
		{
			name: "lessThan with explicit zero lower bound",
			pkg:  base,
			candidate: scanorch.Candidate{
				CVEID:     "CVE-2024-1234",
				Platforms: []string{"upstream"},
				Versions: []scanorch.VersionRule{
					{Status: scanorch.Affected, Version: "0", LessThan: "5.2.0"},
				},
			},
			wantOK:  true,
			wantTag: scanorch.LessThan,
			wantVer: "5.2.0",
		},
		{
			name: "exact match",
			pkg:  base,
			candidate: scanorch.Candidate{
				CVEID:     "CVE-2024-1234",
				Platforms: []string{"upstream"},
				Versions: []scanorch.VersionRule{
					{Status: scanorch.Affected, Version: "5.1.9"},
				},
			},
			wantOK:  true,
			wantTag: scanorch.Equal,
			wantVer: "5.1.9",
		},
		{
			name: "unaffected status yields no match",
			pkg:  base,
			candidate: scanorch.Candidate{
				CVEID:     "CVE-2024-1234",
				Platforms: []string{"upstream"},
				Versions: []scanorch.VersionRule{
					{Status: scanorch.Unaffected, Version: "5.1.9"},
				},
			},
			wantOK: false,
		},
		{
			name: "unknown vendor rejects vendor-bearing candidate",
			pkg:  scanorch.Package{Name: "libgif7", Vendor: " ", Version: "5.1.9", Format: "deb"},
			candidate: scanorch.Candidate{
				CVEID:     "CVE-2024-1234",
				Platforms: []string{"upstream"},
				Vendor:    "testVendor",
				Versions: []scanorch.VersionRule{
					{Status: scanorch.Affected, Version: "5.1.9"},
				},
			},
			wantOK: false,
		},
		{
			name: "platform gate rejects non-matching platform",
			pkg:  base,
			candidate: scanorch.Candidate{
				CVEID:     "CVE-2024-0001",
				Platforms: []string{"rhel"},
				Versions: []scanorch.VersionRule{
					{Status: scanorch.Affected, Version: "5.1.9"},
				},
			},
			wantOK: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, status, cond, err := MatchPackage(tc.candidate, "upstream", tc.pkg)
			if err != nil {
				t.Fatalf("MatchPackage: %v", err)
			}
			gotOK := ok && status == scanorch.Affected
			if gotOK != tc.wantOK {
				t.Fatalf("matched = %v, want %v", gotOK, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if cond.Tag != tc.wantTag {
				t.Errorf("condition tag = %v, want %v", cond.Tag, tc.wantTag)
			}
			if cond.Version != tc.wantVer {
				t.Errorf("condition version = %q, want %q", cond.Version, tc.wantVer)
			}
		})
	}
}

func TestVendorGateRejectsBlankVendorAgainstVendoredCandidate(t *testing.T) {
	t.Parallel()
	// Universal property 6 (spec §8): no element for a package with empty
	// or blank vendor against a candidate that carries a vendor.
	candidate := scanorch.Candidate{Vendor: "testVendor"}
	for _, v := range []string{"", " "} {
		pkg := scanorch.Package{Vendor: v}
		if VendorGate(candidate, pkg) {
			t.Errorf("VendorGate with vendor %q = true, want false", v)
		}
	}
}

func TestVendorGateCaseInsensitive(t *testing.T) {
	t.Parallel()
	candidate := scanorch.Candidate{Vendor: "TestVendor"}
	pkg := scanorch.Package{Vendor: "testvendor"}
	if !VendorGate(candidate, pkg) {
		t.Error("VendorGate should match case-insensitively")
	}
}

func TestTransitivityOfUnaffectedStatus(t *testing.T) {
	t.Parallel()
	// Universal property 7: if any unaffected rule matches, no affected
	// rule is recorded for the same (package, cve). Evaluate stops at the
	// first matching rule, so an unaffected rule earlier in the list wins.
	pkg := scanorch.Package{Version: "1.0.0", Format: "deb"}
	c := scanorch.Candidate{
		CVEID: "CVE-2024-5555",
		Versions: []scanorch.VersionRule{
			{Status: scanorch.Unaffected, Version: "1.0.0"},
			{Status: scanorch.Affected, Version: "0", LessThan: "2.0.0"},
		},
	}
	_, status, _, err := Evaluate(c, pkg.Version, pkg.Format)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if status != scanorch.Unaffected {
		t.Errorf("status = %v, want Unaffected", status)
	}
}
