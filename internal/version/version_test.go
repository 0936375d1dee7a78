package version

import "testing"

func TestComparerForFallsBackToPackageFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		versionType, format string
		wantScheme          string
	}{
		{"", "rpm", "rpm"},
		{"custom", "deb", "deb"},
		{"custom", "pacman", "apk"},
		{"custom", "pypi", "semver"},
		{"semver", "rpm", "semver"},
		{"custom", "unknown-format", "lexical"},
	}
	for _, tc := range tests {
		got := ComparerFor(tc.versionType, tc.format)
		var gotScheme string
		switch got.(type) {
		case rpmComparer:
			gotScheme = "rpm"
		case debComparer:
			gotScheme = "deb"
		case apkComparer:
			gotScheme = "apk"
		case semverComparer:
			gotScheme = "semver"
		case lexicalComparer:
			gotScheme = "lexical"
		}
		if gotScheme != tc.wantScheme {
			t.Errorf("ComparerFor(%q, %q) scheme = %q, want %q", tc.versionType, tc.format, gotScheme, tc.wantScheme)
		}
	}
}

func TestInLessThanRangeZeroLowerBound(t *testing.T) {
	t.Parallel()
	ok, err := InLessThanRange(lexicalComparer{}, "b", "0", "c")
	if err != nil {
		t.Fatalf("InLessThanRange: %v", err)
	}
	if !ok {
		t.Error("expected b to be in range [0, c)")
	}
}

func TestInLessThanRangeExplicitLowerBound(t *testing.T) {
	t.Parallel()
	ok, err := InLessThanRange(lexicalComparer{}, "a", "b", "d")
	if err != nil {
		t.Fatalf("InLessThanRange: %v", err)
	}
	if ok {
		t.Error("expected a to be excluded below lower bound b")
	}
}

func TestInLessThanOrEqualRangeInclusiveUpper(t *testing.T) {
	t.Parallel()
	ok, err := InLessThanOrEqualRange(lexicalComparer{}, "d", "b", "d")
	if err != nil {
		t.Fatalf("InLessThanOrEqualRange: %v", err)
	}
	if !ok {
		t.Error("expected d to be included at the inclusive upper bound")
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	ok, err := Equal(lexicalComparer{}, "1.2.3", "1.2.3")
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if !ok {
		t.Error("expected exact match")
	}
}
