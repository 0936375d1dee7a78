package version

// InLessThanRange reports whether observed falls in [lower, upper) — or
// [0, upper) when lower is the sentinel "0" (spec §4.2 step 3, lessThan
// rule).
func InLessThanRange(cmp Comparer, observed, lower, upper string) (bool, error) {
	if lower != "0" && lower != "" {
		ord, err := cmp.Compare(observed, lower)
		if err != nil {
			return false, err
		}
		if ord < 0 {
			return false, nil
		}
	}
	ord, err := cmp.Compare(observed, upper)
	if err != nil {
		return false, err
	}
	return ord < 0, nil
}

// InLessThanOrEqualRange reports whether observed falls in [lower, upper]
// (spec §4.2 step 3, lessThanOrEqual rule).
func InLessThanOrEqualRange(cmp Comparer, observed, lower, upper string) (bool, error) {
	if lower != "0" && lower != "" {
		ord, err := cmp.Compare(observed, lower)
		if err != nil {
			return false, err
		}
		if ord < 0 {
			return false, nil
		}
	}
	ord, err := cmp.Compare(observed, upper)
	if err != nil {
		return false, err
	}
	return ord <= 0, nil
}

// Equal reports whether observed equals exact under cmp's scheme (spec
// §4.2 step 3, exact-match rule).
func Equal(cmp Comparer, observed, exact string) (bool, error) {
	ord, err := cmp.Compare(observed, exact)
	if err != nil {
		return false, err
	}
	return ord == 0, nil
}
