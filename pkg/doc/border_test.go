package doc

import "testing"

func TestBorderCacheKey_SentinelStatesDistinct(t *testing.T) {
	borders := map[string]Border{
		"unset":       {State: BorderUnset},
		"cleared":     {State: BorderCleared},
		"set-nil":     {State: BorderSet},
		"set-none":    {State: BorderSet, Spec: &BorderSpec{None: true}},
		"set-drawn":   {State: BorderSet, Spec: &BorderSpec{Style: "single", Width: 0.5, Color: "000000"}},
		"set-default": {State: BorderSet, Spec: &BorderSpec{}},
	}
	seen := map[uint64]string{}
	for name, b := range borders {
		key := b.CacheKey()
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s share cache key %#x", name, prev, key)
		}
		seen[key] = name
	}
}

func TestBorderCacheKey_EqualSpecsHashEqual(t *testing.T) {
	a := Border{State: BorderSet, Spec: &BorderSpec{Style: "double", Width: 1.5, Color: "FF0000"}}
	b := Border{State: BorderSet, Spec: &BorderSpec{Style: "double", Width: 1.5, Color: "FF0000"}}
	if a.CacheKey() != b.CacheKey() {
		t.Error("identical specs in distinct allocations must hash identically")
	}
}

func TestBorderCacheKey_FieldSensitivity(t *testing.T) {
	base := Border{State: BorderSet, Spec: &BorderSpec{Style: "single", Width: 1, Color: "000000"}}
	variants := []Border{
		{State: BorderSet, Spec: &BorderSpec{Style: "double", Width: 1, Color: "000000"}},
		{State: BorderSet, Spec: &BorderSpec{Style: "single", Width: 2, Color: "000000"}},
		{State: BorderSet, Spec: &BorderSpec{Style: "single", Width: 1, Color: "FF0000"}},
	}
	for i, v := range variants {
		if v.CacheKey() == base.CacheKey() {
			t.Errorf("variant %d collides with base despite differing field", i)
		}
	}
}

func TestBorderCacheKey_NoFieldConcatenationAliasing(t *testing.T) {
	// The style is NUL-terminated in the fold, so a style suffix cannot
	// alias with the width bytes that follow.
	a := Border{State: BorderSet, Spec: &BorderSpec{Style: "ab", Color: "c"}}
	b := Border{State: BorderSet, Spec: &BorderSpec{Style: "a", Color: "bc"}}
	if a.CacheKey() == b.CacheKey() {
		t.Error("style/color concatenation aliasing")
	}
}
