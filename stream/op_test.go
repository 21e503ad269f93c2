package stream

import "testing"

func TestOpKind_String(t *testing.T) {
	tests := []struct {
		kind OpKind
		want string
	}{
		{OpMap, "map"},
		{OpFilter, "filter"},
		{OpSkip, "skip"},
		{OpKind(42), "OpKind(42)"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("%d: got %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestSkipOp_Predicate(t *testing.T) {
	tests := []struct {
		name string
		n    int
		skip []bool // for indices 0..3
	}{
		{"zero", 0, []bool{false, false, false, false}},
		{"negative", -2, []bool{false, false, false, false}},
		{"two", 2, []bool{true, true, false, false}},
		{"beyond", 10, []bool{true, true, true, true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			op := SkipOp[int](tc.n)
			if op.Kind != OpSkip {
				t.Fatalf("kind = %v", op.Kind)
			}
			for i, want := range tc.skip {
				if got := op.skipFn(i); got != want {
					t.Errorf("skip(%d) = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestSkipOp_CountFixedAtRegistration(t *testing.T) {
	n := 1
	op := SkipOp[int](n)
	n = 5
	if op.skipFn(2) {
		t.Error("changing n after registration must not affect the predicate")
	}
}

func TestOpConstructors_SetMatchingCallback(t *testing.T) {
	m := MapOp(func(x int) int { return x * 2 })
	if m.Kind != OpMap || m.mapFn == nil || m.filterFn != nil || m.skipFn != nil {
		t.Errorf("map op malformed: %+v", m)
	}
	f := FilterOp(func(x int) bool { return x > 0 })
	if f.Kind != OpFilter || f.filterFn == nil || f.mapFn != nil {
		t.Errorf("filter op malformed: %+v", f)
	}
}
