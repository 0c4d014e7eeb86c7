package ptr

import "testing"

func TestBool(t *testing.T) {
	t.Parallel()
	if p := Bool(true); p == nil || !*p {
		t.Errorf("Bool(true) = %v, want pointer to true", p)
	}
}

func TestTo(t *testing.T) {
	t.Parallel()
	a, b := To("x"), To("x")
	if a == b {
		t.Error("To must return a fresh pointer per call")
	}
	if *a != "x" {
		t.Errorf("*To(\"x\") = %q", *a)
	}
}

func TestDeref(t *testing.T) {
	t.Parallel()
	if got := Deref[int](nil, 7); got != 7 {
		t.Errorf("Deref(nil, 7) = %d, want 7", got)
	}
	if got := Deref(To(3), 7); got != 3 {
		t.Errorf("Deref(&3, 7) = %d, want 3", got)
	}
}
