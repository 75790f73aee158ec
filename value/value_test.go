package value

import "testing"

func TestEqualScalars(t *testing.T) {
	cases := []struct {
		a, b  Value
		equal bool
	}{
		{OfNil(), OfNil(), true},
		{OfBool(true), OfBool(true), true},
		{OfBool(true), OfBool(false), false},
		{OfInt(42), OfInt(42), true},
		{OfInt(42), OfInt(43), false},
		{OfFloat(1.5), OfFloat(1.5), true},
		{OfString("a"), OfString("b"), false},
		{OfInt(1), OfString("1"), false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.equal {
			t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.equal)
		}
	}
}

func TestEqualBytes(t *testing.T) {
	a := OfBytes([]byte("hello"))
	b := OfBytes([]byte("hello"))
	c := OfBytes([]byte("world"))
	if !Equal(a, b) {
		t.Fatal("equal byte slices compared unequal")
	}
	if Equal(a, c) {
		t.Fatal("different byte slices compared equal")
	}
}

func TestEqualSliceAndMap(t *testing.T) {
	s1 := OfSlice([]Value{OfInt(1), OfString("x")})
	s2 := OfSlice([]Value{OfInt(1), OfString("x")})
	s3 := OfSlice([]Value{OfInt(1), OfString("y")})
	if !Equal(s1, s2) {
		t.Fatal("equal slices compared unequal")
	}
	if Equal(s1, s3) {
		t.Fatal("different slices compared equal")
	}

	m1 := OfMap(map[string]Value{"a": OfInt(1)})
	m2 := OfMap(map[string]Value{"a": OfInt(1)})
	m3 := OfMap(map[string]Value{"a": OfInt(2)})
	if !Equal(m1, m2) {
		t.Fatal("equal maps compared unequal")
	}
	if Equal(m1, m3) {
		t.Fatal("different maps compared equal")
	}
}

func TestIsNil(t *testing.T) {
	if !OfNil().IsNil() {
		t.Fatal("OfNil() should report IsNil")
	}
	if OfInt(0).IsNil() {
		t.Fatal("zero int should not report IsNil")
	}
}

func TestKindString(t *testing.T) {
	if Kind(99).String() != "unknown" {
		t.Fatal("unrecognized kind should stringify as unknown")
	}
	if Map.String() != "map" {
		t.Fatalf("Map.String() = %q", Map.String())
	}
}
