package math3d

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRotateAboutZ(t *testing.T) {
	// Rotate and RotateZ must agree when the axis is +Z.
	angle := math.Pi / 4
	ra := Rotate(V3(0, 0, 1), angle)
	rz := RotateZ(angle)

	for i := range ra {
		if !almostEqual(ra[i], rz[i], 1e-12) {
			t.Fatalf("element %d: Rotate = %v, RotateZ = %v", i, ra[i], rz[i])
		}
	}
}

func TestRotateDirection(t *testing.T) {
	// 90 degrees CCW around +Z takes +X to +Y.
	r := Rotate(V3(0, 0, 1), math.Pi/2)
	v := r.MulVec3(V3(1, 0, 0))

	if !almostEqual(v.X, 0, 1e-12) || !almostEqual(v.Y, 1, 1e-12) || !almostEqual(v.Z, 0, 1e-12) {
		t.Errorf("Rz(90)*(1,0,0) = %v, want (0, 1, 0)", v)
	}
}

func TestRotateNormalizesAxis(t *testing.T) {
	// A non-unit axis should produce the same rotation as the unit axis.
	r1 := Rotate(V3(0, 0, 10), math.Pi/3)
	r2 := Rotate(V3(0, 0, 1), math.Pi/3)

	for i := range r1 {
		if !almostEqual(r1[i], r2[i], 1e-12) {
			t.Fatalf("element %d: got %v, want %v", i, r1[i], r2[i])
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Translate(V3(7.3589, -6.9258, 4.9583)).
		Mul(Rotate(V3(0.773, 0.334, 0.539), 1.35)).
		Mul(Scale(V3(2, 3, 4)))

	id := m.Mul(m.Inverse())
	want := Identity()

	for i := range id {
		if !almostEqual(id[i], want[i], 1e-9) {
			t.Fatalf("element %d: m*inv(m) = %v, want %v", i, id[i], want[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	// Zero scale is singular; Inverse falls back to identity.
	m := Scale(V3(0, 0, 0))
	inv := m.Inverse()
	want := Identity()

	for i := range inv {
		if inv[i] != want[i] {
			t.Fatalf("element %d: got %v, want identity", i, inv[i])
		}
	}
}

func TestMulVec3Translation(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	v := m.MulVec3(V3(10, 10, 10))

	if v.X != 11 || v.Y != 12 || v.Z != 13 {
		t.Errorf("got %v, want (11, 12, 13)", v)
	}
}

func TestMulVec3DirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(100, 100, 100))
	v := m.MulVec3Dir(V3(1, 2, 3))

	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("got %v, want (1, 2, 3)", v)
	}
}
