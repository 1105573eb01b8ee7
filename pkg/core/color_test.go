package core

import "testing"

func TestNewFractionalLightColorPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-range fraction")
		}
	}()
	NewFractionalLightColor(1.5, 0, 0)
}

func TestRayColorAbsorbedBy(t *testing.T) {
	c := RayColor{R: 100, G: 100, B: 100}
	absorption := NewFractionalLightColor(0.5, 1, 0)
	got := c.AbsorbedBy(absorption)
	want := RayColor{R: 50, G: 0, B: 100}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRayColorIsNegligible(t *testing.T) {
	if !(RayColor{R: 10, G: 10, B: 10}).IsNegligible() {
		t.Errorf("expected sum 30 to be negligible")
	}
	if (RayColor{R: 100, G: 100, B: 100}).IsNegligible() {
		t.Errorf("expected sum 300 to not be negligible")
	}
}

func TestRayColorDivideScalar(t *testing.T) {
	c := RayColor{R: 10, G: 20, B: 30}
	got := c.DivideScalar(2)
	want := RayColor{R: 5, G: 10, B: 15}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRayColorToLightColorClamps(t *testing.T) {
	c := RayColor{R: 300, G: -10, B: 127.6}
	got := c.ToLightColor()
	if got.R != 255 || got.G != 0 || got.B != 127 {
		t.Errorf("unexpected clamp result: %+v", got)
	}
}

func TestFractionalLightColorAllAtLeast(t *testing.T) {
	c := NewFractionalLightColor(0.99, 1, 0.995)
	if !c.AllAtLeast(0.99) {
		t.Errorf("expected all channels >= 0.99")
	}
	c2 := NewFractionalLightColor(0.5, 1, 1)
	if c2.AllAtLeast(0.99) {
		t.Errorf("expected not all channels >= 0.99")
	}
}
