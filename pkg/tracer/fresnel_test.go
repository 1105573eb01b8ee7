package tracer

import (
	"math"
	"testing"
)

func TestFresnelReflectanceNormalIncidence(t *testing.T) {
	got := fresnelReflectance(0, 1, 1.5)
	want := 0.04
	if math.Abs(got-want) > 0.005 {
		t.Errorf("expected reflectance near %v at normal incidence, got %v", want, got)
	}
}

func TestFresnelReflectanceGrazingIncidence(t *testing.T) {
	got := fresnelReflectance(math.Pi/2-1e-6, 1, 1.5)
	if got < 0.99 {
		t.Errorf("expected reflectance near 1 at grazing incidence, got %v", got)
	}
}

func TestFresnelReflectanceTotalInternalReflection(t *testing.T) {
	// n1=1.5, n2=1: critical angle is asin(1/1.5) ~= 41.8 degrees.
	criticalAngle := math.Asin(1 / 1.5)
	got := fresnelReflectance(criticalAngle+0.1, 1.5, 1)
	if got != 1.0 {
		t.Errorf("expected total internal reflection past the critical angle, got %v", got)
	}
}

func TestSnellRefractedAngleMatchesSnellsLaw(t *testing.T) {
	incoming := math.Pi / 6 // 30 degrees
	angle, ok := snellRefractedAngle(incoming, 1, 1.5)
	if !ok {
		t.Fatalf("expected a valid refraction angle")
	}

	lhs := 1 * math.Sin(incoming)
	rhs := 1.5 * math.Sin(angle)
	if math.Abs(lhs-rhs) > 1e-9 {
		t.Errorf("Snell's law violated: n1*sin(i)=%v, n2*sin(t)=%v", lhs, rhs)
	}
}

func TestSnellRefractedAngleTotalInternalReflection(t *testing.T) {
	criticalAngle := math.Asin(1 / 1.5)
	_, ok := snellRefractedAngle(criticalAngle+0.1, 1.5, 1)
	if ok {
		t.Errorf("expected no valid refraction angle past the critical angle")
	}
}
