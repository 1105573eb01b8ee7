package tracer

import "math"

// fresnelReflectance computes the fraction of energy reflected at a
// dielectric interface using the s- and p-polarization Fresnel equations
// (averaged, i.e. unpolarized light), per the Wikipedia Fresnel-equations
// reference page cited in spec.md §4.1. incomingAngle is the angle from
// the surface normal in radians; nFrom/nTo are the indices of refraction
// of the medium the ray is leaving/entering.
//
// Shaped after the teacher's material.Reflectance (a small pure function
// of cosine + index ratio that clamps total-internal-reflection), but
// implementing the exact s/p forms rather than Schlick's approximation:
// spec.md's grazing- and normal-incidence scenarios pin down concrete
// expected values (→1 at grazing, ≈0.04 at normal for n=1→1.5) that
// Schlick does not reproduce exactly.
func fresnelReflectance(incomingAngle, nFrom, nTo float64) float64 {
	cosI := math.Cos(incomingAngle)
	sinI := math.Sin(incomingAngle)

	// Snell's law: nFrom*sinI = nTo*sinT
	sinT := nFrom / nTo * sinI

	// Radicand can go negative past the critical angle (total internal
	// reflection); this is a numerical degeneracy, clamped locally rather
	// than propagated, per spec.md §7.
	radicand := 1 - sinT*sinT
	if radicand < 0 {
		return 1.0
	}
	cosT := math.Sqrt(radicand)

	rs := safeRatio(nFrom*cosI-nTo*cosT, nFrom*cosI+nTo*cosT)
	rp := safeRatio(nFrom*cosT-nTo*cosI, nFrom*cosT+nTo*cosI)

	reflectance := (rs*rs + rp*rp) / 2
	return math.Max(0, math.Min(1, reflectance))
}

// safeRatio returns num/den, or 1 (full reflectance) if the denominator is
// degenerately close to zero — this only arises at exactly grazing
// incidence where both terms vanish together.
func safeRatio(num, den float64) float64 {
	if math.Abs(den) < 1e-12 {
		return 1
	}
	return num / den
}

// snellRefractedAngle computes the refracted angle via Snell's law given
// the incoming angle from normal and the ratio nFrom/nTo. Returns
// (angle, ok); ok is false past the critical angle (total internal
// reflection), in which case the caller should not spawn a refracted ray.
func snellRefractedAngle(incomingAngle, nFrom, nTo float64) (float64, bool) {
	sinT := nFrom / nTo * math.Sin(incomingAngle)
	if sinT > 1 || sinT < -1 {
		return 0, false
	}
	return math.Asin(sinT), true
}
