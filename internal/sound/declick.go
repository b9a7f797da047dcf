package sound

import "sound-declick/internal/audioclip"

// Amplification returns the gain for a frame distance frames away from
// the nearest retained sound: 1 within closenessFrames/2, 0 beyond
// closenessFrames, and a linear ramp in between.
func Amplification(distance, closenessFrames int) float64 {
	if closenessFrames <= 0 {
		if distance == 0 {
			return 1
		}
		return 0
	}
	d, c := float64(distance), float64(closenessFrames)
	switch {
	case d < c/2:
		return 1
	case d > c:
		return 0
	default:
		return (c - d) * 2 / c
	}
}

// Declick scales every frame of dst by the Amplification of its
// distance to the closest sound in retained, which must be ordered and
// non-overlapping. With no retained sounds the clip is silenced.
//
// The closest sound is tracked with two cursors that only move forward,
// so the walk is linear in frames plus sounds.
func Declick(dst audioclip.MutableSamples, retained []Sound, closenessFrames int) {
	cur, next := -1, 0
	if len(retained) > 0 {
		cur, next = 0, 1
	}

	for frame := 0; frame < dst.NumFrames(); frame++ {
		for cur >= 0 && next < len(retained) &&
			retained[next].DistanceToEndpoint(frame) < retained[cur].DistanceToEndpoint(frame) {
			cur, next = next, next+1
		}

		a := 0.0
		if cur >= 0 {
			a = Amplification(retained[cur].DistanceToEndpoint(frame), closenessFrames)
		}
		for ch := 0; ch < dst.NumChannels(); ch++ {
			dst.SetSample(frame, ch, dst.Sample(frame, ch)*a)
		}
	}
}
