package routing

// DecodePolyline reconstructs a coordinate path from Google's encoded
// polyline format: base64-like bytes (5 payload bits each, offset by 63)
// forming little-endian variable-length signed integers, accumulated as
// running deltas in 1e-5 degree units.
//
// An empty string yields an empty path. A truncated trailing value (the
// encoder was cut off mid-number or mid-pair) is dropped rather than
// producing an error.
func DecodePolyline(encoded string) []Point {
	var points []Point
	var lat, lng int

	for i := 0; i < len(encoded); {
		dlat, next, ok := decodeSigned(encoded, i)
		if !ok {
			break
		}
		dlng, after, ok := decodeSigned(encoded, next)
		if !ok {
			break
		}
		lat += dlat
		lng += dlng
		points = append(points, Point{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
		i = after
	}
	return points
}

// decodeSigned reads one zigzag-encoded varint starting at index i. ok is
// false when the input ends before the value terminates.
func decodeSigned(encoded string, i int) (value, next int, ok bool) {
	result := 0
	shift := 0
	for {
		if i >= len(encoded) {
			return 0, i, false
		}
		b := int(encoded[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i, true
	}
	return result >> 1, i, true
}
