package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns a lat/lng box that contains the circle of radiusKm around a point.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	minLat, maxLat = math.Max(lat-dLat, -90), math.Min(lat+dLat, 90)
	cos := math.Cos(rad(lat))
	if cos < 1e-6 || maxLat >= 90 || minLat <= -90 {
		return minLat, maxLat, -180, 180
	}
	dLng := dLat / cos
	minLng, maxLng = lng-dLng, lng+dLng
	if minLng < -180 || maxLng > 180 {
		return minLat, maxLat, -180, 180
	}
	return
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
