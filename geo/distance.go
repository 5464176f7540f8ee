package geo

import "math"

// EarthRadiusKm is the mean radius of the earth used for great-circle math.
const EarthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance in kilometers between
// two points given as (latitude, longitude) in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DisplayDistance rounds a distance to one decimal for listing rows.
func DisplayDistance(km float64) float64 {
	return math.Round(km*10) / 10
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
