package services

import "github.com/tidwall/geodesic"

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// AmsterdamCentre is the reference point the distance column is measured from by default.
var AmsterdamCentre = Point{Lat: 52.3676, Lon: 4.9041}

// DistanceKm returns the geodesic distance between a and b on the WGS-84 ellipsoid.
func DistanceKm(a, b Point) float64 {
	var m float64
	geodesic.WGS84.Inverse(a.Lat, a.Lon, b.Lat, b.Lon, &m, nil, nil)
	return m / 1000
}

// DistanceToCentreKm is DistanceKm from (lat, lon) to centre.
func DistanceToCentreKm(lat, lon float64, centre Point) float64 {
	return DistanceKm(Point{Lat: lat, Lon: lon}, centre)
}
