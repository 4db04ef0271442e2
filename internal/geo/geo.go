package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Track points are stored as EPSG:3857 so SQLite (no spatial awareness) and PostGIS
// hold the same WKB bytes. The WGS84 values are kept next to the point by the caller.

// MaxMercatorLatitude is the latitude bound of the Web Mercator projection.
const MaxMercatorLatitude = 85.05112878

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

var to3857 = wgs84.EPSG().Transform(4326, 3857)

// Coords3857From4326 creates a 2D Web Mercator point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	x, y, err := project(longitude, latitude)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), err
	}
	point = geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Type: geom.DimXY,
		},
	)
	return point, nil
}

// TrackPoint creates a 3D Web Mercator point; altitude is carried unchanged as Z.
func TrackPoint(longitude, latitude, altitude float64) (geom.Point, error) {
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) {
		return geom.NewEmptyPoint(geom.DimXYZ), ErrInvalidCoordinates
	}
	x, y, err := project(longitude, latitude)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXYZ), err
	}
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Z:    altitude,
			Type: geom.DimXYZ,
		},
	), nil
}

func project(longitude, latitude float64) (x, y float64, err error) {
	if math.IsNaN(longitude) || math.IsNaN(latitude) ||
		longitude < -180 || longitude > 180 ||
		latitude < -MaxMercatorLatitude || latitude > MaxMercatorLatitude {
		return 0, 0, ErrInvalidCoordinates
	}
	x, y, _ = to3857(longitude, latitude, 0)
	return x, y, nil
}
