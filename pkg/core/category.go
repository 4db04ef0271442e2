package core

// Category is a canonical entity classification derived from Type tags.
type Category string

// Tacview object categories.
const (
	Plane           Category = "Plane"
	Helicopter      Category = "Helicopter"
	AntiAircraft    Category = "AntiAircraft"
	Armor           Category = "Armor"
	Tank            Category = "Tank"
	GroundVehicle   Category = "GroundVehicle"
	Watercraft      Category = "Watercraft"
	Warship         Category = "Warship"
	AircraftCarrier Category = "AircraftCarrier"
	Submarine       Category = "Submarine"
	Sonobuoy        Category = "Sonobuoy"
	Human           Category = "Human"
	Infantry        Category = "Infantry"
	Parachutist     Category = "Parachutist"
	Missile         Category = "Missile"
	Rocket          Category = "Rocket"
	Bomb            Category = "Bomb"
	Projectile      Category = "Projectile"
	Beam            Category = "Beam"
	Shell           Category = "Shell"
	Bullet          Category = "Bullet"
	BallisticShell  Category = "BallisticShell"
	Grenade         Category = "Grenade"
	Decoy           Category = "Decoy"
	Flare           Category = "Flare"
	Chaff           Category = "Chaff"
	SmokeGrenade    Category = "SmokeGrenade"
	Building        Category = "Building"
	Aerodrome       Category = "Aerodrome"
	Bullseye        Category = "Bullseye"
	Waypoint        Category = "Waypoint"
	Container       Category = "Container"
	Shrapnel        Category = "Shrapnel"
	MinorObject     Category = "MinorObject"
	Explosion       Category = "Explosion"
	F16C            Category = "F16C"
	Bicycle         Category = "Bicycle"
	AIM120C         Category = "AIM-120C"
)

// TypeSeparator joins tags in a raw Type value and categories in a type label.
const TypeSeparator = "+"
