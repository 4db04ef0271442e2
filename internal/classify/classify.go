// Package classify maps raw ACMI Type tag sets to canonical entity categories.
package classify

import (
	"sort"
	"strings"

	"github.com/OCAP2/acmi/pkg/core"
)

// Entry maps one or more tag sets to a category.
type Entry struct {
	Category core.Category
	Tags     []string
}

// Classifier holds an ordered, canonicalized category table. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	entries []entry
}

type entry struct {
	category core.Category
	keys     map[string]struct{}
}

// New builds a classifier. Tag sets are canonicalized once here; entry order
// is the order matches appear in a label.
func New(entries []Entry) *Classifier {
	c := &Classifier{entries: make([]entry, 0, len(entries))}
	for _, e := range entries {
		keys := make(map[string]struct{}, len(e.Tags))
		for _, tags := range e.Tags {
			keys[Canonical(tags)] = struct{}{}
		}
		c.entries = append(c.entries, entry{category: e.Category, keys: keys})
	}
	return c
}

// Default returns a classifier over the Tacview object category table.
func Default() *Classifier {
	return New(DefaultEntries())
}

// DefaultEntries returns a fresh copy of the Tacview category table.
func DefaultEntries() []Entry {
	return []Entry{
		{core.Plane, []string{"Air+FixedWing"}},
		{core.Helicopter, []string{"Air+Rotorcraft"}},
		{core.AntiAircraft, []string{"Ground+AntiAircraft"}},
		{core.Armor, []string{"Ground+Heavy+Armor+Vehicle"}},
		{core.Tank, []string{"Ground+Heavy+Armor+Vehicle+Tank"}},
		{core.GroundVehicle, []string{"Ground+Vehicle"}},
		{core.Watercraft, []string{"Sea+Watercraft"}},
		{core.Warship, []string{"Sea+Watercraft+Warship"}},
		{core.AircraftCarrier, []string{"Sea+Watercraft+AircraftCarrier", "Heavy+Sea+Watercraft+AircraftCarrier"}},
		{core.Submarine, []string{"Sea+Watercraft+Submarine"}},
		{core.Sonobuoy, []string{"Sea+Sensor"}},
		{core.Human, []string{"Ground+Light+Human"}},
		{core.Infantry, []string{"Ground+Light+Human+Infantry"}},
		{core.Parachutist, []string{"Ground+Light+Human+Air+Parachutist"}},
		{core.Missile, []string{"Weapon+Missile"}},
		{core.Rocket, []string{"Weapon+Rocket"}},
		{core.Bomb, []string{"Weapon+Bomb"}},
		{core.Projectile, []string{"Weapon+Projectile"}},
		{core.Beam, []string{"Weapon+Beam"}},
		{core.Shell, []string{"Projectile+Shell"}},
		{core.Bullet, []string{"Projectile+Bullet"}},
		{core.BallisticShell, []string{"Projectile+Shell+Heavy"}},
		{core.Grenade, []string{"Projectile+Grenade"}},
		{core.Decoy, []string{"Misc+Decoy"}},
		{core.Flare, []string{"Misc+Decoy+Flare"}},
		{core.Chaff, []string{"Misc+Decoy+Chaff"}},
		{core.SmokeGrenade, []string{"Misc+Decoy+SmokeGrenade"}},
		{core.Building, []string{"Ground+Static+Building"}},
		{core.Aerodrome, []string{"Ground+Static+Aerodrome"}},
		{core.Bullseye, []string{"Navaid+Static+Bullseye"}},
		{core.Waypoint, []string{"Navaid+Static+Waypoint"}},
		{core.Container, []string{"Misc+Container"}},
		{core.Shrapnel, []string{"Misc+Shrapnel"}},
		{core.MinorObject, []string{"Misc+Minor"}},
		{core.Explosion, []string{"Misc+Explosion"}},
		{core.F16C, []string{"Medium+Air+FixedWing"}},
		{core.Bicycle, []string{"Light+Ground+Vehicle"}},
		{core.AIM120C, []string{"Medium+Weapon+Missile"}},
	}
}

// Canonical sorts the tags of a raw Type value so that equal tag sets compare
// equal as strings.
func Canonical(raw string) string {
	tags := strings.Split(raw, core.TypeSeparator)
	sort.Strings(tags)
	return strings.Join(tags, core.TypeSeparator)
}

// Categories returns every category whose tag sets contain the canonical form
// of raw, in table order.
func (c *Classifier) Categories(raw string) []core.Category {
	key := Canonical(raw)
	var out []core.Category
	for _, e := range c.entries {
		if _, ok := e.keys[key]; ok {
			out = append(out, e.category)
		}
	}
	return out
}

// Classify returns the type label for raw: the matched categories joined with
// "+", or "" when nothing matches.
func (c *Classifier) Classify(raw string) string {
	cats := c.Categories(raw)
	if len(cats) == 0 {
		return ""
	}
	parts := make([]string, len(cats))
	for i, cat := range cats {
		parts[i] = string(cat)
	}
	return strings.Join(parts, core.TypeSeparator)
}
