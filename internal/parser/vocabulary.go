package parser

import "strings"

// PropertyKind says how an entity property value is interpreted.
type PropertyKind uint8

const (
	KindUnknown PropertyKind = iota
	KindText
	KindNumber
	KindComposite
)

func (k PropertyKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// TransformKey is the composite position/orientation property.
const TransformKey = "T"

// lockedTargetPrefix marks target id properties. They are text even where the
// suffix would read as a geometry channel.
const lockedTargetPrefix = "LockedTarget"

// Vocabulary is the closed table of entity property names. It is built once
// and only read afterwards.
type Vocabulary struct {
	kinds map[string]PropertyKind
}

// NewVocabulary builds a vocabulary from explicit text and numeric property
// lists. T is always composite.
func NewVocabulary(text, numeric []string) *Vocabulary {
	v := &Vocabulary{kinds: make(map[string]PropertyKind, len(text)+len(numeric)+1)}
	for _, name := range numeric {
		v.kinds[name] = KindNumber
	}
	for _, name := range text {
		v.kinds[name] = KindText
	}
	v.kinds[TransformKey] = KindComposite
	return v
}

// DefaultVocabulary returns the Tacview 2.x property table.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(TextProperties, NumericProperties)
}

// Kind classifies a property name.
func (v *Vocabulary) Kind(name string) PropertyKind {
	if strings.HasPrefix(name, lockedTargetPrefix) {
		return KindText
	}
	if k, ok := v.kinds[name]; ok {
		return k
	}
	return KindUnknown
}

// TextProperties are written as opaque text.
var TextProperties = []string{
	"Name", "Type", "AdditionalType", "Parent", "Next",
	"ShortName", "LongName", "FullName",
	"CallSign", "Registration", "Squawk", "ICAO24",
	"Pilot", "Group", "Country", "Coalition", "Color", "Shape",
	"Debug", "Label",
	"FocusTarget", "FocusedTarget",
	"LockedTarget", "LockedTarget2", "LockedTarget3", "LockedTarget4", "LockedTarget5",
	"LockedTarget6", "LockedTarget7", "LockedTarget8", "LockedTarget9",
	"LockedTargetMode", "LockedTargetAzimuth", "LockedTargetElevation", "LockedTargetRange",
}

// NumericProperties are parsed as float64.
var NumericProperties = []string{
	"Importance", "Slot", "Disabled", "Visible", "Health",
	"Length", "Width", "Height", "Radius",
	"IAS", "CAS", "TAS", "Mach", "AOA", "AOS", "AGL", "HDG", "HDM",
	"Throttle", "Throttle2", "EngineRPM", "EngineRPM2",
	"Afterburner", "AirBrakes", "Flaps",
	"LandingGear", "LandingGearHandle", "Tailhook", "Parachute", "DragChute",
	"FuelWeight", "FuelWeight2", "FuelWeight3", "FuelWeight4", "FuelWeight5",
	"FuelWeight6", "FuelWeight7", "FuelWeight8", "FuelWeight9",
	"FuelVolume", "FuelVolume2", "FuelVolume3", "FuelVolume4", "FuelVolume5",
	"FuelVolume6", "FuelVolume7", "FuelVolume8", "FuelVolume9",
	"FuelFlowWeight", "FuelFlowWeight2", "FuelFlowWeight3", "FuelFlowWeight4",
	"FuelFlowWeight5", "FuelFlowWeight6", "FuelFlowWeight7", "FuelFlowWeight8",
	"FuelFlowVolume", "FuelFlowVolume2", "FuelFlowVolume3", "FuelFlowVolume4",
	"FuelFlowVolume5", "FuelFlowVolume6", "FuelFlowVolume7", "FuelFlowVolume8",
	"RadarMode", "RadarAzimuth", "RadarElevation", "RadarRoll", "RadarRange",
	"RadarHorizontalBeamwidth", "RadarVerticalBeamwidth",
	"RadarRangeGateAzimuth", "RadarRangeGateElevation", "RadarRangeGateRoll",
	"RadarRangeGateMin", "RadarRangeGateMax",
	"RadarRangeGateHorizontalBeamwidth", "RadarRangeGateVerticalBeamwidth",
	"EngagementMode", "EngagementMode2", "EngagementRange", "EngagementRange2",
	"VerticalEngagementRange", "VerticalEngagementRange2",
	"RollControlInput", "PitchControlInput", "YawControlInput",
	"RollControlPosition", "PitchControlPosition", "YawControlPosition",
	"RollTrimTab", "PitchTrimTab", "YawTrimTab",
	"AileronLeft", "AileronRight", "Elevator", "Rudder",
	"PilotHeadRoll", "PilotHeadPitch", "PilotHeadYaw",
	"VerticalGForce", "LongitudinalGForce", "LateralGForce",
	"TriggerPressed", "ENL", "HeartRate", "SpO2",
}

// TransformProperties are the properties a T record can write, in position order.
var TransformProperties = []string{
	"Longitude", "Latitude", "Altitude", "Roll", "Pitch", "Yaw", "U", "V", "Heading",
}
