package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Recording{},
	&Entity{},
	&Sample{},
	&Position{},
}

// Recording is one parsed ACMI stream (one file, or one entry of a zip archive)
type Recording struct {
	gorm.Model
	Source             string       `json:"source" gorm:"size:255;index:idx_recording_source"`
	FileType           string       `json:"fileType" gorm:"size:64"`
	FileVersion        float64      `json:"fileVersion"`
	Title              string       `json:"title" gorm:"size:255"`
	Author             string       `json:"author" gorm:"size:255"`
	Category           string       `json:"category" gorm:"size:127"`
	DataSource         string       `json:"dataSource" gorm:"size:255"`
	DataRecorder       string       `json:"dataRecorder" gorm:"size:255"`
	ReferenceTime      sql.NullTime `json:"referenceTime"`
	RecordingTime      sql.NullTime `json:"recordingTime"`
	ReferenceLongitude float64      `json:"referenceLongitude" gorm:"default:0"`
	ReferenceLatitude  float64      `json:"referenceLatitude" gorm:"default:0"`
	Objects            int          `json:"objects"`
	TimeFrames         int          `json:"timeFrames"`

	// Metadata holds the long free-text properties (Briefing, Debriefing, Comments)
	// and the unknown-property diagnostics.
	Metadata datatypes.JSON `json:"metadata" gorm:"default:'{}'"`

	Entities []Entity `json:"entities"`
}

func (*Recording) TableName() string {
	return "recordings"
}

// Entity is one tracked object of a recording
type Entity struct {
	ID          uint            `json:"id" gorm:"primarykey;autoIncrement;"`
	CreatedAt   time.Time       `json:"createdAt"`
	RecordingID uint            `json:"recordingId" gorm:"index:idx_entity_recording_id"`
	Recording   Recording       `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RecordingID;"`
	ObjectID    string          `json:"objectId" gorm:"size:64;index:idx_entity_object_id"` // identifier as written in the file
	Name        string          `json:"name" gorm:"size:255"`
	Country     string          `json:"country" gorm:"size:16"`
	Tags        string          `json:"tags" gorm:"size:255"`
	TypeLabel   string          `json:"typeLabel" gorm:"size:255"`
	RemovedAt   sql.NullFloat64 `json:"removedAt" gorm:"default:NULL"`
	Properties  datatypes.JSON  `json:"properties" gorm:"default:'[]'"` // property names in first-write order
}

func (*Entity) TableName() string {
	return "entities"
}

// Sample is one timeframe/value pair of one entity property.
// Exactly one of Number and Text is valid.
type Sample struct {
	ID       uint            `json:"id" gorm:"primarykey;autoIncrement;"`
	EntityID uint            `json:"entityId" gorm:"index:idx_sample_entity_property"`
	Entity   Entity          `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:EntityID;"`
	Property string          `json:"property" gorm:"size:64;index:idx_sample_entity_property"`
	Time     float64         `json:"time" gorm:"index:idx_sample_time"` // seconds from the reference time
	Number   sql.NullFloat64 `json:"number" gorm:"default:NULL"`
	Text     sql.NullString  `json:"text" gorm:"default:NULL"`
}

func (*Sample) TableName() string {
	return "samples"
}

// Position is the location of an entity at one timeframe.
// Point is projected to EPSG:3857; Longitude/Latitude keep the WGS84 values.
type Position struct {
	ID        uint            `json:"id" gorm:"primarykey;autoIncrement;"`
	EntityID  uint            `json:"entityId" gorm:"index:idx_position_entity_id"`
	Entity    Entity          `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:EntityID;"`
	Time      float64         `json:"time" gorm:"index:idx_position_time"`
	Point     geom.Point      `json:"point"`
	Longitude float64         `json:"longitude"`
	Latitude  float64         `json:"latitude"`
	Altitude  float64         `json:"altitude"`
	Heading   sql.NullFloat64 `json:"heading" gorm:"default:NULL"`
}

func (*Position) TableName() string {
	return "positions"
}
