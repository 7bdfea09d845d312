package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report categories as produced by the classifier.
type Category string

const (
	CategoryOilSpill Category = "oil_spill"
	CategoryDebris   Category = "debris"
	CategoryNone     Category = "none"
)

// Report statuses. pending forks into accepted/rejected; the accepted branch
// advances strictly one step at a time.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCleaned    Status = "cleaned"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// nextStatus is the allow-list for authority progress updates. Decisions
// (pending -> accepted/rejected) go through Decide, not UpdateStatus.
var nextStatus = map[Status]Status{
	StatusAccepted:   StatusInProgress,
	StatusInProgress: StatusCleaned,
	StatusCleaned:    StatusCompleted,
}

// CanAdvance reports whether to is the legal successor of from for the
// assigned authority. No step may be skipped.
func CanAdvance(from, to Status) bool {
	return nextStatus[from] == to
}

// IsTerminal reports whether no further transitions are allowed.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusRejected
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCleaned, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// WeatherSnapshot is the wind/current sample used for prediction. All fields
// are independently nullable; a missing source contributes zero drift.
type WeatherSnapshot struct {
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
	WindSpeed        *float64  `bson:"wind_speed" json:"wind_speed"`
	WindDirection    *float64  `bson:"wind_direction" json:"wind_direction"`
	CurrentSpeed     *float64  `bson:"current_speed" json:"current_speed"`
	CurrentDirection *float64  `bson:"current_direction" json:"current_direction"`
}

// TrajectoryPoint is one step of the drift forecast.
type TrajectoryPoint struct {
	Lat float64   `bson:"lat" json:"lat"`
	Lng float64   `bson:"lng" json:"lng"`
	ETA time.Time `bson:"eta" json:"eta"`
}

// HistoryEntry is one append-only audit record. By is nil for entries the
// system writes (e.g. report creation).
type HistoryEntry struct {
	Status    Status              `bson:"status" json:"status"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
	By        *primitive.ObjectID `bson:"by" json:"by,omitempty"`
	Remarks   string              `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// MLOutput carries the classifier confidences stored with the report.
type MLOutput struct {
	OilConfidence    float64 `bson:"oil_confidence" json:"oil_confidence"`
	DebrisConfidence float64 `bson:"debris_confidence" json:"debris_confidence"`
}

// Report is the central entity. notified_authorities is fixed at creation;
// assigned_authority is set exactly once, by the accept race winner; history
// only ever grows.
type Report struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Category            Category             `bson:"category" json:"category"`
	ImageURL            string               `bson:"image_url" json:"image_url"`
	Lat                 float64              `bson:"lat" json:"lat"`
	Lng                 float64              `bson:"lng" json:"lng"`
	PredictedPath       []TrajectoryPoint    `bson:"predicted_path" json:"predicted_path"`
	WeatherData         WeatherSnapshot      `bson:"weather_data" json:"weather_data"`
	MLOutput            MLOutput             `bson:"ml_output" json:"ml_output"`
	NotifiedAuthorities []primitive.ObjectID `bson:"notified_authorities" json:"notified_authorities"`
	AssignedAuthority   *primitive.ObjectID  `bson:"assigned_authority" json:"assigned_authority,omitempty"`
	RejectedBy          []primitive.ObjectID `bson:"rejected_by,omitempty" json:"-"`
	Status              Status               `bson:"status" json:"status"`
	History             []HistoryEntry       `bson:"history" json:"history"`
	CreatedAt           time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updated_at"`
}
