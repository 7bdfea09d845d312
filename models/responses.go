package models

// Typed request/response bodies. Every operation gets one struct; handlers
// never inspect payload shape beyond these.

// DecisionRequest is the body for POST /api/reports/:id/decision.
type DecisionRequest struct {
	Decision string `json:"decision"` // "accept" or "reject"
	Remarks  string `json:"remarks,omitempty"`
}

// StatusUpdateRequest is the body for POST /api/reports/:id/status.
type StatusUpdateRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// AvailabilityRequest is the body for PUT /api/authorities/availability.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

// TrajectoryRequest is the body for POST /api/trajectory/preview.
type TrajectoryRequest struct {
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Category        string  `json:"category"`
	Steps           int     `json:"steps,omitempty"`
	IntervalMinutes int     `json:"interval_minutes,omitempty"`
}

// CreateReportResponse is returned by POST /api/reports.
type CreateReportResponse struct {
	OK                  bool              `json:"ok"`
	Message             string            `json:"message"`
	ReportID            string            `json:"report_id"`
	ImageURL            string            `json:"image_url"`
	PredictedPath       []TrajectoryPoint `json:"predicted_path"`
	MLOutput            MLOutput          `json:"ml_output"`
	NotifiedAuthorities int               `json:"notified_authorities_count"`
}

// ReportListResponse wraps any read-only report listing.
type ReportListResponse struct {
	OK      bool     `json:"ok"`
	Reports []Report `json:"reports"`
}

// NearbyAuthority is one geospatial candidate with its great-circle distance.
type NearbyAuthority struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Station    string  `json:"station"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKm float64 `json:"distance_km"`
}

type NearbyAuthoritiesResponse struct {
	OK          bool              `json:"ok"`
	Authorities []NearbyAuthority `json:"authorities"`
}

type TrajectoryResponse struct {
	OK            bool              `json:"ok"`
	PredictedPath []TrajectoryPoint `json:"predicted_path"`
}
