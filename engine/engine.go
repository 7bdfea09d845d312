// Package engine owns the report lifecycle: creation with drift forecast and
// authority dispatch, the single-winner accept race, and the ordered status
// state machine with its append-only history.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/patil-piyush/OceanGuard/detect"
	"github.com/patil-piyush/OceanGuard/drift"
	"github.com/patil-piyush/OceanGuard/geo"
	"github.com/patil-piyush/OceanGuard/models"
	"github.com/patil-piyush/OceanGuard/notify"
)

// ReportStore is the persistence boundary. Mutations guarding invariants are
// conditional updates that return their matched count.
type ReportStore interface {
	Insert(ctx context.Context, r *models.Report) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	Accept(ctx context.Context, reportID, authorityID primitive.ObjectID, remarks string) (int64, error)
	AppendRejection(ctx context.Context, reportID, authorityID primitive.ObjectID, remarks string) (int64, error)
	CloseIfAllRejected(ctx context.Context, reportID primitive.ObjectID) (int64, error)
	AdvanceStatus(ctx context.Context, reportID, authorityID primitive.ObjectID, from, to models.Status, remarks string) (int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error)
	ListPendingForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error)
	ListCompletedForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error)
}

type AuthorityStore interface {
	ListAvailable(ctx context.Context) ([]models.Authority, error)
}

// Classifier is the opaque image -> category boundary.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (detect.Result, error)
}

// WeatherSource samples wind/current conditions; it degrades to a partial
// snapshot instead of failing.
type WeatherSource interface {
	Sample(ctx context.Context, lat, lng float64) models.WeatherSnapshot
}

// ImageStore persists an uploaded image and returns its reference URL.
type ImageStore interface {
	Store(ctx context.Context, r io.Reader, size int64, filename string) (string, error)
}

// EventSink receives best-effort lifecycle events. May be nil.
type EventSink interface {
	PublishReportEvent(ctx context.Context, kind string, report *models.Report)
}

// Config carries the dispatch tunables. Zero values fall back to the
// defaults the original deployment used.
type Config struct {
	RadiusKm        float64
	Steps           int
	IntervalMinutes int
}

func (c Config) withDefaults() Config {
	if c.RadiusKm <= 0 {
		c.RadiusKm = 10
	}
	if c.Steps <= 0 {
		c.Steps = 6
	}
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 30
	}
	return c
}

// Engine wires the collaborators together. All dependencies are injected;
// the engine holds no mutable state between requests.
type Engine struct {
	reports     ReportStore
	authorities AuthorityStore
	classifier  Classifier
	weather     WeatherSource
	images      ImageStore
	notifier    notify.Notifier
	events      EventSink
	cfg         Config
}

func New(reports ReportStore, authorities AuthorityStore, classifier Classifier, weather WeatherSource, images ImageStore, notifier notify.Notifier, events EventSink, cfg Config) *Engine {
	return &Engine{
		reports:     reports,
		authorities: authorities,
		classifier:  classifier,
		weather:     weather,
		images:      images,
		notifier:    notifier,
		events:      events,
		cfg:         cfg.withDefaults(),
	}
}

// CreateReportInput is the validated boundary input for report creation.
type CreateReportInput struct {
	UserID   primitive.ObjectID
	Image    io.Reader
	Size     int64
	Filename string
	Lat      float64
	Lng      float64
}

// CreateReportOutput echoes what the creation pipeline produced.
type CreateReportOutput struct {
	Report     *models.Report
	Deliveries []notify.Delivery
}

// CreateReport runs the full dispatch pipeline: store the image, classify it,
// sample weather, forecast drift, pick nearby authorities, persist the report
// atomically with its seeded history, then fan out notifications. The report
// is durably committed before fan-out starts, so no delivery failure can
// fail creation.
func (e *Engine) CreateReport(ctx context.Context, in CreateReportInput) (*CreateReportOutput, error) {
	if err := validateCoordinates(in.Lat, in.Lng); err != nil {
		return nil, err
	}
	if in.Image == nil {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}

	imageURL, err := e.images.Store(ctx, in.Image, in.Size, in.Filename)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	result, err := e.classifier.Classify(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}
	if result.Category == models.CategoryNone {
		return nil, fmt.Errorf("%w: no debris or oil spill detected in the image", ErrValidation)
	}

	weather := e.weather.Sample(ctx, in.Lat, in.Lng)
	path := drift.Predict(in.Lat, in.Lng, weather, result.Category, e.cfg.Steps, e.cfg.IntervalMinutes)

	available, err := e.authorities.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}
	candidates := geo.Nearby(in.Lat, in.Lng, e.cfg.RadiusKm, available)

	notified := make([]primitive.ObjectID, 0, len(candidates))
	for _, c := range candidates {
		notified = append(notified, c.Authority.ID)
	}

	now := time.Now().UTC()
	report := &models.Report{
		UserID:              in.UserID,
		Category:            result.Category,
		ImageURL:            imageURL,
		Lat:                 in.Lat,
		Lng:                 in.Lng,
		PredictedPath:       path,
		WeatherData:         weather,
		MLOutput:            result.MLOutput,
		NotifiedAuthorities: notified,
		Status:              models.StatusPending,
		History: []models.HistoryEntry{{
			Status:    models.StatusPending,
			Timestamp: now,
			Remarks:   "Report created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := e.reports.Insert(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = id

	// Creation is committed; everything past here is best effort.
	deliveries := notify.Fanout(ctx, e.notifier, report, candidates)
	if e.events != nil {
		e.events.PublishReportEvent(ctx, "created", report)
	}
	log.Printf("engine: report %s created, category=%s notified=%d", id.Hex(), report.Category, len(notified))

	return &CreateReportOutput{Report: report, Deliveries: deliveries}, nil
}

// Decide records an authority's accept or reject on a pending report.
//
// Accept pushes all three preconditions (pending, unassigned, notified) into
// one conditional write, so of N racing accepts exactly one matches. A
// zero-match outcome is re-read once to tell the caller which precondition
// lost: not found, already assigned, or not a notified party.
func (e *Engine) Decide(ctx context.Context, reportID, authorityID primitive.ObjectID, decision, remarks string) (*models.Report, error) {
	switch decision {
	case "accept":
		matched, err := e.reports.Accept(ctx, reportID, authorityID, remarks)
		if err != nil {
			return nil, err
		}
		if matched == 0 {
			return nil, e.classifyDecisionFailure(ctx, reportID, authorityID)
		}
	case "reject":
		matched, err := e.reports.AppendRejection(ctx, reportID, authorityID, remarks)
		if err != nil {
			return nil, err
		}
		if matched == 0 {
			return nil, e.classifyDecisionFailure(ctx, reportID, authorityID)
		}
		if closed, err := e.reports.CloseIfAllRejected(ctx, reportID); err != nil {
			log.Printf("engine: close-if-all-rejected for %s failed: %v", reportID.Hex(), err)
		} else if closed > 0 {
			log.Printf("engine: report %s closed, all notified authorities declined", reportID.Hex())
		}
	default:
		return nil, fmt.Errorf("%w: decision must be accept or reject", ErrValidation)
	}

	report, err := e.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if e.events != nil {
		e.events.PublishReportEvent(ctx, "decided", report)
	}
	return report, nil
}

// classifyDecisionFailure turns a zero-match decision into the precise error.
// The read happens after the failed write, so the classification reflects
// whoever won the race.
func (e *Engine) classifyDecisionFailure(ctx context.Context, reportID, authorityID primitive.ObjectID) error {
	report, err := e.reports.FindByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrNotFound
	}
	if !contains(report.NotifiedAuthorities, authorityID) {
		return ErrNotEligible
	}
	return ErrConflict
}

// UpdateStatus advances an accepted report one step along
// accepted -> in_progress -> cleaned -> completed. The authorization check
// runs before the state-machine check; the write itself re-asserts both so a
// concurrent update cannot slip a skipped state through.
func (e *Engine) UpdateStatus(ctx context.Context, reportID, authorityID primitive.ObjectID, newStatus models.Status, remarks string) (*models.Report, error) {
	if !models.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	report, err := e.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if report.AssignedAuthority == nil || *report.AssignedAuthority != authorityID {
		return nil, ErrNotAssignee
	}
	if !models.CanAdvance(report.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, report.Status, newStatus)
	}

	matched, err := e.reports.AdvanceStatus(ctx, reportID, authorityID, report.Status, newStatus, remarks)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		// Someone moved the report between our read and write.
		return nil, ErrConflict
	}

	updated, err := e.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	if e.events != nil {
		e.events.PublishReportEvent(ctx, "status_changed", updated)
	}
	return updated, nil
}

// Read-only views. None of these mutate anything.

func (e *Engine) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	return e.reports.ListByUser(ctx, userID)
}

func (e *Engine) ListPendingForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error) {
	return e.reports.ListPendingForAuthority(ctx, authorityID)
}

func (e *Engine) ListCompletedForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error) {
	return e.reports.ListCompletedForAuthority(ctx, authorityID)
}

// FindNearbyAuthorities exposes the geospatial lookup on its own.
func (e *Engine) FindNearbyAuthorities(ctx context.Context, lat, lng, radiusKm float64) ([]geo.Candidate, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = e.cfg.RadiusKm
	}
	available, err := e.authorities.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return geo.Nearby(lat, lng, radiusKm, available), nil
}

// PredictTrajectory samples live weather and runs the drift model without
// creating anything.
func (e *Engine) PredictTrajectory(ctx context.Context, lat, lng float64, category models.Category, steps, intervalMinutes int) ([]models.TrajectoryPoint, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if category != models.CategoryOilSpill && category != models.CategoryDebris {
		return nil, fmt.Errorf("%w: category must be oil_spill or debris", ErrValidation)
	}
	if steps <= 0 {
		steps = e.cfg.Steps
	}
	if intervalMinutes <= 0 {
		intervalMinutes = e.cfg.IntervalMinutes
	}

	weather := e.weather.Sample(ctx, lat, lng)
	return drift.Predict(lat, lng, weather, category, steps, intervalMinutes), nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	if lat == 0 && lng == 0 {
		return fmt.Errorf("%w: invalid coordinates", ErrValidation)
	}
	return nil
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
