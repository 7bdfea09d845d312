// Package store wraps the MongoDB collections behind the narrow interfaces
// the lifecycle engine consumes. Every mutation that guards an invariant is a
// single conditional update: the predicates and the write land in one round
// trip, which is what makes the accept race safe without locks.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patil-piyush/OceanGuard/models"
)

type ReportStore struct {
	col *mongo.Collection
}

func NewReportStore(col *mongo.Collection) *ReportStore {
	return &ReportStore{col: col}
}

// Insert persists a new report and returns its generated id.
func (s *ReportStore) Insert(ctx context.Context, r *models.Report) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, r)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert report: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("insert report: unexpected id type")
	}
	return id, nil
}

func (s *ReportStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &r, nil
}

// Accept assigns the report to authorityID iff it is still pending,
// unassigned, and the authority was notified. All three predicates and the
// mutation ride one UpdateOne, so concurrent accepts resolve to exactly one
// winner. Returns the matched count; zero means some predicate failed.
func (s *ReportStore) Accept(ctx context.Context, reportID, authorityID primitive.ObjectID, remarks string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id":                  reportID,
			"status":               models.StatusPending,
			"assigned_authority":   nil,
			"notified_authorities": authorityID,
		},
		bson.M{
			"$set": bson.M{
				"status":             models.StatusAccepted,
				"assigned_authority": authorityID,
				"updated_at":         now,
			},
			"$push": bson.M{"history": models.HistoryEntry{
				Status:    models.StatusAccepted,
				Timestamp: now,
				By:        &authorityID,
				Remarks:   remarks,
			}},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("accept report: %w", err)
	}
	return res.MatchedCount, nil
}

// AppendRejection records that a notified authority declined. Status stays
// pending and the report remains open to the other notified authorities.
func (s *ReportStore) AppendRejection(ctx context.Context, reportID, authorityID primitive.ObjectID, remarks string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id":                  reportID,
			"status":               models.StatusPending,
			"notified_authorities": authorityID,
		},
		bson.M{
			"$addToSet": bson.M{"rejected_by": authorityID},
			"$set":      bson.M{"updated_at": now},
			"$push": bson.M{"history": models.HistoryEntry{
				Status:    models.StatusPending,
				Timestamp: now,
				By:        &authorityID,
				Remarks:   remarks,
			}},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("append rejection: %w", err)
	}
	return res.MatchedCount, nil
}

// CloseIfAllRejected moves a pending report to terminal rejected once every
// notified authority has declined it. Conditional, so a concurrent accept
// that slipped in first wins and this becomes a no-op.
func (s *ReportStore) CloseIfAllRejected(ctx context.Context, reportID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id":    reportID,
			"status": models.StatusPending,
			"$expr": bson.M{"$setIsSubset": bson.A{
				"$notified_authorities",
				bson.M{"$ifNull": bson.A{"$rejected_by", bson.A{}}},
			}},
		},
		bson.M{
			"$set": bson.M{
				"status":     models.StatusRejected,
				"updated_at": now,
			},
			"$push": bson.M{"history": models.HistoryEntry{
				Status:    models.StatusRejected,
				Timestamp: now,
				Remarks:   "All notified authorities declined",
			}},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("close rejected report: %w", err)
	}
	return res.MatchedCount, nil
}

// AdvanceStatus moves the report from one status to its successor, but only
// for the assigned authority and only while the report is still at from.
func (s *ReportStore) AdvanceStatus(ctx context.Context, reportID, authorityID primitive.ObjectID, from, to models.Status, remarks string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id":                reportID,
			"assigned_authority": authorityID,
			"status":             from,
		},
		bson.M{
			"$set": bson.M{
				"status":     to,
				"updated_at": now,
			},
			"$push": bson.M{"history": models.HistoryEntry{
				Status:    to,
				Timestamp: now,
				By:        &authorityID,
				Remarks:   remarks,
			}},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("advance status: %w", err)
	}
	return res.MatchedCount, nil
}

func (s *ReportStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Report, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

// ListPendingForAuthority returns reports the authority was notified for that
// nobody has claimed yet.
func (s *ReportStore) ListPendingForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error) {
	return s.list(ctx, bson.M{
		"status":               models.StatusPending,
		"notified_authorities": authorityID,
		"assigned_authority":   nil,
	})
}

func (s *ReportStore) ListCompletedForAuthority(ctx context.Context, authorityID primitive.ObjectID) ([]models.Report, error) {
	return s.list(ctx, bson.M{
		"assigned_authority": authorityID,
		"status":             models.StatusCompleted,
	})
}

func (s *ReportStore) list(ctx context.Context, filter bson.M) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	reports := make([]models.Report, 0)
	if err := cur.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}
