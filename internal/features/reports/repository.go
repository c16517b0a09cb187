package reports

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetpulse/streetpulse/internal/triage"
	apperrors "github.com/streetpulse/streetpulse/pkg/errors"
)

// Repository handles report persistence and the geo query backing the
// proximity signal.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates the indexes the
// intake and list paths rely on, notably the 2dsphere index over location.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("reports")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "priorityScore", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})

	return &Repository{collection: collection}
}

// Insert persists a new report, assigning its id and timestamps.
func (r *Repository) Insert(ctx context.Context, report *Report) error {
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

// CountWithinRadius counts reports whose location lies within the given
// angular radius (radians) of the point. $centerSphere takes the radius in
// radians, so the caller owns the meters-to-radians conversion.
func (r *Repository) CountWithinRadius(ctx context.Context, lon, lat, radiusRadians float64) (int64, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lon, lat}, radiusRadians},
			},
		},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// FindFiltered returns reports matching the optional authority and status
// filters, sorted by priority score descending. The authority filter expands
// to the issue types routed to that authority; the default authority also
// catches every issue type the routing table does not know.
func (r *Repository) FindFiltered(ctx context.Context, authority, status string) ([]Report, error) {
	filter := bson.M{}

	if authority != "" {
		mapped := triage.IssueTypesFor(authority)
		if authority == triage.DefaultAuthority {
			filter["$or"] = bson.A{
				bson.M{"issueType": bson.M{"$in": mapped}},
				bson.M{"issueType": bson.M{"$nin": triage.MappedIssueTypes()}},
			}
		} else {
			if mapped == nil {
				mapped = []string{}
			}
			filter["issueType"] = bson.M{"$in": mapped}
		}
	}

	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "priorityScore", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []Report
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FindByID fetches a single report.
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	var report Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// UpdateStatus moves a report to a new lifecycle state, refreshing
// updatedAt and leaving createdAt untouched.
func (r *Repository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*Report, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report Report
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// StatusCounts groups all reports by status.
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, bson.M{}, "$status")
}

// IssueTypeCounts groups all reports by issue type; the stats endpoint folds
// these into per-authority totals through the routing table.
func (r *Repository) IssueTypeCounts(ctx context.Context) (map[string]int64, error) {
	return r.groupCounts(ctx, bson.M{}, "$issueType")
}

// UserStatusCounts groups one user's reports by status.
func (r *Repository) UserStatusCounts(ctx context.Context, userID primitive.ObjectID) (map[string]int64, error) {
	return r.groupCounts(ctx, bson.M{"userId": userID}, "$status")
}

func (r *Repository) groupCounts(ctx context.Context, match bson.M, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
