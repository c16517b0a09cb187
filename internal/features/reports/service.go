package reports

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetpulse/streetpulse/internal/classifier"
	"github.com/streetpulse/streetpulse/internal/pkg/logger"
	"github.com/streetpulse/streetpulse/internal/pkg/storage"
	"github.com/streetpulse/streetpulse/internal/triage"
	"github.com/streetpulse/streetpulse/internal/vision"
	apperrors "github.com/streetpulse/streetpulse/pkg/errors"
)

// Proximity query contract: a 50 meter great-circle radius expressed as the
// angular radius $centerSphere expects, using the WGS84 equatorial Earth
// radius.
const (
	EarthRadiusMeters      = 6378137.0
	ProximityRadiusMeters  = 50.0
	ProximityRadiusRadians = ProximityRadiusMeters / EarthRadiusMeters
)

// Store is the persistence contract the intake and read paths need.
// *Repository satisfies it.
type Store interface {
	Insert(ctx context.Context, report *Report) error
	CountWithinRadius(ctx context.Context, lon, lat, radiusRadians float64) (int64, error)
	FindFiltered(ctx context.Context, authority, status string) ([]Report, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*Report, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
	IssueTypeCounts(ctx context.Context) (map[string]int64, error)
	UserStatusCounts(ctx context.Context, userID primitive.ObjectID) (map[string]int64, error)
}

// Service runs the intake pipeline: descriptor extraction, classification,
// label arbitration, authority routing, density lookup, scoring, image save,
// and the final insert.
type Service struct {
	store  Store
	model  classifier.Classifier
	images storage.Store
}

func NewService(store Store, model classifier.Classifier, images storage.Store) *Service {
	return &Service{store: store, model: model, images: images}
}

// Submission is one citizen report entering the pipeline
type Submission struct {
	Image       []byte
	ImageName   string
	Longitude   float64
	Latitude    float64
	Description string
	UserLabel   string
	UserID      *primitive.ObjectID
}

// Submit processes a submission end to end and persists the report.
// Classification is best effort: undecodable images and model failures fall
// back to the default prediction rather than rejecting the report. Store
// failures on the final insert are surfaced; a failed density lookup only
// degrades the score's density term to zero.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Report, error) {
	pred := s.classify(sub.Image)

	severity := triage.SeverityFor(pred.Confidence)
	issueType := triage.Arbitrate(sub.UserLabel, pred.Label)
	authority := triage.AuthorityFor(issueType)

	// Density is a soft signal: count-then-insert is deliberately not
	// transactional, near-simultaneous submissions may both see the lower
	// count.
	nearby, err := s.store.CountWithinRadius(ctx, sub.Longitude, sub.Latitude, ProximityRadiusRadians)
	if err != nil {
		logger.Warn("density lookup failed, defaulting to 0: %v", err)
		nearby = 0
	}

	score := triage.PriorityScore(severity, int(nearby), pred.Confidence)

	imageURL, err := s.images.Save(ctx, sub.Image, authority, sub.ImageName)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	description := sub.Description
	if description == "" {
		description = DefaultDescription
	}

	report := &Report{
		UserID:        sub.UserID,
		IssueType:     issueType,
		Description:   description,
		ImagePath:     imageURL,
		Location:      NewGeoPoint(sub.Longitude, sub.Latitude),
		PriorityScore: score,
		Severity:      severity,
		Status:        StatusAIAnalyzed,
	}

	if err := s.store.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	return report, nil
}

// classify runs extraction and the model, degrading to the fixed fallback
// prediction on any failure.
func (s *Service) classify(image []byte) classifier.Prediction {
	fallback := classifier.Prediction{
		Label:      classifier.FallbackLabel,
		Confidence: classifier.FallbackConfidence,
	}

	descriptor, err := vision.Extract(image)
	if err != nil {
		logger.Warn("image decode failed, using fallback classification: %v", err)
		return fallback
	}

	pred, err := s.model.Classify(descriptor)
	if err != nil {
		logger.Warn("classification failed, using fallback: %v", err)
		return fallback
	}
	return pred
}

// List returns reports for the optional authority and status filters,
// sorted by priority score descending.
func (s *Service) List(ctx context.Context, authority, status string) ([]View, error) {
	found, err := s.store.FindFiltered(ctx, authority, status)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(found))
	for i := range found {
		views = append(views, found[i].ToView())
	}
	return views, nil
}

// OverallStats aggregates totals by status and, via the routing table, by
// responsible authority.
func (s *Service) OverallStats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.store.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	byIssueType, err := s.store.IssueTypeCounts(ctx)
	if err != nil {
		return nil, err
	}

	byAuthority := make(map[string]int64)
	var total int64
	for issueType, count := range byIssueType {
		byAuthority[triage.AuthorityFor(issueType)] += count
		total += count
	}

	return &Stats{
		TotalReports: total,
		ByStatus:     byStatus,
		ByAuthority:  byAuthority,
	}, nil
}

// UserStats aggregates one citizen's submissions by status.
func (s *Service) UserStats(ctx context.Context, userID primitive.ObjectID) (*Stats, error) {
	byStatus, err := s.store.UserStatusCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &Stats{TotalReports: total, ByStatus: byStatus}, nil
}
