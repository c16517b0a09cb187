package reports

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetpulse/streetpulse/internal/classifier"
	"github.com/streetpulse/streetpulse/internal/pkg/storage"
	"github.com/streetpulse/streetpulse/internal/triage"
	apperrors "github.com/streetpulse/streetpulse/pkg/errors"
)

// stubStore is an in-memory Store for pipeline tests
type stubStore struct {
	inserted  []*Report
	nearby    int64
	countErr  error
	insertErr error
	filtered  []Report
	findErr   error
	byStatus  map[string]int64
	byIssue   map[string]int64
	byUser    map[string]int64
}

func (s *stubStore) Insert(ctx context.Context, report *Report) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	report.ID = primitive.NewObjectID()
	s.inserted = append(s.inserted, report)
	return nil
}

func (s *stubStore) CountWithinRadius(ctx context.Context, lon, lat, radiusRadians float64) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.nearby, nil
}

func (s *stubStore) FindFiltered(ctx context.Context, authority, status string) ([]Report, error) {
	return s.filtered, s.findErr
}

func (s *stubStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Report, error) {
	for _, r := range s.inserted {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *stubStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*Report, error) {
	r, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Status = status
	return r, nil
}

func (s *stubStore) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return s.byStatus, nil
}

func (s *stubStore) IssueTypeCounts(ctx context.Context) (map[string]int64, error) {
	return s.byIssue, nil
}

func (s *stubStore) UserStatusCounts(ctx context.Context, userID primitive.ObjectID) (map[string]int64, error) {
	return s.byUser, nil
}

// fixedClassifier always returns the same prediction
type fixedClassifier struct {
	pred classifier.Prediction
	err  error
}

func (f fixedClassifier) Classify(descriptor []float64) (classifier.Prediction, error) {
	return f.pred, f.err
}

func validPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T, store *stubStore, model classifier.Classifier) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return NewService(store, model, storage.NewDiskStore(dir, "/uploads")), dir
}

func TestSubmit_FullPipeline(t *testing.T) {
	store := &stubStore{nearby: 3}
	model := fixedClassifier{pred: classifier.Prediction{Label: "unsafe_area", Confidence: 0.9}}
	svc, dir := newTestService(t, store, model)

	report, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
		Longitude: 78.4867,
		Latitude:  17.3850,
	})
	require.NoError(t, err)

	assert.Equal(t, "Unsafe Area", report.IssueType)
	assert.Equal(t, triage.SeverityHigh, report.Severity)
	assert.Equal(t, StatusAIAnalyzed, report.Status)
	assert.Equal(t, DefaultDescription, report.Description)
	// High(1.0)*5 + (3/5)*3 + 0.9*2 = 8.6
	assert.Equal(t, 8.6, report.PriorityScore)
	assert.Equal(t, 78.4867, report.Location.Lon())
	assert.Equal(t, 17.3850, report.Location.Lat())
	assert.False(t, report.ID.IsZero())

	// Image landed under the routed authority's partition
	entries, err := os.ReadDir(filepath.Join(dir, "HYDRA"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSubmit_UserLabelOverridesClassifier(t *testing.T) {
	store := &stubStore{}
	model := fixedClassifier{pred: classifier.Prediction{Label: "unsafe_area", Confidence: 0.9}}
	svc, _ := newTestService(t, store, model)

	report, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
		UserLabel: "  Waterlogging ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Waterlogging", report.IssueType)
	assert.Equal(t, "HMWSSB", report.ToView().TargetAuthority)
	// Severity still comes from the classifier's confidence
	assert.Equal(t, triage.SeverityHigh, report.Severity)
}

func TestSubmit_UndecodableImageStillPersists(t *testing.T) {
	store := &stubStore{}
	model := fixedClassifier{pred: classifier.Prediction{Label: "pothole", Confidence: 0.99}}
	svc, _ := newTestService(t, store, model)

	report, err := svc.Submit(context.Background(), Submission{
		Image:     []byte("not an image at all"),
		ImageName: "garbage.bin",
	})
	require.NoError(t, err)

	// Fallback classification: Other Urban Issue / Low / 0.5
	assert.Equal(t, "Other Urban Issue", report.IssueType)
	assert.Equal(t, triage.SeverityLow, report.Severity)
	assert.Equal(t, StatusAIAnalyzed, report.Status)
	// Low(0.3)*5 + 0*3 + 0.5*2 = 2.5
	assert.Equal(t, 2.5, report.PriorityScore)
}

func TestSubmit_ClassifierErrorFallsBack(t *testing.T) {
	store := &stubStore{}
	model := fixedClassifier{err: errors.New("dimension mismatch")}
	svc, _ := newTestService(t, store, model)

	report, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Other Urban Issue", report.IssueType)
	assert.Equal(t, triage.SeverityLow, report.Severity)
}

func TestSubmit_DensityLookupFailureIsNonFatal(t *testing.T) {
	store := &stubStore{countErr: errors.New("store unreachable")}
	model := fixedClassifier{pred: classifier.Prediction{Label: "pothole", Confidence: 0.9}}
	svc, _ := newTestService(t, store, model)

	report, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
	})
	require.NoError(t, err)
	// Density term degraded to 0: High(1.0)*5 + 0 + 0.9*2 = 6.8
	assert.Equal(t, 6.8, report.PriorityScore)
}

func TestSubmit_InsertFailureSurfaces(t *testing.T) {
	store := &stubStore{insertErr: errors.New("connection reset")}
	model := fixedClassifier{pred: classifier.Prediction{Label: "pothole", Confidence: 0.9}}
	svc, _ := newTestService(t, store, model)

	_, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
	})
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestSubmit_DegradedClassifier(t *testing.T) {
	store := &stubStore{nearby: 10}
	svc, _ := newTestService(t, store, classifier.Degraded{})

	report, err := svc.Submit(context.Background(), Submission{
		Image:     validPNG(t),
		ImageName: "street.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Other Urban Issue", report.IssueType)
	// Low(0.3)*5 + saturated(1.0)*3 + 0.5*2 = 5.5
	assert.Equal(t, 5.5, report.PriorityScore)
}

func TestList_MapsToViews(t *testing.T) {
	created := Report{
		ID:            primitive.NewObjectID(),
		IssueType:     "Streetlight",
		Description:   "flickering lamp",
		Status:        StatusAIAnalyzed,
		Severity:      triage.SeverityMedium,
		PriorityScore: 5.2,
		Location:      NewGeoPoint(78.4, 17.3),
	}
	store := &stubStore{filtered: []Report{created}}
	svc, _ := newTestService(t, store, classifier.Degraded{})

	views, err := svc.List(context.Background(), "TSSPDCL", "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "TSSPDCL", views[0].TargetAuthority)
	assert.Equal(t, 78.4, views[0].Location.Lon)
	assert.Equal(t, 17.3, views[0].Location.Lat)
}

func TestOverallStats_FoldsIssueTypesIntoAuthorities(t *testing.T) {
	store := &stubStore{
		byStatus: map[string]int64{StatusAIAnalyzed: 3, StatusResolved: 1},
		byIssue:  map[string]int64{"Pothole": 2, "Garbage Dump": 1, "Streetlight": 1},
	}
	svc, _ := newTestService(t, store, classifier.Degraded{})

	stats, err := svc.OverallStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalReports)
	assert.Equal(t, int64(3), stats.ByAuthority["GHMC"])
	assert.Equal(t, int64(1), stats.ByAuthority["TSSPDCL"])
}
