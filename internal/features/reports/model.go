package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetpulse/streetpulse/internal/triage"
)

// Report lifecycle states. A report is born "AI Analyzed"; the admin
// workflow moves it through the rest.
const (
	StatusAIAnalyzed = "AI Analyzed"
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// DefaultDescription is stored when the citizen left the field empty
const DefaultDescription = "No description provided"

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude] so
// MongoDB's 2dsphere index can consume it directly.
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

func (p GeoPoint) Lon() float64 { return p.Coordinates[0] }
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Report is the persisted street-issue entity. The responsible authority is
// not stored: it is recomputed from IssueType at read time.
type Report struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	IssueType     string              `bson:"issueType" json:"issueType"`
	Description   string              `bson:"description" json:"description"`
	ImagePath     string              `bson:"imagePath" json:"imagePath"`
	Location      GeoPoint            `bson:"location" json:"location"`
	PriorityScore float64             `bson:"priorityScore" json:"priorityScore"`
	Severity      triage.Severity     `bson:"severity" json:"severity"`
	Status        string              `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// LocationView is the flattened lon/lat shape the API serves
type LocationView struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// View is the serialized form returned by the list and get endpoints.
type View struct {
	ID              string       `json:"id"`
	IssueType       string       `json:"issue_type"`
	Description     string       `json:"description"`
	Status          string       `json:"status"`
	Severity        string       `json:"severity"`
	PriorityScore   float64      `json:"priority_score"`
	TargetAuthority string       `json:"target_authority"`
	ImageURL        string       `json:"image_url"`
	Location        LocationView `json:"location"`
	CreatedAt       string       `json:"created_at"`
}

// ToView derives the API shape, routing the authority from the issue type.
func (r *Report) ToView() View {
	return View{
		ID:              r.ID.Hex(),
		IssueType:       r.IssueType,
		Description:     r.Description,
		Status:          r.Status,
		Severity:        string(r.Severity),
		PriorityScore:   r.PriorityScore,
		TargetAuthority: triage.AuthorityFor(r.IssueType),
		ImageURL:        r.ImagePath,
		Location:        LocationView{Lon: r.Location.Lon(), Lat: r.Location.Lat()},
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// SubmitResponse is returned after a successful submission
type SubmitResponse struct {
	ID              string  `json:"id"`
	IssueType       string  `json:"issue_type"`
	Severity        string  `json:"severity"`
	PriorityScore   float64 `json:"priority_score"`
	TargetAuthority string  `json:"target_authority"`
	Status          string  `json:"status"`
}

// UpdateStatusRequest is the payload for the status-update endpoint
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Stats aggregates report counts for the dashboard endpoints
type Stats struct {
	TotalReports int64            `json:"total_reports"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByAuthority  map[string]int64 `json:"by_authority,omitempty"`
}
