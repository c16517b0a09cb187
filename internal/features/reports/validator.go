package reports

import (
	"errors"
	"strconv"
)

var errInvalidCoordinates = errors.New("longitude and latitude must be valid coordinates")

// parseCoordinates parses and bounds-checks the submitted coordinate pair.
// Both fields are required and must be parseable floats within
// longitude [-180,180] and latitude [-90,90].
func parseCoordinates(lonStr, latStr string) (lon, lat float64, err error) {
	if lonStr == "" || latStr == "" {
		return 0, 0, errInvalidCoordinates
	}

	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, errInvalidCoordinates
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, errInvalidCoordinates
	}

	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return 0, 0, errInvalidCoordinates
	}

	return lon, lat, nil
}

// validStatuses are the lifecycle states the update endpoint accepts
var validStatuses = map[string]bool{
	StatusAIAnalyzed: true,
	StatusPending:    true,
	StatusInProgress: true,
	StatusResolved:   true,
}

func isValidStatus(status string) bool {
	return validStatuses[status]
}
