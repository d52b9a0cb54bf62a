package sharing

import (
	"fmt"
	"strings"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
)

// ShareSettingsDTO is the owner's view of a trip's sharing state. ShareURL
// is only present once a token has been minted.
type ShareSettingsDTO struct {
	IsPublic  bool       `json:"is_public"`
	AllowCopy bool       `json:"allow_copy"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ShareURL  string     `json:"share_url,omitempty"`
}

func settingsFromTrip(trip *models.Trip, publicBaseURL string) *ShareSettingsDTO {
	settings := &ShareSettingsDTO{
		IsPublic:  trip.Visibility == enums.TripVisibilityPublic,
		AllowCopy: trip.AllowCopy,
		ExpiresAt: trip.ShareExpiresAt,
	}
	if trip.ShareToken != nil {
		settings.ShareURL = fmt.Sprintf("%s/trips/shared/%s", strings.TrimRight(publicBaseURL, "/"), *trip.ShareToken)
	}
	return settings
}
