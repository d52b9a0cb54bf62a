package controllers

import (
	"net/http"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/api/responses"
	"github.com/globetrotter-app/globetrotter-backend/api/validators"
	"github.com/globetrotter-app/globetrotter-backend/internal/sharing"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type updateShareRequest struct {
	IsPublic    *bool      `json:"is_public,omitempty"`
	AllowCopy   *bool      `json:"allow_copy,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
	RotateToken bool       `json:"rotate_token,omitempty"`
}

// ShareSettingsGet handles GET /trips/{slug}/share. Owner only.
func ShareSettingsGet(svc sharing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Get(r.Context(), userID, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settings)
	}
}

// ShareSettingsUpdate handles PUT /trips/{slug}/share. Owner only.
func ShareSettingsUpdate(svc sharing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShareRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sharing.UpdateShareInput{
			IsPublic:    body.IsPublic,
			AllowCopy:   body.AllowCopy,
			RotateToken: body.RotateToken,
		}
		if body.ExpiresAt != nil {
			input.SetExpiry = true
			input.ExpiresAt = body.ExpiresAt
		} else if body.ClearExpiry {
			input.SetExpiry = true
		}

		settings, err := svc.Update(r.Context(), userID, chi.URLParam(r, "slug"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, settings)
	}
}
