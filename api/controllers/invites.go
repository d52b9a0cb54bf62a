package controllers

import (
	"net/http"

	"github.com/globetrotter-app/globetrotter-backend/api/responses"
	"github.com/globetrotter-app/globetrotter-backend/api/validators"
	"github.com/globetrotter-app/globetrotter-backend/internal/invites"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type createInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InvitesCreate handles POST /trips/{slug}/invites. Owner only.
func InvitesCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createInviteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invite, err := svc.Create(r.Context(), userID, chi.URLParam(r, "slug"), body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

// InvitesList handles GET /trips/{slug}/invites. Owner only.
func InvitesList(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForTrip(r.Context(), userID, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
