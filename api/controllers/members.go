package controllers

import (
	"net/http"

	"github.com/globetrotter-app/globetrotter-backend/api/responses"
	"github.com/globetrotter-app/globetrotter-backend/internal/memberships"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// MembersJoin handles POST /trips/{slug}/join. Joining is idempotent, so a
// repeat call from an existing member succeeds without a second row.
func MembersJoin(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Join(r.Context(), userID, chi.URLParam(r, "slug")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "member"})
	}
}

// MembersList handles GET /trips/{slug}/members. Visible to anyone who can
// view the trip; the owner is always listed first.
func MembersList(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMembers(r.Context(), userID, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
