package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/access"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db"
	"github.com/globetrotter-app/globetrotter-backend/pkg/db/models"
	"github.com/globetrotter-app/globetrotter-backend/pkg/enums"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/google/uuid"
)

type messageRepository interface {
	Append(ctx context.Context, tripID, senderID uuid.UUID, kind enums.MessageKind, body string) (*models.ChatMessage, error)
	Recent(ctx context.Context, tripID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

type tripResolver interface {
	FindBySlug(ctx context.Context, slug string) (*models.Trip, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
}

type membershipChecker interface {
	HasMember(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

type inviteChecker interface {
	HasInvite(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

type memberEnsurer interface {
	EnsureMember(ctx context.Context, trip *models.Trip, userID uuid.UUID) error
}

// Service exposes chat history, sending, and live room membership.
type Service interface {
	History(ctx context.Context, viewerID uuid.UUID, slug string, limit int) ([]MessageDTO, error)
	Send(ctx context.Context, senderID uuid.UUID, slug, body string) (*MessageDTO, error)
	JoinLive(ctx context.Context, c *Conn, slug string) error
	SendLive(ctx context.Context, c *Conn, body string) (*MessageDTO, error)
	LeaveLive(ctx context.Context, c *Conn)
}

type service struct {
	messages    messageRepository
	trips       tripResolver
	memberships membershipChecker
	invites     inviteChecker
	ensurer     memberEnsurer
	hub         *Hub
	log         *logger.Logger
	cfg         config.ChatConfig
	now         func() time.Time

	// appendMu serializes append+broadcast per trip so the fan-out order
	// always matches the sequence the log assigned.
	appendMu sync.Mutex
	tripMus  map[uuid.UUID]*sync.Mutex
}

// NewService builds the chat service.
func NewService(
	messages messageRepository,
	trips tripResolver,
	memberships membershipChecker,
	invites inviteChecker,
	ensurer memberEnsurer,
	hub *Hub,
	log *logger.Logger,
	cfg config.ChatConfig,
) (Service, error) {
	if messages == nil {
		return nil, fmt.Errorf("message repository required")
	}
	if trips == nil {
		return nil, fmt.Errorf("trip resolver required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if invites == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if ensurer == nil {
		return nil, fmt.Errorf("membership ensurer required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		messages:    messages,
		trips:       trips,
		memberships: memberships,
		invites:     invites,
		ensurer:     ensurer,
		hub:         hub,
		log:         log,
		cfg:         cfg,
		now:         time.Now,
		tripMus:     make(map[uuid.UUID]*sync.Mutex),
	}, nil
}

// History returns the most recent messages in ascending sequence order.
// View access is enough: members and public viewers both read history.
func (s *service) History(ctx context.Context, viewerID uuid.UUID, slug string, limit int) ([]MessageDTO, error) {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return nil, err
	}

	hasRow, err := s.hasMembershipRow(ctx, trip, viewerID)
	if err != nil {
		return nil, err
	}
	if !access.CanView(trip, viewerID, hasRow, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}

	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	rows, err := s.messages.Recent(ctx, trip.ID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load history")
	}

	dtos := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// Send appends a text message and fans it out to the trip's room. This is
// the REST path and the single ordering authority: the broadcast only
// happens after the append completes, using the row it returned.
func (s *service) Send(ctx context.Context, senderID uuid.UUID, slug, body string) (*MessageDTO, error) {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, trip, senderID, body)
}

// JoinLive admits the connection to the trip's room. Membership is ensured
// first (implicit invite acceptance and public joins both land here), so a
// failed authorization leaves the connection in its previous room. The
// synthesized join notice is best effort and never blocks the join.
func (s *service) JoinLive(ctx context.Context, c *Conn, slug string) error {
	trip, err := s.resolveTrip(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.ensurer.EnsureMember(ctx, trip, c.UserID); err != nil {
		return err
	}

	alreadyJoined := false
	if current, ok := s.hub.JoinedTrip(c); ok && current == trip.ID {
		alreadyJoined = true
	}
	s.hub.Join(trip.ID, c)

	if !alreadyJoined {
		if _, err := s.append(ctx, trip.ID, c.UserID, enums.MessageKindJoin, ""); err != nil {
			s.log.Warn(ctx, "failed to record chat join notice")
		}
	}
	return nil
}

// SendLive posts a message over an established connection. The connection
// must currently be joined to a trip and the sender must still be a member.
func (s *service) SendLive(ctx context.Context, c *Conn, body string) (*MessageDTO, error) {
	tripID, ok := s.hub.JoinedTrip(c)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not joined to a trip")
	}

	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	return s.post(ctx, trip, c.UserID, body)
}

// LeaveLive detaches the connection from its room. The membership row stays;
// only the live connection is ephemeral.
func (s *service) LeaveLive(ctx context.Context, c *Conn) {
	tripID, ok := s.hub.JoinedTrip(c)
	s.hub.Leave(c)
	if !ok {
		return
	}
	if _, err := s.append(ctx, tripID, c.UserID, enums.MessageKindLeave, ""); err != nil {
		s.log.Warn(ctx, "failed to record chat leave notice")
	}
}

func (s *service) post(ctx context.Context, trip *models.Trip, senderID uuid.UUID, body string) (*MessageDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if len(body) > s.cfg.MaxMessageLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body too long")
	}

	hasRow, err := s.hasMembershipRow(ctx, trip, senderID)
	if err != nil {
		return nil, err
	}
	if !access.CanPost(trip, senderID, hasRow) {
		// A pending invite is accepted by the invitee's first member
		// action, so an invited sender is upgraded here instead of
		// bounced to a separate accept step.
		invited, err := s.invites.HasInvite(ctx, trip.ID, senderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check invite")
		}
		if !invited {
			if access.CanView(trip, senderID, hasRow, s.now()) {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a trip member")
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		if err := s.ensurer.EnsureMember(ctx, trip, senderID); err != nil {
			return nil, err
		}
	}

	return s.append(ctx, trip.ID, senderID, enums.MessageKindText, body)
}

// append is the ordering authority: the per-trip lock makes the broadcast
// order identical to the sequence order the log assigns, even when two sends
// race at the network layer.
func (s *service) append(ctx context.Context, tripID, senderID uuid.UUID, kind enums.MessageKind, body string) (*MessageDTO, error) {
	mu := s.tripMutex(tripID)
	mu.Lock()
	defer mu.Unlock()

	msg, err := s.messages.Append(ctx, tripID, senderID, kind, body)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append message")
	}

	dto := FromModel(msg)
	payload, err := json.Marshal(dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode message")
	}
	s.hub.Broadcast(tripID, kind.String(), payload)
	return dto, nil
}

func (s *service) tripMutex(tripID uuid.UUID) *sync.Mutex {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()
	mu, ok := s.tripMus[tripID]
	if !ok {
		mu = &sync.Mutex{}
		s.tripMus[tripID] = mu
	}
	return mu
}

func (s *service) hasMembershipRow(ctx context.Context, trip *models.Trip, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || userID == trip.OwnerID {
		return false, nil
	}
	hasRow, err := s.memberships.HasMember(ctx, trip.ID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	return hasRow, nil
}

func (s *service) resolveTrip(ctx context.Context, slug string) (*models.Trip, error) {
	trip, err := s.trips.FindBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	return trip, nil
}
