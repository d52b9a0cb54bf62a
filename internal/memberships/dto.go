package memberships

import (
	"time"

	"github.com/google/uuid"
)

// MemberDTO is one entry in a trip's member list. The owner appears first
// with IsOwner set even though no membership row backs them.
type MemberDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsOwner   bool      `json:"is_owner"`
	JoinedAt  time.Time `json:"joined_at"`
}

type memberRow struct {
	UserID    uuid.UUID `gorm:"column:user_id"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func memberRowsToDTO(rows []memberRow) []MemberDTO {
	members := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		members = append(members, MemberDTO{
			UserID:    row.UserID,
			Email:     row.Email,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			JoinedAt:  row.CreatedAt,
		})
	}
	return members
}
