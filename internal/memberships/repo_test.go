package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMembershipsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	tripMemberships := `
CREATE TABLE IF NOT EXISTS trip_memberships (
  id TEXT PRIMARY KEY,
  trip_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT idx_trip_memberships_trip_user UNIQUE (trip_id, user_id)
);`

	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(tripMemberships).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, firstName string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at) VALUES (?, ?, 'hash', ?, 'Traveler', CURRENT_TIMESTAMP)`,
		id, email, firstName,
	).Error
	require.NoError(t, err)
	return id
}

func TestEnsureIsIdempotent(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tripID := uuid.New()
	userID := seedUser(t, db, "bob@example.com", "Bob")

	first, err := repo.Ensure(ctx, tripID, userID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.Ensure(ctx, tripID, userID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID, "repeat join must converge on one row")

	var count int64
	require.NoError(t, db.Table("trip_memberships").Where("trip_id = ?", tripID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHasMember(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tripID := uuid.New()
	userID := seedUser(t, db, "carol@example.com", "Carol")

	has, err := repo.HasMember(ctx, tripID, userID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Ensure(ctx, tripID, userID)
	require.NoError(t, err)

	has, err = repo.HasMember(ctx, tripID, userID)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasMember(ctx, uuid.New(), userID)
	require.NoError(t, err)
	assert.False(t, has, "membership does not leak across trips")
}

func TestListMembersOrderedByJoinTime(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tripID := uuid.New()
	bob := seedUser(t, db, "bob@example.com", "Bob")
	carol := seedUser(t, db, "carol@example.com", "Carol")

	require.NoError(t, db.Exec(
		`INSERT INTO trip_memberships (id, trip_id, user_id, created_at) VALUES (?, ?, ?, '2026-01-02 10:00:00')`,
		uuid.New(), tripID, carol,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO trip_memberships (id, trip_id, user_id, created_at) VALUES (?, ?, ?, '2026-01-01 10:00:00')`,
		uuid.New(), tripID, bob,
	).Error)

	members, err := repo.ListMembers(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, bob, members[0].UserID, "earliest join comes first")
	assert.Equal(t, "Bob", members[0].FirstName)
	assert.Equal(t, carol, members[1].UserID)
	assert.False(t, members[0].IsOwner)
}
