package repository

import (
	"context"
	"testing"
	"time"

	"vendora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTeamTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so :memory: is shared and transactions serialize.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.TeamMembership{},
		&models.TeamInvitation{},
	))
	return db
}

func pendingInvitation(t *testing.T, db *gorm.DB, expiresAt time.Time) *models.TeamInvitation {
	t.Helper()
	invitedAt := expiresAt.Add(-models.InvitationTTL)
	inv := &models.TeamInvitation{
		StoreID:   "store-1",
		Email:     "newhire@example.com",
		Role:      models.RoleEditor,
		InvitedBy: "owner-1",
		InvitedAt: invitedAt,
		Status:    models.InvitationStatusPending,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestAcceptInvitation_ExpiredIsRejected(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewTeamRepository(db)
	inv := pendingInvitation(t, db, time.Now().UTC().Add(-time.Hour))

	membership, err := repo.AcceptInvitation(context.Background(), inv.ID, "user-1")
	require.Error(t, err)
	assert.Nil(t, membership)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invitation has expired", appErr.Message)

	// Expiry is computed at read time; the stored row stays pending so the
	// audit trail reflects what actually happened.
	var stored models.TeamInvitation
	require.NoError(t, db.First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, models.InvitationStatusPending, stored.Status)
	assert.Nil(t, stored.AcceptedAt)

	var memberships int64
	require.NoError(t, db.Model(&models.TeamMembership{}).Count(&memberships).Error)
	assert.EqualValues(t, 0, memberships, "no membership may be provisioned from an expired invitation")
}

func TestAcceptInvitation_SecondAcceptIsRejected(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewTeamRepository(db)
	inv := pendingInvitation(t, db, time.Now().UTC().Add(time.Hour))

	membership, err := repo.AcceptInvitation(context.Background(), inv.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, membership)
	assert.Equal(t, models.RoleEditor, membership.Role)
	assert.Equal(t, "store-1", membership.StoreID)

	var stored models.TeamInvitation
	require.NoError(t, db.First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, models.InvitationStatusAccepted, stored.Status)
	require.NotNil(t, stored.AcceptedAt)

	// Accepted is terminal: replaying the accept must fail and must not
	// provision a second membership.
	membership, err = repo.AcceptInvitation(context.Background(), inv.ID, "user-2")
	require.Error(t, err)
	assert.Nil(t, membership)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invitation is no longer pending", appErr.Message)

	var memberships int64
	require.NoError(t, db.Model(&models.TeamMembership{}).Count(&memberships).Error)
	assert.EqualValues(t, 1, memberships)
}

func TestAcceptInvitation_DeclinedIsTerminal(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewTeamRepository(db)
	inv := pendingInvitation(t, db, time.Now().UTC().Add(time.Hour))

	require.NoError(t, repo.DeclineInvitation(context.Background(), inv.ID))

	_, err := repo.AcceptInvitation(context.Background(), inv.ID, "user-1")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invitation is no longer pending", appErr.Message)
}

func TestAcceptInvitation_UnknownInvitation(t *testing.T) {
	db := setupTeamTestDB(t)
	repo := NewTeamRepository(db)

	_, err := repo.AcceptInvitation(context.Background(), "missing", "user-1")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
