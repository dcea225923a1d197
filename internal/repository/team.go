package repository

import (
	"context"
	"errors"

	"vendora/internal/models"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for membership and invitation data operations
type TeamRepository interface {
	GetMembership(ctx context.Context, storeID, userID string) (*models.TeamMembership, error)
	ListMembers(ctx context.Context, storeID string) ([]models.TeamMembership, error)
	ListMembershipsForUser(ctx context.Context, userID string) ([]models.TeamMembership, error)
	UpdateMemberRole(ctx context.Context, storeID, userID string, role models.Role) error
	RemoveMember(ctx context.Context, storeID, userID string) error

	CreateInvitation(ctx context.Context, inv *models.TeamInvitation) error
	GetInvitation(ctx context.Context, id string) (*models.TeamInvitation, error)
	GetPendingInvitation(ctx context.Context, storeID, email string) (*models.TeamInvitation, error)
	ListInvitations(ctx context.Context, storeID string) ([]models.TeamInvitation, error)
	ListInvitationsForEmail(ctx context.Context, email string) ([]models.TeamInvitation, error)

	// AcceptInvitation marks the pending invitation accepted and creates the
	// membership in one transaction. Rejects non-pending and expired
	// invitations; expiry is computed against now, never written back.
	AcceptInvitation(ctx context.Context, invitationID, userID string) (*models.TeamMembership, error)
	DeclineInvitation(ctx context.Context, invitationID string) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetMembership(ctx context.Context, storeID, userID string) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *teamRepository) ListMembers(ctx context.Context, storeID string) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return members, nil
}

func (r *teamRepository) ListMembershipsForUser(ctx context.Context, userID string) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Store").
		Find(&memberships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *teamRepository) UpdateMemberRole(ctx context.Context, storeID, userID string, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&models.TeamMembership{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Update("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Team member", userID)
	}
	return nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, storeID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Delete(&models.TeamMembership{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Team member", userID)
	}
	return nil
}

func (r *teamRepository) CreateInvitation(ctx context.Context, inv *models.TeamInvitation) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *teamRepository) GetInvitation(ctx context.Context, id string) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := readDB(r.db).WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Invitation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &inv, nil
}

func (r *teamRepository) GetPendingInvitation(ctx context.Context, storeID, email string) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	err := readDB(r.db).WithContext(ctx).
		Where("store_id = ? AND email = ? AND status = ?", storeID, email, models.InvitationStatusPending).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &inv, nil
}

func (r *teamRepository) ListInvitations(ctx context.Context, storeID string) ([]models.TeamInvitation, error) {
	var invs []models.TeamInvitation
	if err := readDB(r.db).WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("invited_at DESC").
		Find(&invs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invs, nil
}

func (r *teamRepository) ListInvitationsForEmail(ctx context.Context, email string) ([]models.TeamInvitation, error) {
	var invs []models.TeamInvitation
	if err := readDB(r.db).WithContext(ctx).
		Where("email = ? AND status = ?", email, models.InvitationStatusPending).
		Order("invited_at DESC").
		Find(&invs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invs, nil
}

func (r *teamRepository) AcceptInvitation(ctx context.Context, invitationID, userID string) (*models.TeamMembership, error) {
	var membership *models.TeamMembership
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Name() == "postgres" {
			q = tx.Clauses(lockForUpdate())
		}

		var inv models.TeamInvitation
		if err := q.First(&inv, "id = ?", invitationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Invitation", invitationID)
			}
			return err
		}

		if inv.Status != models.InvitationStatusPending {
			return models.NewValidationError("Invitation is no longer pending")
		}
		now := nowUTC()
		if inv.Expired(now) {
			return models.NewValidationError("Invitation has expired")
		}

		membership = &models.TeamMembership{
			StoreID:   inv.StoreID,
			UserID:    userID,
			Role:      inv.Role,
			InvitedAt: inv.InvitedAt,
			JoinedAt:  now,
			InvitedBy: inv.InvitedBy,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		return tx.Model(&models.TeamInvitation{}).
			Where("id = ? AND status = ?", inv.ID, models.InvitationStatusPending).
			Updates(map[string]interface{}{
				"status":      models.InvitationStatusAccepted,
				"accepted_at": now,
			}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}
	return membership, nil
}

func (r *teamRepository) DeclineInvitation(ctx context.Context, invitationID string) error {
	now := nowUTC()
	res := r.db.WithContext(ctx).Model(&models.TeamInvitation{}).
		Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
		Updates(map[string]interface{}{
			"status":      models.InvitationStatusDeclined,
			"declined_at": now,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewValidationError("Invitation is no longer pending")
	}
	return nil
}
