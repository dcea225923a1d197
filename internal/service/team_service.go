package service

import (
	"context"
	"log/slog"
	"time"

	"vendora/internal/authz"
	"vendora/internal/mail"
	"vendora/internal/models"
	"vendora/internal/repository"
	"vendora/internal/validation"
)

// TeamService provides team membership and invitation business logic.
type TeamService struct {
	teamRepo  repository.TeamRepository
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
	resolver  *authz.Resolver
	mailer    mail.Dispatcher
	logger    *slog.Logger
	now       func() time.Time
}

// NewTeamService returns a new TeamService.
func NewTeamService(
	teamRepo repository.TeamRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	resolver *authz.Resolver,
	mailer mail.Dispatcher,
	logger *slog.Logger,
) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{
		teamRepo:  teamRepo,
		storeRepo: storeRepo,
		userRepo:  userRepo,
		resolver:  resolver,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

// ListMembers returns the store's team memberships with user data preloaded.
// The owner is not included; ownership lives on the store record.
func (s *TeamService) ListMembers(ctx context.Context, storeID string) ([]models.TeamMembership, error) {
	return s.teamRepo.ListMembers(ctx, storeID)
}

// ListInvitations returns every invitation for the store, including the
// accepted and declined audit trail.
func (s *TeamService) ListInvitations(ctx context.Context, storeID string) ([]models.TeamInvitation, error) {
	return s.teamRepo.ListInvitations(ctx, storeID)
}

// InviteMember creates a pending invitation and dispatches the email in the
// background. Only editor and viewer can be invited; existing members and
// addresses with a pending invitation are rejected.
func (s *TeamService) InviteMember(ctx context.Context, storeID, inviterID, email string, role models.Role) (*models.TeamInvitation, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if !role.Invitable() {
		return nil, models.NewValidationError("Role must be editor or viewer")
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// An existing user with this email who already holds a role cannot be
	// invited again. The owner is covered by the OwnerID check since owners
	// never have membership rows.
	invitee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil {
		if store.OwnerID == invitee.ID {
			return nil, models.NewValidationError("User is already a team member")
		}
		membership, err := s.teamRepo.GetMembership(ctx, storeID, invitee.ID)
		if err != nil {
			return nil, err
		}
		if membership != nil {
			return nil, models.NewValidationError("User is already a team member")
		}
	}

	pending, err := s.teamRepo.GetPendingInvitation(ctx, storeID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil && !pending.Expired(s.now()) {
		return nil, models.NewValidationError("An invitation is already pending for this email")
	}

	invitedAt := s.now().UTC()
	inv := &models.TeamInvitation{
		StoreID:   storeID,
		Email:     email,
		Role:      role,
		InvitedBy: inviterID,
		InvitedAt: invitedAt,
		Status:    models.InvitationStatusPending,
		ExpiresAt: invitedAt.Add(models.InvitationTTL),
	}
	if err := s.teamRepo.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	s.dispatchInvitationEmail(inv, store)

	return inv, nil
}

// dispatchInvitationEmail sends the invitation in the background. Delivery
// is best effort; a failure never unwinds the created invitation.
func (s *TeamService) dispatchInvitationEmail(inv *models.TeamInvitation, store *models.Store) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		inviterName := inv.InvitedBy
		if inviter, err := s.userRepo.GetByID(ctx, inv.InvitedBy); err == nil && inviter != nil {
			inviterName = inviter.DisplayName
		}

		if err := s.mailer.SendInvitation(ctx, inv, store.Name, inviterName); err != nil {
			s.logger.Error("Failed to send invitation email",
				slog.String("invitation_id", inv.ID),
				slog.String("store_id", inv.StoreID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// AcceptInvitation joins the accepting user to the team. The invitation must
// have been sent to the user's email; the repository performs the
// pending/expiry checks and the membership creation in one transaction.
func (s *TeamService) AcceptInvitation(ctx context.Context, invitationID, userID string) (*models.TeamMembership, error) {
	if err := s.checkInviteeEmail(ctx, invitationID, userID); err != nil {
		return nil, err
	}
	return s.teamRepo.AcceptInvitation(ctx, invitationID, userID)
}

// DeclineInvitation marks the invitation declined. Declined is terminal; the
// row stays for the audit trail.
func (s *TeamService) DeclineInvitation(ctx context.Context, invitationID, userID string) error {
	if err := s.checkInviteeEmail(ctx, invitationID, userID); err != nil {
		return err
	}
	return s.teamRepo.DeclineInvitation(ctx, invitationID)
}

func (s *TeamService) checkInviteeEmail(ctx context.Context, invitationID, userID string) error {
	inv, err := s.teamRepo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !emailsEqual(inv.Email, user.Email) {
		return models.NewForbiddenError("Invitation was sent to a different email address")
	}
	return nil
}

// UpdateMemberRole changes a member's role. Only the store owner may change
// roles, the owner's own authority cannot be reassigned, and the new role
// must be one a member can hold.
func (s *TeamService) UpdateMemberRole(ctx context.Context, storeID, callerID, targetUserID string, role models.Role) error {
	if !role.Invitable() {
		return models.NewValidationError("Role must be editor or viewer")
	}
	if err := s.requireOwner(ctx, storeID, callerID); err != nil {
		return err
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.OwnerID == targetUserID {
		return models.NewValidationError("Cannot change the store owner's role")
	}

	membership, err := s.teamRepo.GetMembership(ctx, storeID, targetUserID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewNotFoundError("Team member", targetUserID)
	}

	return s.teamRepo.UpdateMemberRole(ctx, storeID, targetUserID, role)
}

// RemoveMember removes a member from the team. Only the store owner may
// remove members, and the owner cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, storeID, callerID, targetUserID string) error {
	if err := s.requireOwner(ctx, storeID, callerID); err != nil {
		return err
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.OwnerID == targetUserID {
		return models.NewValidationError("Cannot remove the store owner")
	}

	membership, err := s.teamRepo.GetMembership(ctx, storeID, targetUserID)
	if err != nil {
		return err
	}
	if membership == nil {
		return models.NewNotFoundError("Team member", targetUserID)
	}

	return s.teamRepo.RemoveMember(ctx, storeID, targetUserID)
}

func (s *TeamService) requireOwner(ctx context.Context, storeID, callerID string) error {
	role, found, err := s.resolver.ResolveRole(ctx, storeID, callerID)
	if err != nil {
		if err == authz.ErrStoreNotFound {
			return &models.AppError{Code: "NOT_FOUND", Message: authz.MsgStoreNotFound}
		}
		return err
	}
	if !found || role != models.RoleOwner {
		return models.NewForbiddenError("Only the store owner can manage team roles")
	}
	return nil
}

// ListUserStores returns the stores the user can access: owned stores plus
// stores where a membership row exists.
func (s *TeamService) ListUserStores(ctx context.Context, userID string) ([]models.Store, error) {
	owned, err := s.storeRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.teamRepo.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stores := owned
	seen := make(map[string]struct{}, len(owned))
	for _, st := range owned {
		seen[st.ID] = struct{}{}
	}
	for _, m := range memberships {
		if m.Store == nil {
			continue
		}
		if _, ok := seen[m.Store.ID]; ok {
			continue
		}
		seen[m.Store.ID] = struct{}{}
		stores = append(stores, *m.Store)
	}
	return stores, nil
}
