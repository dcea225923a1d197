package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTeamMembers handles GET /api/stores/:storeId/team/members
// @Summary List team members
// @Description Memberships with user data; the owner is not listed
// @Tags team
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.TeamMembership
// @Router /stores/{storeId}/team/members [get]
func (s *Server) GetTeamMembers(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	members, err := s.teamService.ListMembers(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(members)
}

// GetTeamInvitations handles GET /api/stores/:storeId/team/invitations
// @Summary List invitations
// @Description Full invitation history including accepted and declined rows
// @Tags team
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.TeamInvitation
// @Router /stores/{storeId}/team/invitations [get]
func (s *Server) GetTeamInvitations(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	invitations, err := s.teamService.ListInvitations(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invitations)
}

// InviteTeamMember handles POST /api/stores/:storeId/team/invitations
// @Summary Invite team member
// @Tags team
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body object{email=string,role=string} true "Invitation"
// @Success 201 {object} models.TeamInvitation
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/team/invitations [post]
func (s *Server) InviteTeamMember(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var req struct {
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	invitation, err := s.teamService.InviteMember(c.Context(), storeID, currentUserID(c), req.Email, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invitation)
}

// UpdateTeamMemberRole handles PUT /api/stores/:storeId/team/members/:userId/role
// @Summary Change member role
// @Description Owner-only; the owner's own role can never be changed
// @Tags team
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param userId path string true "User ID"
// @Param request body object{role=string} true "New role"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /stores/{storeId}/team/members/{userId}/role [put]
func (s *Server) UpdateTeamMemberRole(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.teamService.UpdateMemberRole(c.Context(), storeID, currentUserID(c), targetUserID, req.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// RemoveTeamMember handles DELETE /api/stores/:storeId/team/members/:userId
// @Summary Remove team member
// @Description Owner-only; the owner can never be removed
// @Tags team
// @Param storeId path string true "Store ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /stores/{storeId}/team/members/{userId} [delete]
func (s *Server) RemoveTeamMember(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.teamService.RemoveMember(c.Context(), storeID, currentUserID(c), targetUserID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyInvitations handles GET /api/me/invitations
// @Summary List invitations addressed to me
// @Tags team
// @Produce json
// @Success 200 {array} models.TeamInvitation
// @Router /me/invitations [get]
func (s *Server) GetMyInvitations(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	invitations, err := s.teamRepo.ListInvitationsForEmail(c.Context(), user.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invitations)
}

// AcceptInvitation handles POST /api/invitations/:invitationId/accept
// @Summary Accept invitation
// @Description Marks the invitation accepted and creates the membership atomically
// @Tags team
// @Produce json
// @Param invitationId path string true "Invitation ID"
// @Success 200 {object} models.TeamMembership
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /invitations/{invitationId}/accept [post]
func (s *Server) AcceptInvitation(c *fiber.Ctx) error {
	invitationID, err := s.parseID(c, "invitationId")
	if err != nil {
		return nil
	}

	membership, err := s.teamService.AcceptInvitation(c.Context(), invitationID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(membership)
}

// DeclineInvitation handles POST /api/invitations/:invitationId/decline
// @Summary Decline invitation
// @Tags team
// @Produce json
// @Param invitationId path string true "Invitation ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /invitations/{invitationId}/decline [post]
func (s *Server) DeclineInvitation(c *fiber.Ctx) error {
	invitationID, err := s.parseID(c, "invitationId")
	if err != nil {
		return nil
	}

	if err := s.teamService.DeclineInvitation(c.Context(), invitationID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invitation declined"})
}
