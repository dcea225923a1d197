package authz

import (
	"context"
	"errors"
	"log/slog"

	"vendora/internal/models"
)

// Error strings surfaced to callers. These are part of the API contract and
// must not change; handlers map them onto HTTP statuses.
const (
	MsgUnauthorized            = "Unauthorized"
	MsgStoreNotFound           = "Store not found"
	MsgNotTeamMember           = "Not a team member"
	MsgInsufficientPermissions = "Insufficient permissions"
)

// ErrStoreNotFound is returned by ResolveRole when the store does not exist.
var ErrStoreNotFound = errors.New("store not found")

// StoreGetter is the slice of the store repository the resolver needs.
type StoreGetter interface {
	GetByID(ctx context.Context, id string) (*models.Store, error)
}

// MembershipGetter is the slice of the team repository the resolver needs.
// GetMembership returns (nil, nil) when no membership row exists.
type MembershipGetter interface {
	GetMembership(ctx context.Context, storeID, userID string) (*models.TeamMembership, error)
}

// Decision is the outcome of a permission check. Denials are values, not
// errors, so callers can branch without exception-style control flow.
type Decision struct {
	Allowed bool        `json:"allowed"`
	Role    models.Role `json:"role,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Resolver answers role and permission questions for store-scoped resources.
// A single instance is shared by every handler and service; there are no
// per-module copies of this logic. Permission checks go through a Checker
// obtained from Within, which fixes the module whose grant table applies.
type Resolver struct {
	stores      StoreGetter
	memberships MembershipGetter
	logger      *slog.Logger
}

// NewResolver returns a Resolver backed by the given lookups.
func NewResolver(stores StoreGetter, memberships MembershipGetter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{stores: stores, memberships: memberships, logger: logger}
}

// ResolveRole determines userID's role within storeID. The owner check
// short-circuits before any membership lookup: the owner never has a
// membership row. A membership row storing "owner" for a non-owner is
// treated as editor. found is false when the user holds no role.
//
// Returns ErrStoreNotFound when the store does not exist; any other error
// is an infrastructure failure.
func (r *Resolver) ResolveRole(ctx context.Context, storeID, userID string) (models.Role, bool, error) {
	store, err := r.stores.GetByID(ctx, storeID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return "", false, ErrStoreNotFound
		}
		return "", false, err
	}
	if store == nil {
		return "", false, ErrStoreNotFound
	}

	if store.OwnerID == userID {
		return models.RoleOwner, true, nil
	}

	membership, err := r.memberships.GetMembership(ctx, storeID, userID)
	if err != nil {
		return "", false, err
	}
	if membership == nil {
		return "", false, nil
	}

	role := membership.Role
	if role == models.RoleOwner {
		// Stored "owner" without an OwnerID match carries no owner authority.
		role = models.RoleEditor
	}
	return role, true, nil
}

// Checker evaluates permission checks against the grant table of one module.
// Editor and viewer grants are configured per module subject, so a checker
// obtained for the product module denies an editor delete on "marketing"
// even though the marketing module's own checker would allow it.
type Checker struct {
	resolver *Resolver
	module   Subject
}

// Within returns a Checker whose grant table is configured for the given
// module subject.
func (r *Resolver) Within(module Subject) *Checker {
	return &Checker{resolver: r, module: module}
}

// Can reports whether userID may perform action on subject within storeID.
// Store-not-found and no-membership are both plain denials; only
// infrastructure failures surface as errors.
func (c *Checker) Can(ctx context.Context, storeID, userID string, action Action, subject Subject) (bool, error) {
	role, found, err := c.resolver.ResolveRole(ctx, storeID, userID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return false, nil
		}
		return false, err
	}
	if !found {
		return false, nil
	}
	return permits(PermissionsFor(role, c.module), action, subject), nil
}

// Require runs the full permission check and classifies the outcome with the
// standard error strings. The returned error is non-nil only for
// infrastructure failures; every business outcome lands in the Decision.
func (c *Checker) Require(ctx context.Context, storeID, userID string, action Action, subject Subject) (Decision, error) {
	if userID == "" {
		return Decision{Error: MsgUnauthorized}, nil
	}

	role, found, err := c.resolver.ResolveRole(ctx, storeID, userID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return Decision{Error: MsgStoreNotFound}, nil
		}
		c.resolver.logger.ErrorContext(ctx, "role resolution failed",
			"store_id", storeID, "user_id", userID, "error", err)
		return Decision{}, err
	}
	if !found {
		return Decision{Error: MsgNotTeamMember}, nil
	}

	if !permits(PermissionsFor(role, c.module), action, subject) {
		return Decision{Role: role, Error: MsgInsufficientPermissions}, nil
	}
	return Decision{Allowed: true, Role: role}, nil
}
