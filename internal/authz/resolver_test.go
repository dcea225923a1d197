package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
)

type storeStub struct {
	getByIDFn func(context.Context, string) (*models.Store, error)
}

func (s *storeStub) GetByID(ctx context.Context, id string) (*models.Store, error) {
	return s.getByIDFn(ctx, id)
}

type membershipStub struct {
	getMembershipFn func(context.Context, string, string) (*models.TeamMembership, error)
}

func (s *membershipStub) GetMembership(ctx context.Context, storeID, userID string) (*models.TeamMembership, error) {
	return s.getMembershipFn(ctx, storeID, userID)
}

func fixtureResolver(ownerID string, memberships map[string]models.Role) *Resolver {
	stores := &storeStub{
		getByIDFn: func(_ context.Context, id string) (*models.Store, error) {
			if id != "store1" {
				return nil, models.NewNotFoundError("Store", id)
			}
			return &models.Store{ID: "store1", OwnerID: ownerID}, nil
		},
	}
	members := &membershipStub{
		getMembershipFn: func(_ context.Context, storeID, userID string) (*models.TeamMembership, error) {
			role, ok := memberships[userID]
			if !ok {
				return nil, nil
			}
			return &models.TeamMembership{StoreID: storeID, UserID: userID, Role: role}, nil
		},
	}
	return NewResolver(stores, members, nil)
}

func TestResolveRoleOwnerShortCircuit(t *testing.T) {
	t.Parallel()

	stores := &storeStub{
		getByIDFn: func(context.Context, string) (*models.Store, error) {
			return &models.Store{ID: "store1", OwnerID: "u1"}, nil
		},
	}
	members := &membershipStub{
		getMembershipFn: func(context.Context, string, string) (*models.TeamMembership, error) {
			t.Fatal("membership lookup must not run for the owner")
			return nil, nil
		},
	}

	role, found, err := NewResolver(stores, members, nil).ResolveRole(context.Background(), "store1", "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.RoleOwner, role)
}

func TestResolveRoleDenyByDefault(t *testing.T) {
	t.Parallel()

	r := fixtureResolver("u1", nil)
	role, found, err := r.ResolveRole(context.Background(), "store1", "u2")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, role)

	products := r.Within(SubjectProduct)
	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage} {
		ok, err := products.Can(context.Background(), "store1", "u2", action, SubjectProduct)
		require.NoError(t, err)
		assert.False(t, ok, "action %s must be denied without a membership", action)
	}
}

func TestResolveRoleStoredOwnerDemotedToEditor(t *testing.T) {
	t.Parallel()

	// A membership row may carry "owner" in the data, but owner authority
	// only ever comes from Store.OwnerID.
	r := fixtureResolver("u1", map[string]models.Role{"u2": models.RoleOwner})
	role, found, err := r.ResolveRole(context.Background(), "store1", "u2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.RoleEditor, role)

	ok, err := r.Within(SubjectTeam).Can(context.Background(), "store1", "u2", ActionManage, SubjectTeam)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveRoleStoreNotFound(t *testing.T) {
	t.Parallel()

	r := fixtureResolver("u1", nil)
	_, _, err := r.ResolveRole(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	ok, err := r.Within(SubjectProduct).Can(context.Background(), "missing", "u1", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveRoleInfraErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	stores := &storeStub{
		getByIDFn: func(context.Context, string) (*models.Store, error) {
			return nil, models.NewInternalError(boom)
		},
	}
	members := &membershipStub{
		getMembershipFn: func(context.Context, string, string) (*models.TeamMembership, error) {
			return nil, nil
		},
	}

	r := NewResolver(stores, members, nil)
	_, _, err := r.ResolveRole(context.Background(), "store1", "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStoreNotFound)

	_, err = r.Within(SubjectProduct).Can(context.Background(), "store1", "u1", ActionRead, SubjectProduct)
	assert.Error(t, err)
}

func TestPermissionTableClosure(t *testing.T) {
	t.Parallel()

	actions := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionManage}
	subjects := []Subject{SubjectStore, SubjectProduct, SubjectTeam, SubjectMarketing, SubjectSeo, SubjectIntegrations}

	r := fixtureResolver("u1", map[string]models.Role{
		"editor": models.RoleEditor,
		"viewer": models.RoleViewer,
	})

	for _, subject := range subjects {
		checker := r.Within(subject)
		for _, action := range actions {
			ownerOK, err := checker.Can(context.Background(), "store1", "u1", action, subject)
			require.NoError(t, err)
			assert.True(t, ownerOK, "owner must pass %s:%s", action, subject)

			editorOK, err := checker.Can(context.Background(), "store1", "editor", action, subject)
			require.NoError(t, err)
			assert.Equal(t, action != ActionManage, editorOK, "editor %s:%s", action, subject)

			viewerOK, err := checker.Can(context.Background(), "store1", "viewer", action, subject)
			require.NoError(t, err)
			assert.Equal(t, action == ActionRead, viewerOK, "viewer %s:%s", action, subject)
		}
	}
}

func TestEditorScopedToModuleSubject(t *testing.T) {
	t.Parallel()

	// The grant table is built per module subject; an editor grant never
	// leaks across subjects through the wildcard forms.
	grants := PermissionsFor(models.RoleEditor, SubjectProduct)
	assert.True(t, permits(grants, ActionUpdate, SubjectProduct))
	assert.False(t, permits(grants, ActionUpdate, SubjectMarketing))
	assert.False(t, permits(grants, ActionManage, SubjectProduct))
}

func TestRequireErrorStrings(t *testing.T) {
	t.Parallel()

	r := fixtureResolver("u1", map[string]models.Role{"u2": models.RoleViewer})
	products := r.Within(SubjectProduct)
	ctx := context.Background()

	d, err := products.Require(ctx, "store1", "", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Unauthorized", d.Error)

	d, err = products.Require(ctx, "missing", "u1", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Store not found", d.Error)

	d, err = products.Require(ctx, "store1", "u3", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Not a team member", d.Error)

	d, err = products.Require(ctx, "store1", "u2", ActionDelete, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Insufficient permissions", d.Error)
	assert.Equal(t, models.RoleViewer, d.Role)

	d, err = products.Require(ctx, "store1", "u2", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, models.RoleViewer, d.Role)
	assert.Empty(t, d.Error)
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	r := fixtureResolver("u1", map[string]models.Role{"u2": models.RoleEditor})
	products := r.Within(SubjectProduct)
	ctx := context.Background()

	ok, err := products.Can(ctx, "store1", "u2", ActionUpdate, SubjectProduct)
	require.NoError(t, err)
	assert.True(t, ok)

	// The product module's table scopes the editor grant to "product", so a
	// marketing check through it is denied.
	ok, err = products.Can(ctx, "store1", "u2", ActionDelete, SubjectMarketing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = products.Can(ctx, "store1", "u3-unknown", ActionRead, SubjectProduct)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleAtLeast(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAtLeast(models.RoleOwner, models.RoleEditor))
	assert.True(t, RoleAtLeast(models.RoleEditor, models.RoleEditor))
	assert.False(t, RoleAtLeast(models.RoleViewer, models.RoleEditor))
	assert.False(t, RoleAtLeast("", models.RoleViewer))
}
