// Package authz resolves roles and answers permission checks for
// store-scoped resources. It is a pure read/decision component: it never
// mutates state and never caches a role across calls.
package authz

import "vendora/internal/models"

// Action is a verb a principal may perform on a subject.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Subject is the domain noun a permission applies to. SubjectAll is the
// wildcard used only by the owner's universal grant.
type Subject string

const (
	SubjectAll          Subject = "all"
	SubjectStore        Subject = "store"
	SubjectProduct      Subject = "product"
	SubjectTeam         Subject = "team"
	SubjectMarketing    Subject = "marketing"
	SubjectSeo          Subject = "seo"
	SubjectIntegrations Subject = "integrations"
)

// Permission is a single (action, subject) grant.
type Permission struct {
	Action  Action
	Subject Subject
}

// PermissionsFor returns the fixed grant set for a role within the module
// identified by subject. Editor and viewer grants are always scoped to the
// calling module's subject; cross-subject access is never implied.
func PermissionsFor(role models.Role, subject Subject) []Permission {
	switch role {
	case models.RoleOwner:
		return []Permission{{ActionManage, SubjectAll}}
	case models.RoleEditor:
		return []Permission{
			{ActionCreate, subject},
			{ActionRead, subject},
			{ActionUpdate, subject},
			{ActionDelete, subject},
		}
	case models.RoleViewer:
		return []Permission{{ActionRead, subject}}
	}
	return nil
}

// permits evaluates the four permitted match forms: (manage, all),
// (manage, subject), (action, all), (action, subject). Nothing else matches;
// in particular read never implies update.
func permits(grants []Permission, action Action, subject Subject) bool {
	for _, g := range grants {
		if g.Action == ActionManage && g.Subject == SubjectAll {
			return true
		}
		if g.Action == ActionManage && g.Subject == subject {
			return true
		}
		if g.Action == action && g.Subject == SubjectAll {
			return true
		}
		if g.Action == action && g.Subject == subject {
			return true
		}
	}
	return false
}

// roleRank orders roles by authority for RoleAtLeast.
func roleRank(role models.Role) int {
	switch role {
	case models.RoleOwner:
		return 3
	case models.RoleEditor:
		return 2
	case models.RoleViewer:
		return 1
	}
	return 0
}

// RoleAtLeast reports whether have carries at least the authority of want.
func RoleAtLeast(have, want models.Role) bool {
	return roleRank(have) >= roleRank(want)
}
