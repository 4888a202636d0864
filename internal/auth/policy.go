package auth

import (
	"github.com/google/uuid"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionPropertyCreate   Action = "property:create"
	ActionPropertyRead     Action = "property:read"
	ActionPropertyEdit     Action = "property:edit"
	ActionPropertyDelete   Action = "property:delete"
	ActionPropertyModerate Action = "property:moderate" // status and flag transitions
	ActionLeadCreate       Action = "lead:create"
	ActionLeadRead         Action = "lead:read"
	ActionLeadUpdate       Action = "lead:update"
	ActionSiteVisitCreate  Action = "sitevisit:create"
	ActionSiteVisitRead    Action = "sitevisit:read"
	ActionUserManage       Action = "user:manage"
	ActionFavoriteManage   Action = "favorite:manage"
	ActionProfileSelf      Action = "profile:self"
	ActionDashboardProfile Action = "profile:dashboard"
)

// Resource carries the ownership facts a decision needs. Zero values mean
// "not applicable".
type Resource struct {
	OwnerID       uuid.UUID // property owner, favorite owner, profile owner
	AssignedStaff uuid.UUID // lead/site-visit staff assignment
	Flagged       bool      // property has a non-null flag
}

// Public actions allowed without a session.
var publicActions = map[Action]bool{
	ActionPropertyRead: true,
	ActionLeadCreate:   true,
}

// Authorize maps (principal, action, resource) to a decision. Rules form a
// closed set evaluated in order, first match wins. A nil principal is an
// unauthenticated caller. A Deny must short-circuit the caller with no side
// effects.
func Authorize(p *Principal, action Action, res Resource) error {
	if p == nil {
		if publicActions[action] {
			return nil
		}
		return errs.ErrUnauthorized
	}

	switch p.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		return authorizeAdmin(action)
	case model.RoleBuilder:
		return authorizeBuilder(p, action, res)
	case model.RoleTelecaller, model.RoleSalesExecutive:
		return authorizeFieldStaff(p, action, res)
	case model.RoleSaaSOwner:
		return authorizeSaaSOwner(action)
	default: // BUYER
		return authorizeBuyer(p, action, res)
	}
}

func authorizeAdmin(action Action) error {
	switch action {
	case ActionPropertyRead, ActionPropertyEdit, ActionPropertyDelete, ActionPropertyModerate,
		ActionLeadCreate, ActionLeadRead, ActionLeadUpdate,
		ActionSiteVisitCreate, ActionSiteVisitRead,
		ActionUserManage, ActionProfileSelf, ActionDashboardProfile:
		return nil
	}
	// Admins do not list properties of their own; they are not builders.
	return errs.ErrForbidden
}

func authorizeBuilder(p *Principal, action Action, res Resource) error {
	switch action {
	case ActionPropertyCreate, ActionPropertyRead, ActionLeadCreate,
		ActionProfileSelf, ActionDashboardProfile:
		return nil
	case ActionPropertyEdit:
		if res.OwnerID == p.ID {
			return nil
		}
	case ActionPropertyDelete:
		// Flagged listings are off-limits to their owner; only staff may
		// remove a sold/rented/leased record.
		if res.OwnerID == p.ID && !res.Flagged {
			return nil
		}
	case ActionLeadRead:
		// Builders read leads scoped to properties they own.
		if res.OwnerID == p.ID {
			return nil
		}
	}
	return errs.ErrForbidden
}

func authorizeFieldStaff(p *Principal, action Action, res Resource) error {
	switch action {
	case ActionPropertyRead, ActionLeadCreate, ActionProfileSelf, ActionDashboardProfile:
		return nil
	case ActionLeadRead, ActionLeadUpdate, ActionSiteVisitRead:
		if res.AssignedStaff == p.ID {
			return nil
		}
	case ActionSiteVisitCreate:
		return nil
	}
	return errs.ErrForbidden
}

func authorizeSaaSOwner(action Action) error {
	switch action {
	case ActionPropertyRead, ActionLeadCreate, ActionLeadRead,
		ActionProfileSelf, ActionDashboardProfile:
		return nil
	}
	return errs.ErrForbidden
}

func authorizeBuyer(p *Principal, action Action, res Resource) error {
	switch action {
	case ActionPropertyRead, ActionLeadCreate, ActionProfileSelf:
		return nil
	case ActionFavoriteManage:
		if res.OwnerID == p.ID {
			return nil
		}
	}
	// Dashboard profile endpoints are reserved for non-buyer roles.
	return errs.ErrForbidden
}
