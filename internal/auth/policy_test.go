package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/model"
)

func TestAuthorize(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()

	principal := func(role model.Role) *Principal {
		return &Principal{ID: selfID, Role: role}
	}

	tests := []struct {
		name          string
		principal     *Principal
		action        Action
		resource      Resource
		expectedError error
	}{
		// Unauthenticated callers
		{"anonymous browses listings", nil, ActionPropertyRead, Resource{}, nil},
		{"anonymous submits inquiry", nil, ActionLeadCreate, Resource{}, nil},
		{"anonymous cannot create listings", nil, ActionPropertyCreate, Resource{}, errs.ErrUnauthorized},
		{"anonymous cannot moderate", nil, ActionPropertyModerate, Resource{}, errs.ErrUnauthorized},

		// Admins
		{"admin moderates", principal(model.RoleAdmin), ActionPropertyModerate, Resource{}, nil},
		{"admin manages users", principal(model.RoleAdmin), ActionUserManage, Resource{}, nil},
		{"admin deletes flagged listings", principal(model.RoleAdmin), ActionPropertyDelete, Resource{OwnerID: otherID, Flagged: true}, nil},
		{"admin cannot create listings", principal(model.RoleAdmin), ActionPropertyCreate, Resource{}, errs.ErrForbidden},
		{"super admin moderates", principal(model.RoleSuperAdmin), ActionPropertyModerate, Resource{}, nil},
		{"super admin manages users", principal(model.RoleSuperAdmin), ActionUserManage, Resource{}, nil},

		// Builders
		{"builder creates listings", principal(model.RoleBuilder), ActionPropertyCreate, Resource{}, nil},
		{"builder edits own listing", principal(model.RoleBuilder), ActionPropertyEdit, Resource{OwnerID: selfID}, nil},
		{"builder cannot edit others", principal(model.RoleBuilder), ActionPropertyEdit, Resource{OwnerID: otherID}, errs.ErrForbidden},
		{"builder deletes own unflagged listing", principal(model.RoleBuilder), ActionPropertyDelete, Resource{OwnerID: selfID}, nil},
		{"builder cannot delete own flagged listing", principal(model.RoleBuilder), ActionPropertyDelete, Resource{OwnerID: selfID, Flagged: true}, errs.ErrForbidden},
		{"builder cannot moderate", principal(model.RoleBuilder), ActionPropertyModerate, Resource{}, errs.ErrForbidden},
		{"builder reads own leads", principal(model.RoleBuilder), ActionLeadRead, Resource{OwnerID: selfID}, nil},
		{"builder uses dashboard profile", principal(model.RoleBuilder), ActionDashboardProfile, Resource{OwnerID: selfID}, nil},

		// Field staff
		{"telecaller updates assigned lead", principal(model.RoleTelecaller), ActionLeadUpdate, Resource{AssignedStaff: selfID}, nil},
		{"telecaller cannot update unassigned lead", principal(model.RoleTelecaller), ActionLeadUpdate, Resource{AssignedStaff: otherID}, errs.ErrForbidden},
		{"sales executive schedules visits", principal(model.RoleSalesExecutive), ActionSiteVisitCreate, Resource{}, nil},
		{"sales executive reads own visits", principal(model.RoleSalesExecutive), ActionSiteVisitRead, Resource{AssignedStaff: selfID}, nil},
		{"telecaller cannot manage users", principal(model.RoleTelecaller), ActionUserManage, Resource{}, errs.ErrForbidden},
		{"telecaller cannot moderate", principal(model.RoleTelecaller), ActionPropertyModerate, Resource{}, errs.ErrForbidden},

		// SaaS owner
		{"saas owner reads leads", principal(model.RoleSaaSOwner), ActionLeadRead, Resource{}, nil},
		{"saas owner cannot moderate", principal(model.RoleSaaSOwner), ActionPropertyModerate, Resource{}, errs.ErrForbidden},
		{"saas owner cannot manage users", principal(model.RoleSaaSOwner), ActionUserManage, Resource{}, errs.ErrForbidden},

		// Buyers
		{"buyer browses listings", principal(model.RoleBuyer), ActionPropertyRead, Resource{}, nil},
		{"buyer manages own favorites", principal(model.RoleBuyer), ActionFavoriteManage, Resource{OwnerID: selfID}, nil},
		{"buyer cannot touch others favorites", principal(model.RoleBuyer), ActionFavoriteManage, Resource{OwnerID: otherID}, errs.ErrForbidden},
		{"buyer edits own profile", principal(model.RoleBuyer), ActionProfileSelf, Resource{OwnerID: selfID}, nil},
		{"buyer has no dashboard profile", principal(model.RoleBuyer), ActionDashboardProfile, Resource{OwnerID: selfID}, errs.ErrForbidden},
		{"buyer cannot create listings", principal(model.RoleBuyer), ActionPropertyCreate, Resource{}, errs.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.action, tt.resource)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoleRequiresSecurityKey(t *testing.T) {
	assert.True(t, model.RoleAdmin.RequiresSecurityKey())
	assert.True(t, model.RoleTelecaller.RequiresSecurityKey())
	assert.True(t, model.RoleSalesExecutive.RequiresSecurityKey())
	assert.False(t, model.RoleBuyer.RequiresSecurityKey())
	assert.False(t, model.RoleBuilder.RequiresSecurityKey())
	assert.False(t, model.RoleSuperAdmin.RequiresSecurityKey())
}

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)

	original := &Principal{
		ID:     uuid.New(),
		Role:   model.RoleBuilder,
		Name:   "Builder",
		Email:  "builder@example.com",
		Mobile: "9000000001",
	}

	token, err := service.GenerateToken(original)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)

	restored, err := claims.Principal()
	assert.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&Principal{ID: uuid.New(), Role: model.RoleBuyer})
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
