package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookpilot-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func scopeContext(t *testing.T, target, role, companyID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if role != "" {
		c.Set("role", role)
	}
	if companyID != "" {
		c.Set("companyId", companyID)
	}
	return c, w
}

func TestBookingScopePinsTenantToOwnCompany(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	// The query parameter must be ignored for non-operators.
	c, _ := scopeContext(t, "/api/bookings?companyId="+other.String(),
		models.RoleOwner, own.String())

	scope, ok := resolveBookingScope(c)
	if !ok {
		t.Fatal("expected a scope for an authenticated tenant")
	}
	if scope.CompanyID == nil {
		t.Fatal("tenant queries must never be unscoped")
	}
	if *scope.CompanyID != own {
		t.Errorf("expected the token's company %s, got %s", own, *scope.CompanyID)
	}
}

func TestBookingScopeRejectsMissingCompanyClaim(t *testing.T) {
	c, w := scopeContext(t, "/api/bookings", models.RoleEmployee, "")

	if _, ok := resolveBookingScope(c); ok {
		t.Fatal("expected the scope to be refused without a company claim")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestBookingScopeOperatorCrossesTenants(t *testing.T) {
	c, _ := scopeContext(t, "/api/bookings", models.RoleOperator, "")

	scope, ok := resolveBookingScope(c)
	if !ok {
		t.Fatal("expected a scope for an operator")
	}
	if scope.CompanyID != nil {
		t.Errorf("operator without a filter must be unscoped, got %s", *scope.CompanyID)
	}
}

func TestBookingScopeOperatorNarrowsByQuery(t *testing.T) {
	target := uuid.New()
	c, _ := scopeContext(t, "/api/bookings?companyId="+target.String(),
		models.RoleOperator, "")

	scope, ok := resolveBookingScope(c)
	if !ok {
		t.Fatal("expected a scope")
	}
	if scope.CompanyID == nil || *scope.CompanyID != target {
		t.Errorf("expected the narrowed company %s, got %+v", target, scope.CompanyID)
	}
}

func TestBookingScopeOperatorRejectsBadCompanyID(t *testing.T) {
	c, w := scopeContext(t, "/api/bookings?companyId=not-a-uuid", models.RoleOperator, "")

	if _, ok := resolveBookingScope(c); ok {
		t.Fatal("expected a malformed companyId to be refused")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
