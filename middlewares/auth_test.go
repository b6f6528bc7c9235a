package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy-service/auth"
	"groupbuy-service/models"
)

func testRouter(tokens *auth.TokenService, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(tokens), gate)
	group.GET("/protected", func(c *gin.Context) {
		principal, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"role": principal.Role()})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	r := testRouter(tokens, RequireOperator())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "garbage").Code)
}

func TestRoleGates(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	adminToken, err := tokens.Issue(auth.Staff{ID: 1, Username: "boss", UserRole: models.RoleAdmin})
	require.NoError(t, err)
	operatorToken, err := tokens.Issue(auth.Staff{ID: 2, Username: "op", UserRole: models.RoleOperator})
	require.NoError(t, err)
	customerToken, err := tokens.Issue(auth.Customer{ID: 3, MemberID: "PP12345", Email: "c@example.com"})
	require.NoError(t, err)

	adminOnly := testRouter(tokens, RequireAdmin())
	assert.Equal(t, http.StatusOK, doRequest(adminOnly, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(adminOnly, operatorToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(adminOnly, customerToken).Code)

	// Admins count as operators.
	operatorGate := testRouter(tokens, RequireOperator())
	assert.Equal(t, http.StatusOK, doRequest(operatorGate, operatorToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(operatorGate, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(operatorGate, customerToken).Code)

	customerGate := testRouter(tokens, RequireCustomer())
	assert.Equal(t, http.StatusOK, doRequest(customerGate, customerToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(customerGate, adminToken).Code)
}
