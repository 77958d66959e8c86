package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func runAuthed(t *testing.T, token string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth()(handler)(c)
	require.NoError(t, err)
	return rec
}

func TestAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateJWT(userID.Hex(), models.RoleUser)
	require.NoError(t, err)

	rec := runAuthed(t, token, func(c echo.Context) error {
		assert.Equal(t, userID, c.Get("userID"))
		assert.Equal(t, models.RoleUser, c.Get("role"))
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := runAuthed(t, "", func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := runAuthed(t, "bogus.token.value", func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/admin/all", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		err := AdminOnly()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)
		return rec
	}

	assert.Equal(t, http.StatusOK, run(models.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, run(models.RoleUser).Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
	assert.Equal(t, http.StatusForbidden, run("admin").Code) // wrong type, not a models.Role
}
