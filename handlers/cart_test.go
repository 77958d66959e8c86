package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newCartContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/cart", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", primitive.NewObjectID())
	return c, rec
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	c, rec := newCartContext(t, http.MethodPost,
		`{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":0}`)
	require.NoError(t, AddToCart(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantity")
}

func TestAddToCartRejectsBadProductID(t *testing.T) {
	c, rec := newCartContext(t, http.MethodPost, `{"productId":"nope","quantity":1}`)
	require.NoError(t, AddToCart(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "product ID")
}

func TestUpdateCartItemRejectsBadItemID(t *testing.T) {
	c, rec := newCartContext(t, http.MethodPut, `{"quantity":2}`)
	c.SetParamNames("itemId")
	c.SetParamValues("garbage")
	require.NoError(t, UpdateCartItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCartItemRejectsZeroQuantity(t *testing.T) {
	c, rec := newCartContext(t, http.MethodPut, `{"quantity":0}`)
	c.SetParamNames("itemId")
	c.SetParamValues(primitive.NewObjectID().Hex())
	require.NoError(t, UpdateCartItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveCartItemRejectsBadItemID(t *testing.T) {
	c, rec := newCartContext(t, http.MethodDelete, "")
	c.SetParamNames("itemId")
	c.SetParamValues("garbage")
	require.NoError(t, RemoveCartItem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromoGate(t *testing.T) {
	tests := []struct {
		name     string
		settings models.Settings
		err      error
		wantCode int
	}{
		{"promo enabled passes", models.Settings{PromoEnabled: true}, nil, 0},
		{"promo disabled is client error", models.Settings{PromoEnabled: false}, nil, http.StatusBadRequest},
		{"no settings document is client error", models.Settings{}, mongo.ErrNoDocuments, http.StatusBadRequest},
		{"lookup failure is server error", models.Settings{PromoEnabled: true}, errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := promoGate(&tt.settings, tt.err)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode != 0 {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestApplyPromoRejectsEmptyCode(t *testing.T) {
	c, rec := newCartContext(t, http.MethodPost, `{"code":"  "}`)
	require.NoError(t, ApplyPromo(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}
