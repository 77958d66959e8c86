package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request validation is checked before any database access, so these
// tests run against the bare handler with no Mongo behind it.

func postOrder(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", primitive.NewObjectID())

	err := CreateOrder(c)
	require.NoError(t, err)
	return rec
}

const validAddress = `{"name":"Rahim","phone":"01700000000","street":"12 Mirpur Rd","city":"Dhaka"}`

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	rec := postOrder(t, `{"items":[],"shippingAddress":`+validAddress+`,"paymentMethod":"card"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least one item")
}

func TestCreateOrderRejectsIncompleteAddress(t *testing.T) {
	rec := postOrder(t, `{
		"items":[{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":1}],
		"shippingAddress":{"name":"Rahim","city":"Dhaka"},
		"paymentMethod":"card"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address")
}

func TestCreateOrderRejectsNegativePaidAmount(t *testing.T) {
	rec := postOrder(t, `{
		"items":[{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":1}],
		"shippingAddress":`+validAddress+`,
		"paymentMethod":"cod",
		"isCOD":true,
		"paidAmount":-100
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "negative")
}

func TestCreateOrderRejectsNegativeExtraCharge(t *testing.T) {
	rec := postOrder(t, `{
		"items":[{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":1}],
		"shippingAddress":`+validAddress+`,
		"paymentMethod":"card",
		"extraCharge":-10
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderRejectsBadProductID(t *testing.T) {
	rec := postOrder(t, `{
		"items":[{"productId":"not-an-object-id","quantity":1}],
		"shippingAddress":`+validAddress+`,
		"paymentMethod":"card"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "product ID")
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	rec := postOrder(t, `{
		"items":[{"productId":"`+primitive.NewObjectID().Hex()+`","quantity":0}],
		"shippingAddress":`+validAddress+`,
		"paymentMethod":"card"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantity")
}

func TestGetMyOrderRejectsBadOrderID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/orders/my/:orderId")
	c.SetParamNames("orderId")
	c.SetParamValues("garbage")
	c.Set("userID", primitive.NewObjectID())

	require.NoError(t, GetMyOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
