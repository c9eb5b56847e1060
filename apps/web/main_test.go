package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartshop/pkg/storage"
	"smartshop/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	initSentinel()
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, service.Seed(context.Background(), store))

	users := service.NewUserRepository(store)
	catalog := service.NewCatalog(store)
	cart := service.NewCartLedger(store, catalog)
	orders := service.NewOrderLedger(store, cart)

	r := gin.New()
	h := &handler{users: users, catalog: catalog, cart: cart, orders: orders}
	h.RegisterRoutes(r)
	return r
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestWeb_RegisterLoginCheckoutFlow(t *testing.T) {
	r := newTestRouter(t)

	// 注册即自动登录，拿到 token
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/user/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reg struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, int64(2), reg.User.ID, "seeded demo user holds id 1")

	// 加购两件商品
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", "", gin.H{"productId": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/cart/items", "", gin.H{"productId": 2, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cartView struct {
		Count  int `json:"count"`
		Totals struct {
			Subtotal float64 `json:"subtotal"`
			Shipping float64 `json:"shipping"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cartView))
	assert.Equal(t, 3, cartView.Count)
	assert.InDelta(t, 2999+2*599, cartView.Totals.Subtotal, 1e-9)
	assert.Zero(t, cartView.Totals.Shipping, "over the free-shipping threshold")

	// 结算
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/checkout", reg.Token, gin.H{"shippingAddress": "测试地址"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var order struct {
		ID     int64  `json:"id"`
		UserID int64  `json:"userId"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, reg.User.ID, order.UserID)
	assert.Equal(t, "pending", order.Status)

	// 下单后购物车被清空
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cartView))
	assert.Zero(t, cartView.Count)

	// 订单出现在本人的订单列表里
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/orders", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestWeb_CheckoutRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/checkout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeb_CheckoutRejectsEmptyCart(t *testing.T) {
	r := newTestRouter(t)

	_, env := doJSON(t, r, http.MethodPost, "/api/v1/user/login", "", gin.H{
		"username": "demo",
		"password": "123456",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/checkout", login.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "购物车为空，无法结算", env.Msg)
}

func TestWeb_LoginRejectsBadPassword(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/user/login", "", gin.H{
		"username": "demo",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeb_RegisterRejectsDuplicateUsername(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/user/register", "", gin.H{
		"username": "demo",
		"email":    "x@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWeb_SearchRequiresKeyword(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/products/search?keyword=耳机", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "无线蓝牙耳机", products[0].Name)
}

func TestWeb_AddUnknownProductReturns404(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", "", gin.H{"productId": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
