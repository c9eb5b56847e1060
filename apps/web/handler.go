package main

import (
	"errors"
	"net/http"
	"strconv"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/gin-gonic/gin"

	"smartshop/apps/web/middleware"
	"smartshop/model"
	"smartshop/pkg/jwt"
	"smartshop/pkg/response"
	"smartshop/service"
)

// 原型里结算时没有地址选择，统一用这个演示地址
const defaultShippingAddress = "北京市海淀区中关村大街1号"

type handler struct {
	users   *service.UserRepository
	catalog *service.Catalog
	cart    *service.CartLedger
	orders  *service.OrderLedger
}

// RegisterRoutes 挂载全部路由
func (h *handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// 公开接口
	{
		v1.POST("/user/register", h.register)
		v1.POST("/user/login", h.login)
		v1.POST("/user/logout", h.logout)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/search", h.searchProducts)
		v1.GET("/products/:id", h.getProduct)

		// 购物车不按用户划分，与原型一致不做鉴权
		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PUT("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)
	}

	// 需要登录的接口
	auth := v1.Group("", middleware.AuthMiddleware())
	{
		auth.GET("/user/profile", h.profile)
		auth.PUT("/user/profile", h.updateProfile)
		auth.POST("/checkout", h.checkout)
		auth.GET("/orders", h.listOrders)
	}
}

// fail 按错误类别映射 HTTP 状态码
func fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthentication):
		response.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		response.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrProductNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrItemNotInCart):
		response.Error(ctx, http.StatusBadRequest, err.Error())
	default:
		response.Error(ctx, http.StatusInternalServerError, err.Error())
	}
}

// sanitize 返回给前端的用户信息不带密码
func sanitize(u *model.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"registerTime": u.RegisterTime,
		"level":        u.Level,
	}
}

func (h *handler) register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=10"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		fail(ctx, err)
		return
	}

	// 注册成功即自动登录
	if err := h.users.SetCurrentSession(ctx, user); err != nil {
		fail(ctx, err)
		return
	}
	token, err := jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessMsg(ctx, "注册成功！已自动登录。", gin.H{"token": token, "user": sanitize(user)})
}

func (h *handler) login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		fail(ctx, err)
		return
	}
	token, err := jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(ctx, gin.H{"token": token, "user": sanitize(user)})
}

func (h *handler) logout(ctx *gin.Context) {
	if err := h.users.Logout(ctx); err != nil {
		fail(ctx, err)
		return
	}
	response.SuccessMsg(ctx, "已退出登录", nil)
}

func (h *handler) profile(ctx *gin.Context) {
	user, err := h.users.FindByID(ctx, ctx.GetInt64("userId"))
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, sanitize(user))
}

func (h *handler) updateProfile(ctx *gin.Context) {
	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Update(ctx, ctx.GetInt64("userId"), service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, sanitize(user))
}

func (h *handler) listProducts(ctx *gin.Context) {
	category := ctx.DefaultQuery("category", model.CategoryAll)
	products, err := h.catalog.ListByCategory(ctx, category)
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, products)
}

func (h *handler) getProduct(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.catalog.FindByID(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, product)
}

func (h *handler) searchProducts(ctx *gin.Context) {
	keyword := ctx.Query("keyword")
	if keyword == "" {
		response.Error(ctx, http.StatusBadRequest, "请输入搜索关键词")
		return
	}
	products, err := h.catalog.Search(ctx, keyword)
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, products)
}

func (h *handler) getCart(ctx *gin.Context) {
	items, err := h.cart.ItemsWithDetails(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	totals, err := h.cart.Totals(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	count, err := h.cart.Count(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, gin.H{"items": items, "totals": totals, "count": count})
}

func (h *handler) addCartItem(ctx *gin.Context) {
	var req struct {
		ProductID int64 `json:"productId" binding:"required"`
		Quantity  int   `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.cart.AddItem(ctx, req.ProductID, req.Quantity); err != nil {
		fail(ctx, err)
		return
	}
	response.SuccessMsg(ctx, "已添加到购物车", nil)
}

func (h *handler) updateCartItem(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "invalid product id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.cart.SetQuantity(ctx, id, req.Quantity); err != nil {
		fail(ctx, err)
		return
	}
	response.SuccessMsg(ctx, "已更新购物车", nil)
}

func (h *handler) removeCartItem(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.cart.RemoveItem(ctx, id); err != nil {
		fail(ctx, err)
		return
	}
	response.SuccessMsg(ctx, "已从购物车移除", nil)
}

func (h *handler) clearCart(ctx *gin.Context) {
	if err := h.cart.Clear(ctx); err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, nil)
}

func (h *handler) checkout(ctx *gin.Context) {
	// 限流：下单是最重的写路径
	entry, blockErr := sentinel.Entry(ResCheckout)
	if blockErr != nil {
		response.Error(ctx, http.StatusTooManyRequests, "下单太频繁，请稍后再试")
		return
	}
	defer entry.Exit()

	// 地址可选，缺省用演示地址
	var req struct {
		ShippingAddress string `json:"shippingAddress"`
	}
	_ = ctx.ShouldBindJSON(&req)
	if req.ShippingAddress == "" {
		req.ShippingAddress = defaultShippingAddress
	}

	// 下单用户显式传给订单账本，而不是让账本自己读会话
	user, err := h.users.FindByID(ctx, ctx.GetInt64("userId"))
	if err != nil {
		fail(ctx, err)
		return
	}

	items, err := h.cart.ItemsWithDetails(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	if len(items) == 0 {
		response.Error(ctx, http.StatusBadRequest, "购物车为空，无法结算")
		return
	}

	totalAmount, err := h.cart.Subtotal(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}

	order, err := h.orders.CreateOrder(ctx, items, req.ShippingAddress, totalAmount, user)
	if err != nil {
		fail(ctx, err)
		return
	}
	response.SuccessMsg(ctx, "订单创建成功", order)
}

func (h *handler) listOrders(ctx *gin.Context) {
	orders, err := h.orders.ListForUser(ctx, ctx.GetInt64("userId"))
	if err != nil {
		fail(ctx, err)
		return
	}
	response.Success(ctx, orders)
}
