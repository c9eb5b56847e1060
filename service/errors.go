package service

import "errors"

// 数据访问层的业务错误，HTTP 层按类别映射为状态码和提示文案
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrDuplicateUsername = errors.New("用户名已存在")
	ErrAuthentication    = errors.New("用户名或密码错误")
	ErrProductNotFound   = errors.New("商品不存在")
	ErrItemNotInCart     = errors.New("购物车中无此商品")
)
