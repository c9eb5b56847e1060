package model

// 会员等级
const (
	LevelNormal = "普通会员"
	LevelGold   = "黄金会员"
)

// User 用户记录
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"` // 3-10 位，全局唯一
	Email        string `json:"email"`
	Password     string `json:"password"` // 明文存储，与原型保持一致
	RegisterTime string `json:"registerTime"`
	Level        string `json:"level"`
}
