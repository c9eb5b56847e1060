package service

import (
	"context"
	"errors"
	"time"

	"smartshop/model"
	"smartshop/pkg/storage"
)

// UserRepository 用户数据访问。所有方法每次都从存储整体读出用户集合，
// 变更后整体写回，和其余管理器保持同一套持久化纪律。
type UserRepository struct {
	store storage.Store
}

func NewUserRepository(store storage.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) load(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if _, err := r.store.Get(ctx, storage.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// List 返回全部用户
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.load(ctx)
}

// FindByID 按 ID 查找，找不到返回 ErrUserNotFound
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByUsername 按用户名查找，大小写敏感，返回第一个匹配
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// Register 注册新用户。用户名重复时返回 ErrDuplicateUsername，
// ID 取现有最大值加一（空集合从 1 开始），注册日期取当天，等级为普通会员。
func (r *UserRepository) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, u := range users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	user := model.User{
		ID:           maxID + 1,
		Username:     username,
		Email:        email,
		Password:     password,
		RegisterTime: time.Now().Format("2006-01-02"),
		Level:        model.LevelNormal,
	}

	users = append(users, user)
	if err := r.store.Set(ctx, storage.KeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate 资料更新字段，nil 表示不改
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Level    *string
}

// Update 浅合并非 nil 字段后持久化。不会刷新会话指针：
// 已登录会话里保存的仍是更新前的快照，和原型行为一致。
func (r *UserRepository) Update(ctx context.Context, id int64, upd UserUpdate) (*model.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}
		if upd.Username != nil {
			users[i].Username = *upd.Username
		}
		if upd.Email != nil {
			users[i].Email = *upd.Email
		}
		if upd.Password != nil {
			users[i].Password = *upd.Password
		}
		if upd.Level != nil {
			users[i].Level = *upd.Level
		}
		if err := r.store.Set(ctx, storage.KeyUsers, users); err != nil {
			return nil, err
		}
		return &users[i], nil
	}
	return nil, ErrUserNotFound
}

// SetCurrentSession 设置会话指针，传 nil 清空
func (r *UserRepository) SetCurrentSession(ctx context.Context, user *model.User) error {
	if user == nil {
		return r.store.Remove(ctx, storage.KeyCurrentUser)
	}
	return r.store.Set(ctx, storage.KeyCurrentUser, user)
}

// CurrentSession 返回会话指针里保存的用户快照，未登录返回 (nil, nil)。
// 不回查用户集合做校验。
func (r *UserRepository) CurrentSession(ctx context.Context) (*model.User, error) {
	var user model.User
	ok, err := r.store.Get(ctx, storage.KeyCurrentUser, &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Logout 清空会话指针
func (r *UserRepository) Logout(ctx context.Context) error {
	return r.SetCurrentSession(ctx, nil)
}

// Login 按用户名查找并做明文密码比对，成功后把用户设为当前会话。
// 凭证错误统一返回 ErrAuthentication，不区分用户不存在和密码错误。
func (r *UserRepository) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAuthentication
		}
		return nil, err
	}
	if user.Password != password {
		return nil, ErrAuthentication
	}
	if err := r.SetCurrentSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
