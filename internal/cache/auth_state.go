package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zulin-next/internal/models"
)

const userAuthStateTTL = 5 * time.Minute

// UserAuthState 鉴权热路径缓存的用户快照
type UserAuthState struct {
	UserID     uint   `json:"user_id"`
	Role       string `json:"role"`
	MerchantID *uint  `json:"merchant_id,omitempty"`
	Status     string `json:"status"`
}

// BuildUserAuthState 从用户模型构造快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:     user.ID,
		Role:       user.Role,
		MerchantID: user.MerchantID,
		Status:     user.Status,
	}
}

// GetUserAuthState 读取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, userAuthStateTTL)
}

// DelUserAuthState 清除用户鉴权快照（禁用账号、改角色后调用）
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}
