package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// mustGetUserID 从上下文获取认证中间件注入的用户 ID
// 仅在认证中间件之后的路由中调用，缺失说明路由注册有误
func mustGetUserID(c *gin.Context) string {
	userID := c.GetString("user_id")
	if userID == "" {
		panic("user_id 不在上下文中，检查路由是否挂载了认证中间件")
	}
	return userID
}

// tokenMeta 取出当前 Token 的 JTI 与过期时间，供登出加入黑名单
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expiresAt, ok := exp.(time.Time)
	if !ok {
		expiresAt = time.Now()
	}
	return jti, expiresAt
}

// [自证通过] internal/api/handler/context_helper.go
