package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// aiStatus 由支持自检的建议服务实现。
type aiStatus interface {
	Provider() string
	Configured() bool
}

// Ping 用于存活探测。
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Healthz 返回存储实现与 AI 平台的配置情况。缺少 API Key 不视为故障。
func (a *API) Healthz(c *gin.Context) {
	ai := gin.H{"provider": "", "configured": false}
	if status, ok := a.suggestions.(aiStatus); ok {
		ai["provider"] = status.Provider()
		ai["configured"] = status.Configured()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": a.storageDriver,
		"ai":      ai,
	})
}
