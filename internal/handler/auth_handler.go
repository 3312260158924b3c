package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/writespace/internal/model"
	"github.com/writespace/internal/service"
)

const (
	// ContextUserID 是认证中间件写入 gin.Context 的当前用户 id。
	ContextUserID = "userID"

	sessionUserIDKey = "user_id"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup 注册新用户，成功后写入会话并返回访问令牌。
func (a *API) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req, "Invalid signup payload") {
		return
	}

	result, err := a.auth.Signup(service.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		respondServiceError(c, err, "Failed to sign up")
		return
	}
	if result.Outcome == service.AuthEmailExists {
		respondError(c, http.StatusConflict, "Email already exists")
		return
	}

	a.startSession(c, http.StatusCreated, result.User)
}

// Login 校验邮箱与密码。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Invalid login payload") {
		return
	}

	result, err := a.auth.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Failed to log in")
		return
	}
	if result.Outcome != service.AuthOK {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	a.startSession(c, http.StatusOK, result.User)
}

func (a *API) startSession(c *gin.Context, status int, user *model.User) {
	token, err := a.tokens.Generate(*user)
	if err != nil {
		respondServiceError(c, err, "Failed to issue token")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	if err := session.Save(); err != nil {
		respondServiceError(c, err, "Failed to save session")
		return
	}

	c.JSON(status, gin.H{"user": user, "token": token})
}

// Logout 清除会话。令牌为无状态凭证，由客户端自行丢弃。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		respondServiceError(c, err, "Failed to clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 返回当前登录用户。
func (a *API) Me(c *gin.Context) {
	user, err := a.auth.User(currentUserID(c))
	if err != nil {
		respondServiceError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// AuthRequired 优先校验 Bearer 令牌，其次读取会话中的 user_id。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if _, err := a.auth.User(userID); err != nil {
			if errors.Is(err, service.ErrAuthorNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			logRequestError(c, "Failed to load user", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func (a *API) authenticate(c *gin.Context) (uint, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		raw, found := bearerToken(header)
		if !found {
			return 0, false
		}
		id, err := a.tokens.Parse(raw)
		if err != nil {
			return 0, false
		}
		return id, true
	}

	session := sessions.Default(c)
	id, ok := session.Get(sessionUserIDKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// bearerToken 提取 Authorization 中的令牌，scheme 名不区分大小写。
func bearerToken(header string) (string, bool) {
	const scheme = "Bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(scheme):])
	return raw, raw != ""
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}
