package handler

import (
	"github.com/writespace/internal/service"
	"github.com/writespace/internal/store"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts         *service.PostService
	auth          *service.AuthService
	tokens        *service.TokenService
	suggestions   service.SuggestionGenerator
	renderer      *service.Renderer
	storageDriver string
}

// NewAPI constructs a handler set on top of the given repository.
func NewAPI(repo store.Repository, tokens *service.TokenService, suggestions service.SuggestionGenerator) *API {
	return &API{
		posts:       service.NewPostService(repo),
		auth:        service.NewAuthService(repo),
		tokens:      tokens,
		suggestions: suggestions,
		renderer:    service.NewRenderer(),
	}
}

// Auth exposes the account service, used at start-up to ensure the demo user.
func (a *API) Auth() *service.AuthService {
	return a.auth
}

// SetStorageDriver 记录当前存储实现，供健康检查展示。
func (a *API) SetStorageDriver(name string) {
	a.storageDriver = name
}
