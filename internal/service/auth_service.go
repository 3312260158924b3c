package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/writespace/internal/model"
	"github.com/writespace/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ErrSignupFieldsRequired 表示注册时缺少姓名、邮箱或密码。
var ErrSignupFieldsRequired = errors.New("name, email and password are required")

// AuthOutcome 描述注册或登录的结果类型。
type AuthOutcome int

const (
	AuthOK AuthOutcome = iota
	AuthEmailExists
	AuthInvalidCredentials
)

// String implements fmt.Stringer.
func (o AuthOutcome) String() string {
	switch o {
	case AuthOK:
		return "ok"
	case AuthEmailExists:
		return "email_exists"
	case AuthInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// AuthResult 是注册/登录的返回值，仅当 Outcome 为 AuthOK 时 User 非空。
type AuthResult struct {
	Outcome AuthOutcome
	User    *model.User
}

// SignupInput represents fields accepted on signup.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService 负责账号注册与登录，并保证邮箱唯一。
type AuthService struct {
	repo store.Repository
	cost int
	// signupMu 串行化“检查邮箱 + 创建用户”，避免并发注册出现重复邮箱。
	signupMu sync.Mutex
}

// NewAuthService creates an AuthService using bcrypt.DefaultCost.
func NewAuthService(repo store.Repository) *AuthService {
	return &AuthService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithCost 调整 bcrypt 强度，测试中使用 bcrypt.MinCost 加速。
func (s *AuthService) WithCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.cost = cost
	}
	return s
}

// Signup 注册新用户；邮箱已存在时返回 AuthEmailExists 而非错误。
func (s *AuthService) Signup(input SignupInput) (AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return AuthResult{}, ErrSignupFieldsRequired
	}

	s.signupMu.Lock()
	defer s.signupMu.Unlock()

	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return AuthResult{Outcome: AuthEmailExists}, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.repo.CreateUser(model.InsertUser{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Outcome: AuthOK, User: user}, nil
}

// Login 校验邮箱与密码，不区分“用户不存在”和“密码错误”。
func (s *AuthService) Login(email, password string) (AuthResult, error) {
	user, err := s.repo.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{Outcome: AuthInvalidCredentials}, nil
		}
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResult{Outcome: AuthInvalidCredentials}, nil
	}
	return AuthResult{Outcome: AuthOK, User: user}, nil
}

// User 按 id 读取用户。
func (s *AuthService) User(id uint) (*model.User, error) {
	user, err := s.repo.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureUser 存在性检查：若三项均非空且邮箱未注册，则创建一个 bcrypt 哈希的用户。
func (s *AuthService) EnsureUser(name, email, password string) (*model.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, nil
	}

	result, err := s.Signup(SignupInput{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if result.Outcome == AuthEmailExists {
		return s.repo.GetUserByEmail(normalizeEmail(email))
	}
	return result.User, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
