package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/realty-api/internal/cache"
	"github.com/realty-api/internal/domain"
	"github.com/realty-api/internal/pkg/id"
	"github.com/realty-api/internal/pkg/validate"
)

// Attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPhoneNumber = "phone_number"
	fieldRole        = "role"
)

// AuthResult bundles the tokens issued on register and login.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Search(ctx context.Context, f domain.UserSearchFilter) ([]domain.User, error)
	Update(ctx context.Context, actor *domain.User, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, f domain.UserSearchFilter) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
	SetRefreshToken(ctx context.Context, userID, token string) error
}

type tokenProvider interface {
	SignAccess(userID, email, role string) (string, error)
	SignRefresh(userID string) (string, error)
	VerifyRefresh(tokenStr string) (userID string, err error)
}

type service struct {
	repo     userStore
	tokens   tokenProvider
	accessor *cache.Accessor
}

func NewService(repo userStore, tokens tokenProvider, accessor *cache.Accessor) Service {
	return &service{repo: repo, tokens: tokens, accessor: accessor}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	accessToken, err := s.tokens.SignAccess(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefresh(u.UserID)
	if err != nil {
		return nil, err
	}
	u.RefreshToken = refreshToken
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllUsers())
	return &AuthResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	accessToken, err := s.tokens.SignAccess(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefresh(u.UserID)
	if err != nil {
		return nil, err
	}
	// Rotate the stored refresh token on every login; older refresh tokens
	// stop working immediately.
	if err := s.repo.SetRefreshToken(ctx, u.UserID, refreshToken); err != nil {
		return nil, err
	}
	u.RefreshToken = refreshToken
	return &AuthResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	return s.repo.SetRefreshToken(ctx, userID, "")
}

// Refresh verifies the refresh token against both its signature and the copy
// stored on the user document, then issues a fresh access token.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil || u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return "", fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
	}
	return s.tokens.SignAccess(u.UserID, u.Email, u.Role)
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return cache.ReadThrough(ctx, s.accessor, cache.KeyAllUsers(), cache.UserListTTL,
		func(ctx context.Context) ([]domain.User, error) {
			return s.repo.List(ctx)
		})
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return cache.ReadThrough(ctx, s.accessor, cache.KeyUser(userID), cache.UserTTL,
		func(ctx context.Context) (*domain.User, error) {
			return s.repo.Get(ctx, userID)
		})
}

func (s *service) Search(ctx context.Context, f domain.UserSearchFilter) ([]domain.User, error) {
	return s.repo.Search(ctx, f)
}

func (s *service) Update(ctx context.Context, actor *domain.User, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Email != nil {
		if existing, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && existing.UserID != userID {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		updates[fieldEmail] = *req.Email
	}
	if req.PhoneNumber != nil {
		updates[fieldPhoneNumber] = *req.PhoneNumber
	}
	if req.Role != nil {
		if !domain.ValidRole(*req.Role) {
			return nil, fmt.Errorf("invalid role: %w", domain.ErrBadRequest)
		}
		// Only admins may change roles; otherwise any user could promote
		// themselves through the self-allowed update route.
		if actor == nil || actor.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("only admins may change roles: %w", domain.ErrForbidden)
		}
		updates[fieldRole] = *req.Role
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	// Invalidate only after the store acknowledged the write.
	s.accessor.Invalidate(ctx, cache.KeyAllUsers(), cache.KeyUser(userID))
	return s.repo.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.accessor.Invalidate(ctx, cache.KeyAllUsers(), cache.KeyUser(userID))
	return nil
}
