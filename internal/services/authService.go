package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/store"
)

const (
	msgNoSuchUser      = "User with that email does not exist. Please sign up."
	msgBadCredentials  = "Email and password do not match."
	msgPasswordsDiffer = "Passwords do not match"
)

type SignupInput struct {
	Name                 string `json:"name" validate:"required,max=32"`
	Email                string `json:"email" validate:"required,min=3,max=32,emailish"`
	Password             string `json:"password" validate:"required,containsany=0123456789"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResult is a freshly issued token and the user it belongs to.
type SigninResult struct {
	Token   string
	Expires time.Time
	User    models.User
}

type AuthService struct {
	users  store.UserStore
	tokens *TokenIssuer
	admins map[string]bool
	now    func() time.Time
}

// NewAuthService creates the service. Users signing up with one of
// adminEmails are given the admin role.
func NewAuthService(users store.UserStore, tokens *TokenIssuer, adminEmails []string) *AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[NormalizeEmail(e)] = true
	}
	return &AuthService{users: users, tokens: tokens, admins: admins, now: time.Now}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a member account and returns it without credentials.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if in.Password != in.PasswordConfirmation {
		return nil, invalid(msgPasswordsDiffer)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, &Error{Kind: KindConflict, Message: DuplicateMessage([]string{"email"})}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	role := models.RoleMember
	if s.admins[in.Email] {
		role = models.RoleAdmin
	}

	salt := NewSalt()
	now := s.now()
	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		Salt:           salt,
		HashedPassword: HashPassword(in.Password, salt),
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, conflict(err)
	}

	public := user.Public()
	return &public, nil
}

// Signin checks the credentials and issues a token.
func (s *AuthService) Signin(ctx context.Context, in SigninInput) (*SigninResult, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(in.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalid(msgNoSuchUser)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !Authenticate(in.Password, user.Salt, user.HashedPassword) {
		return nil, &Error{Kind: KindUnauthorized, Message: msgBadCredentials}
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &SigninResult{Token: token, Expires: expires, User: user.Public()}, nil
}

// VerifyToken validates a bearer token.
func (s *AuthService) VerifyToken(token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "Invalid or expired token"}
	}
	return claims, nil
}
