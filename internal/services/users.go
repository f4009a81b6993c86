package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/trentd187/volleyball-club/internal/apperr"
	"github.com/trentd187/volleyball-club/internal/auth"
	"github.com/trentd187/volleyball-club/internal/models"
)

const minPasswordLength = 8

// UserService handles accounts and logins.
type UserService struct {
	db     *gorm.DB
	tokens *auth.Tokens
}

func NewUserService(db *gorm.DB, tokens *auth.Tokens) *UserService {
	return &UserService{db: db, tokens: tokens}
}

// Credentials is a login or registration request.
type Credentials struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role,omitempty"` // Only honoured by CreateUser
}

// Session is what a successful login returns.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Register creates a PLAYER account. Any role in the request is ignored.
func (s *UserService) Register(ctx context.Context, c Credentials) (*models.User, error) {
	c.Role = models.UserRolePlayer
	return s.CreateUser(ctx, c)
}

// CreateUser creates an account with the requested role (PLAYER when empty).
func (s *UserService) CreateUser(ctx context.Context, c Credentials) (*models.User, error) {
	// Emails are stored lower-case so logins are case-insensitive
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.BadRequest("a valid email is required")
	}
	if len(c.Password) < minPasswordLength {
		return nil, apperr.BadRequest("password must be at least %d characters", minPasswordLength)
	}
	role := c.Role
	if role == "" {
		role = models.UserRolePlayer
	}
	if !role.Valid() {
		return nil, apperr.BadRequest("role must be ADMIN, COACH or PLAYER")
	}

	// Only the bcrypt hash is stored; the salt is part of the hash string
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrapf(err, "hash password")
	}

	user := models.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index on email is the real check; two signups can race past any read
		if isDuplicate(err) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, wrapf(err, "create user")
	}
	return &user, nil
}

// Login checks a password and issues a token.
func (s *UserService) Login(ctx context.Context, c Credentials) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapf(err, "load user")
	}
	// Unknown email and wrong password give the same answer so a login never reveals which emails exist
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)) != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, wrapf(err, "sign token")
	}
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return &user, nil
}
