package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"NProject/module/user/model"
	"NProject/module/user/store"
	"NProject/tools/errs"
	"NProject/tools/security"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// bcryptCost matches what existing password hashes were minted with.
const bcryptCost = 10

// Service owns account lifecycle and token issuance. It also resolves
// bearer tokens for the websocket gateway and the HTTP auth middleware.
type Service struct {
	users *store.Repo
	jwt   security.Options
}

func NewService(users *store.Repo, jwt security.Options) *Service {
	return &Service{users: users, jwt: jwt}
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session is what register/login hand back to the client.
type Session struct {
	User    *model.Identity `json:"user"`
	Token   string          `json:"token"`
	Expires time.Time       `json:"expires"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !emailPattern.MatchString(in.Email) {
		return nil, errs.ErrBadPayload.WithDetail("invalid email address")
	}
	if len(in.Password) < 6 {
		return nil, errs.ErrBadPayload.WithDetail("password too short")
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	if existing != nil {
		return nil, errs.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}

	u := &model.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Password:  string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost the race against a concurrent register on the unique index.
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.ErrUserExists
		}
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	return s.newSession(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	// Same rejection whether the account is missing or the password is
	// wrong, so login cannot be used to probe for accounts.
	if u == nil {
		return nil, errs.ErrBadLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, errs.ErrBadLogin
	}
	return s.newSession(u)
}

// Resolve implements token resolution for the gateway: every failure mode
// collapses to the same unauthenticated error.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := security.Verify(s.jwt, token)
	if err != nil {
		return nil, errs.ErrTokenInvalid.WithDetail(err.Error())
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	if u == nil {
		return nil, errs.ErrTokenInvalid
	}
	return u.Identity(), nil
}

func (s *Service) newSession(u *model.User) (*Session, error) {
	token, exp, err := security.Generate(s.jwt, u.ID.Hex(), u.Email)
	if err != nil {
		return nil, errs.ErrPersistence.WithDetail(err.Error())
	}
	return &Session{User: u.Identity(), Token: token, Expires: exp}, nil
}
