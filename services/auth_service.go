package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (string, *models.Login, error)
}

type authService struct {
	memberRepo repositories.MemberRepository
	jwtSecret  string
}

func NewAuthService(memberRepo repositories.MemberRepository, jwtSecret string) AuthService {
	return &authService{
		memberRepo: memberRepo,
		jwtSecret:  jwtSecret,
	}
}

// Login проверяет пароль против хеша из директории и выдаёт подписанный
// HS256-токен. Несуществующий член и неверный пароль неразличимы для клиента.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (string, *models.Login, error) {
	login, err := s.memberRepo.GetLogin(ctx, creds.MemberID)
	if err != nil {
		if errors.Is(err, repositories.ErrLoginNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find login: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte(creds.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"member_id": login.MemberID,
		"role":      string(login.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	login.PasswordHash = ""
	return signed, login, nil
}
