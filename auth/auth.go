// Package auth owns password hashing and the token capability consumed by the
// HTTP layer: issue a signed token for a principal, verify one back into a
// principal. Invalid or expired tokens verify to nil, never to an error the
// caller has to branch on.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"groupbuy-service/models"
)

const (
	staffTokenTTL    = 8 * time.Hour
	customerTokenTTL = 30 * 24 * time.Hour
)

// Principal identifies an authenticated caller. Exactly two kinds exist:
// Staff (admin or operator, from the users table) and Customer (from the
// customers table).
type Principal interface {
	Role() string
	tokenClaims(now time.Time) jwt.MapClaims
}

type Staff struct {
	ID       int
	Username string
	UserRole string // models.RoleAdmin or models.RoleOperator
}

func (s Staff) Role() string { return s.UserRole }

func (s Staff) tokenClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":       s.ID,
		"username": s.Username,
		"role":     s.UserRole,
		"iat":      now.Unix(),
		"exp":      now.Add(staffTokenTTL).Unix(),
	}
}

type Customer struct {
	ID       int
	MemberID string
	Email    string
}

func (c Customer) Role() string { return models.RoleCustomer }

func (c Customer) tokenClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"id":        c.ID,
		"member_id": c.MemberID,
		"email":     c.Email,
		"role":      models.RoleCustomer,
		"iat":       now.Unix(),
		"exp":       now.Add(customerTokenTTL).Unix(),
	}
}

type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the principal's safe, non-sensitive fields.
// Customer tokens live 30 days, staff tokens 8 hours.
func (t *TokenService) Issue(p Principal) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, p.tokenClaims(time.Now()))
	return token.SignedString(t.secret)
}

// Verify parses and validates a token. It returns nil for anything invalid:
// bad signature, expiry, malformed claims.
func (t *TokenService) Verify(tokenString string) Principal {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return nil
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil
	}

	switch role {
	case models.RoleAdmin, models.RoleOperator:
		username, ok := claims["username"].(string)
		if !ok {
			return nil
		}
		return Staff{ID: int(id), Username: username, UserRole: role}
	case models.RoleCustomer:
		memberID, ok := claims["member_id"].(string)
		if !ok {
			return nil
		}
		email, _ := claims["email"].(string)
		return Customer{ID: int(id), MemberID: memberID, Email: email}
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
