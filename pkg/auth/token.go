package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what the rest of the service knows about the caller.
type Identity struct {
	UserID uint
	Role   Role
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(id Identity) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(id.UserID), 10),
		"role": id.Role.String(),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Parse accepts a raw token or an Authorization header value with the
// Bearer scheme.
func (i *Issuer) Parse(authHeader string) (Identity, error) {
	tokenStr := strings.TrimSpace(authHeader)
	if strings.HasPrefix(strings.ToLower(tokenStr), "bearer ") {
		tokenStr = strings.TrimSpace(tokenStr[7:])
	}
	if tokenStr == "" {
		return Identity{}, errors.New("missing token")
	}

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return Identity{}, err
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}
	sub, err := mc.GetSubject()
	if err != nil {
		return Identity{}, err
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject %q", sub)
	}
	roleName, _ := mc["role"].(string)
	role, ok := ParseRole(roleName)
	if !ok {
		return Identity{}, fmt.Errorf("invalid role %q", roleName)
	}
	return Identity{UserID: uint(userID), Role: role}, nil
}
