package jwt

import (
	"time"

	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	// GenerateAccessToken encodes the identity context into a session
	// token: employee id, role, manager flag and managed employee ids,
	// everything scope resolution needs without another upstream call.
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	UserFromClaims(claims map[string]interface{}) user.User
}

type JWTService struct {
	secretKey           string
	accessExpirationTTL string
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessExpiration string) Service {
	return &JWTService{
		secretKey:           secretKey,
		accessExpirationTTL: accessExpiration,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(u user.User) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.accessExpirationTTL)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	managed := make([]interface{}, 0, len(u.ManagedEmployees))
	for _, id := range u.ManagedEmployees {
		managed = append(managed, id)
	}

	claims := map[string]interface{}{
		"employee_id":       u.EmployeeID,
		"username":          u.Username,
		"name":              u.Name,
		"email":             u.Email,
		"role":              u.RoleName(),
		"is_manager":        u.IsManager,
		"managed_employees": managed,
		"type":              "access",
		"exp":               expiresAt,
	}
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// UserFromClaims rebuilds the identity context from a verified token.
// JSON numbers decode as float64, hence the conversions.
func (j *JWTService) UserFromClaims(claims map[string]interface{}) user.User {
	u := user.User{
		EmployeeID: claimInt(claims["employee_id"]),
		Username:   claimString(claims["username"]),
		Name:       claimString(claims["name"]),
		Email:      claimString(claims["email"]),
		IsManager:  claimBool(claims["is_manager"]),
	}
	if role := claimString(claims["role"]); role != "" {
		u.Roles = []string{role}
	}
	if ids, ok := claims["managed_employees"].([]interface{}); ok {
		for _, id := range ids {
			u.ManagedEmployees = append(u.ManagedEmployees, claimInt(id))
		}
	}
	return u
}

func claimInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func claimString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func claimBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
