package jwt

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	ClaimUserID     = "sub"
	ClaimEmployeeID = "employee_id"
	ClaimRole       = "role"
	ClaimType       = "type"

	tokenTypeAccess = "access"
)

type Service interface {
	GenerateAccessToken(subject user.Subject) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken issues a signed token carrying the subject's identity and role.
// Identity itself is established upstream; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(subject user.Subject) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		ClaimUserID:     subject.UserID,
		ClaimEmployeeID: subject.EmployeeID,
		ClaimRole:       string(subject.Role),
		ClaimType:       tokenTypeAccess,
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// SubjectFromClaims rebuilds a subject from verified token claims.
func SubjectFromClaims(claims map[string]interface{}) (user.Subject, error) {
	if t, _ := claims[ClaimType].(string); t != tokenTypeAccess {
		return user.Subject{}, user.ErrMissingSubject
	}
	userID, _ := claims[ClaimUserID].(string)
	if userID == "" {
		return user.Subject{}, user.ErrMissingSubject
	}
	roleStr, _ := claims[ClaimRole].(string)
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Subject{}, user.ErrInvalidRoleClaims
	}
	employeeID, _ := claims[ClaimEmployeeID].(string)

	return user.Subject{UserID: userID, EmployeeID: employeeID, Role: role}, nil
}
