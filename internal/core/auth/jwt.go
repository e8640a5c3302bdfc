package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recloop-admin/internal/domain"
)

// 后端（ASP.NET）常见的长 claim 名
const (
	claimRoleURI  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	claimEmailURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	claimNameURI  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	claimIDURI    = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
)

var ErrMalformedToken = errors.New("malformed token")

// TokenInfo 从 bearer token 中读出的信息（未验签，仅用于展示/补全资料）
type TokenInfo struct {
	UserID    int64
	Email     string
	FullName  string
	Role      string
	ExpiresAt time.Time
}

// Inspect 解析 JWT 载荷但不校验签名；签名由后端负责
func Inspect(token string) (*TokenInfo, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrMalformedToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}

	info := &TokenInfo{
		Email:    first(claims, "email", claimEmailURI),
		FullName: first(claims, "fullName", "name", "unique_name", claimNameURI),
		Role:     first(claims, "role", "roles", claimRoleURI),
	}
	if id := first(claims, "uid", "id", "nameid", claimIDURI, "sub"); id != "" {
		info.UserID, _ = strconv.ParseInt(id, 10, 64)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// Expired 没有 exp 的 token 视为不过期
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// Profile 用 token 信息补全登录资料；fallbackEmail 用于 token 中无邮箱时
func (t *TokenInfo) Profile(fallbackEmail string) domain.Profile {
	p := domain.Profile{ID: t.UserID, Email: t.Email, FullName: t.FullName, Role: t.Role}
	if p.Email == "" {
		p.Email = fallbackEmail
	}
	if p.FullName == "" {
		if at := strings.IndexByte(p.Email, '@'); at > 0 {
			p.FullName = p.Email[:at]
		}
	}
	return p
}

func first(c jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := c[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case []any:
			// 多角色时取第一个
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}
