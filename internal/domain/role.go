package domain

import "strings"

type Role string

const (
	RoleUnknown Role = ""
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
)

// ParseRole 大小写/空白归一（"Admin"、" ADMIN " → admin），未知值返回 RoleUnknown
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	default:
		return RoleUnknown
	}
}

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// Is 归一后比较；RoleUnknown 永不匹配
func (r Role) Is(other Role) bool {
	a, b := ParseRole(string(r)), ParseRole(string(other))
	return a != RoleUnknown && a == b
}

func (r Role) String() string { return string(r) }

// HasRole 唯一的角色判定入口（所有网关都走这里）
func HasRole(p *Profile, allowed ...Role) bool {
	if p == nil {
		return false
	}
	for _, a := range allowed {
		if ParseRole(p.Role).Is(a) {
			return true
		}
	}
	return false
}
