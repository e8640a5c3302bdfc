package domain

// Profile 当前登录用户（后端登录接口返回）
type Profile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Merge 局部覆盖：非零字段替换
func (p Profile) Merge(in Profile) Profile {
	if in.ID != 0 {
		p.ID = in.ID
	}
	if in.Email != "" {
		p.Email = in.Email
	}
	if in.FullName != "" {
		p.FullName = in.FullName
	}
	if in.Role != "" {
		p.Role = in.Role
	}
	return p
}

func (p Profile) IsAdmin() bool { return HasRole(&p, RoleAdmin) }

// AdminUser 用户管理列表行
type AdminUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsLocked bool   `json:"isLocked"`
}

func (u AdminUser) Key() int64 { return u.ID }

type UserUpdateRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
