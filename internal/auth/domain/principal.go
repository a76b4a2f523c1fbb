package domain

import userdomain "connect4-backend/internal/user/domain"

// Principal is the authenticated caller carried by a request or socket.
type Principal struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (p *Principal) HasRole(role userdomain.Role) bool {
	for _, r := range p.Roles {
		if userdomain.Role(r) == role {
			return true
		}
	}
	return false
}

// Privileged reports whether p may bypass friendship checks.
func (p *Principal) Privileged() bool {
	return p.HasRole(userdomain.RoleAdmin) || p.HasRole(userdomain.RoleModerator)
}
