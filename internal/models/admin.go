package models

import "time"

// AdminAccount is a portal operator. Permissions map a section name
// ("users", "degrees", "content", "attendance") to the granted actions
// ("view", "edit", "delete").
type AdminAccount struct {
	Username     string              `bson:"_id" json:"username"`
	FullName     string              `bson:"fullName" json:"fullName"`
	PasswordHash string              `bson:"passwordHash" json:"-"`
	Permissions  map[string][]string `bson:"permissions" json:"permissions"`
	Active       bool                `bson:"active" json:"active"`
	CreatedAt    time.Time           `bson:"createdAt,omitempty" json:"created_at,omitempty"`
}

// HasPermission reports whether the account may perform action on section.
func (a AdminAccount) HasPermission(section, action string) bool {
	for _, granted := range a.Permissions[section] {
		if granted == action {
			return true
		}
	}
	return false
}
