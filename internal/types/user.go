package types

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

type User struct {
	ID             int    `gorm:"column:id;primaryKey" json:"id"`
	Username       string `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email          string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"column:hashed_password;not null" json:"-"`
	Role           string `gorm:"column:role;not null;default:'USER'" json:"role"`
	ClientID       int    `gorm:"column:client_id;not null" json:"clientId"`
}

func (User) TableName() string { return "user" }
