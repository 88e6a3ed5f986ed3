package model

type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

type User struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	Address      string `json:"address" db:"address"`
	Age          int    `json:"age" db:"age"`
	Role         Role   `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// UserFilter mirrors the admin users table filters. AgeRange is one of
// "0-18", "19-30", "31-50" or "51+".
type UserFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=patient admin"`
	AgeRange string `form:"age" binding:"omitempty,oneof=0-18 19-30 31-50 51+"`
}

// AgeBounds maps AgeRange onto inclusive bounds; hi < 0 means open.
func (f UserFilter) AgeBounds() (lo, hi int, ok bool) {
	switch f.AgeRange {
	case "0-18":
		return 0, 18, true
	case "19-30":
		return 19, 30, true
	case "31-50":
		return 31, 50, true
	case "51+":
		return 51, -1, true
	}
	return 0, 0, false
}

type UpdateUserRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=3"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,phone"`
	Address *string `json:"address" binding:"omitempty,min=5"`
	Age     *int    `json:"age" binding:"omitempty,min=1"`
	Role    *Role   `json:"role" binding:"omitempty,oneof=patient admin"`
}
