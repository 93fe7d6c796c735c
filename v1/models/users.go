package models

// User represents a registered portal user (applicant or reviewer)
type User struct {
	ID           uint   `gorm:"primarykey;column:id" json:"id"`
	FullName     string `gorm:"column:full_name;not null" json:"fullName"`
	Email        string `gorm:"column:email;not null;unique" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	PasswordSalt string `gorm:"column:password_salt;not null" json:"-"`
	BaseModel
}

// TableName sets the table name for GORM
func (User) TableName() string {
	return "users"
}
