package models

// User represents a registered account. The email is the identity used as
// the foreign key on trades.
type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"password_hash,omitempty"`
	FullName     string `json:"full_name,omitempty"`
}

// TableName keeps the table name aligned with the hosted schema.
func (User) TableName() string {
	return "users"
}
