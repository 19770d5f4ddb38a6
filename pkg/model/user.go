package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UUID         uuid.UUID `gorm:"type:uuid"`
	Username     string    `gorm:"size:150;uniqueIndex"`
	Email        string    `gorm:"size:254;uniqueIndex"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	PasswordHash string    `gorm:"size:150"`
}

// Follow is a (user, author) edge in the subscription graph. Self-follows
// are rejected before the write and by the check constraint.
type Follow struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"uniqueIndex:idx_follow_user_author;check:no_self_follow,user_id <> author_id"`
	AuthorID  uint `gorm:"uniqueIndex:idx_follow_user_author"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID"`
	Author User `gorm:"foreignKey:AuthorID"`
}
