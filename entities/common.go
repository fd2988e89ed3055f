package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp;not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updated_at"`
}

// ensureID assigns a fresh UUID when none was set by the caller.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i *Instruction) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (r *Rating) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (f *Favorite) BeforeCreate(_ *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
