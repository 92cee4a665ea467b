package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *Supermarket) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
