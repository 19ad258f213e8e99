package model

import (
	"github.com/jjhbk/Devrang/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

// Operator is an astrologer account that signs in to the storefront
type Operator struct {
	model.BaseModel `bson:",inline"`
	Name            string `gorm:"not null" bson:"name" json:"name"`
	Email           string `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	Phone           string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address         string `bson:"address,omitempty" json:"address,omitempty"`
	PasswordHash    string `gorm:"column:password_hash;not null" bson:"passwordHash" json:"-"`
}

func (Operator) TableName() string {
	return "operators"
}

// SetPassword stores a bcrypt hash of plain
func (o *Operator) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	o.PasswordHash = string(hash)
	return nil
}

func (o *Operator) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(plain)) == nil
}
