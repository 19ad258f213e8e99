package model

import (
	"github.com/jjhbk/Devrang/pkg/model"
)

// Customer belongs to the operator whose email is OperatorEmail
type Customer struct {
	model.BaseModel `bson:",inline"`
	OperatorEmail   string `gorm:"index;not null" bson:"operatorEmail" json:"operatorEmail"`
	Name            string `gorm:"not null" bson:"name" json:"name"`
	Phone           string `gorm:"index;not null" bson:"phone" json:"phone"`
	Email           string `bson:"email,omitempty" json:"email,omitempty"`
	ShippingAddress string `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	DOB             string `gorm:"column:dob" bson:"dob,omitempty" json:"dob,omitempty"` // YYYY-MM-DD
	Gotra           string `bson:"gotra,omitempty" json:"gotra,omitempty"`
	Rating          int    `bson:"rating,omitempty" json:"rating,omitempty"` // 0 unset, 1..5
	Comments        string `bson:"comments,omitempty" json:"comments,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
