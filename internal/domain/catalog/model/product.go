package model

import (
	"github.com/jjhbk/Devrang/pkg/model"

	"github.com/shopspring/decimal"
)

// Product is a catalog gemstone. Only administrators mutate it.
type Product struct {
	model.BaseModel `bson:",inline"`
	Name            string          `gorm:"not null" bson:"name" json:"name"`
	Type            string          `bson:"type" json:"type"`
	Category        string          `gorm:"index" bson:"category" json:"category"`
	Brand           string          `gorm:"index" bson:"brand" json:"brand"`
	Use             string          `bson:"use" json:"use"`
	Size            string          `bson:"size" json:"size"`
	Description     string          `bson:"description" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" bson:"price" json:"price"`
	ImageURL        string          `bson:"imageUrl" json:"imageUrl"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter narrows List. Query is a case-insensitive substring of the name.
type ProductFilter struct {
	Query    string
	Category string
	Brand    string
}
