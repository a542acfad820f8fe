package model

import "github.com/shopspring/decimal"

const TableNameMeal = "meals"

// Meal mapped from table <meals>
type Meal struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Meal       string          `gorm:"column:meal;not null" json:"meal"`
	Cuisine    string          `gorm:"column:cuisine;not null" json:"cuisine"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Difficulty string          `gorm:"column:difficulty;not null" json:"difficulty"`
	Battles    int64           `gorm:"column:battles;not null;default:0" json:"battles"`
	Wins       int64           `gorm:"column:wins;not null;default:0" json:"wins"`
	Deleted    bool            `gorm:"column:deleted;not null;default:false" json:"deleted"`
}

// TableName Meal's table name
func (*Meal) TableName() string {
	return TableNameMeal
}
