package models

import "github.com/shopspring/decimal"

// Product is the price/packing master. One table with product_type as a
// plain column; the old scheme of one dynamically created table per product
// type is gone, which also removes the string-built identifiers it needed.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductType string          `gorm:"size:100;not null;uniqueIndex:idx_product_natural_key" json:"product_type"`
	ProductName string          `gorm:"column:productname;size:255;not null;uniqueIndex:idx_product_natural_key" json:"productname"`
	Brand       string          `gorm:"size:100;not null;uniqueIndex:idx_product_natural_key" json:"brand"`
	HSNCode     string          `gorm:"size:20" json:"hsn_code"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	PerCase     int             `gorm:"not null" json:"per_case"`
}

type Brand struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	AgentName string `gorm:"size:100" json:"agent_name"`
}
