package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ChallanItem is the line shape stored on a delivery challan. No pricing:
// the challan only reserves stock, rates are resolved from the product
// master when the challan is read or converted.
type ChallanItem struct {
	StockID     uint   `json:"id"`
	ProductName string `json:"productname"`
	Brand       string `json:"brand"`
	Cases       int    `json:"cases"`
	PerCase     int    `json:"per_case"`
	Godown      string `json:"godown"`
	ProductType string `json:"product_type"`
}

type ChallanItems []ChallanItem

func (c ChallanItems) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ChallanItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("cannot convert %T to ChallanItems", value)
	}
}

// DeliveryChallan deducts stock at creation time and can be promoted into a
// booking exactly once; converted_to_bill is a one-way flag.
type DeliveryChallan struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	ChallanNumber   string       `gorm:"size:50;uniqueIndex;not null" json:"challan_number"`
	CustomerName    string       `gorm:"size:255;not null" json:"customer_name"`
	Address         string       `gorm:"size:500" json:"address"`
	GSTIN           string       `gorm:"size:20" json:"gstin"`
	LRNumber        string       `gorm:"size:50" json:"lr_number"`
	FromLocation    string       `gorm:"column:from_location;size:100" json:"from"`
	ToLocation      string       `gorm:"column:to_location;size:100" json:"to"`
	Through         string       `gorm:"size:100" json:"through"`
	Items           ChallanItems `gorm:"type:jsonb" json:"items"`
	ConvertedToBill bool         `gorm:"default:false" json:"converted_to_bill"`
	CreatedBy       string       `gorm:"size:100" json:"created_by"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (DeliveryChallan) TableName() string {
	return "delivery"
}
