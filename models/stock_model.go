package models

import "time"

const (
	StockActionAdded = "added"
	StockActionTaken = "taken"
)

// Stock is the authoritative case count for one product in one godown.
// current_cases never goes negative; every mutation happens under a row
// lock inside the owning transaction and leaves a StockHistory row behind.
type Stock struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	GodownID      uint       `gorm:"not null;uniqueIndex:idx_stock_natural_key" json:"godown_id"`
	ProductType   string     `gorm:"size:100;not null;uniqueIndex:idx_stock_natural_key" json:"product_type"`
	ProductName   string     `gorm:"column:productname;size:255;not null;uniqueIndex:idx_stock_natural_key" json:"productname"`
	Brand         string     `gorm:"size:100;not null;uniqueIndex:idx_stock_natural_key" json:"brand"`
	CurrentCases  int        `gorm:"not null;default:0" json:"current_cases"`
	PerCase       int        `gorm:"not null" json:"per_case"`
	TakenCases    int        `gorm:"default:0" json:"taken_cases"`
	DateAdded     time.Time  `gorm:"autoCreateTime" json:"date_added"`
	LastTakenDate *time.Time `json:"last_taken_date"`

	Godown  Godown         `gorm:"foreignKey:GodownID" json:"-"`
	History []StockHistory `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"-"`
}

// StockHistory is append-only. Rows are never updated; they only disappear
// when their parent stock row is deleted.
type StockHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StockID      uint      `gorm:"index;not null" json:"stock_id"`
	Action       string    `gorm:"size:10;not null" json:"action"`
	Cases        int       `gorm:"not null" json:"cases"`
	PerCaseTotal int       `gorm:"not null" json:"per_case_total"`
	Date         time.Time `gorm:"autoCreateTime" json:"date"`
	CustomerName string    `gorm:"size:255" json:"customer_name"`
	AddedBy      string    `gorm:"size:255" json:"added_by"`
	TakenBy      string    `gorm:"size:255" json:"taken_by"`
}

func (StockHistory) TableName() string {
	return "stock_history"
}
