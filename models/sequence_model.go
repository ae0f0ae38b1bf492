package models

// BillChallanCounter is the shared counter behind BILL-<n> and DC-<n>
// numbers. One counter for both so a converted challan can keep its digits.
const BillChallanCounter = "bill_challan_sequence"

type SequenceCounter struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CounterName  string `gorm:"size:100;uniqueIndex;not null" json:"counter_name"`
	CurrentValue int64  `gorm:"not null;default:0" json:"current_value"`
}
