package models

import "strings"

type Godown struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Stocks []Stock `gorm:"foreignKey:GodownID;constraint:OnDelete:CASCADE" json:"stocks,omitempty"`
}

// NormalizeName is how godown and brand names are stored: lower case with
// underscores instead of whitespace, so "Main Godown" and "main  godown"
// collapse to the same row.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "_")
}

// DisplayName reverses NormalizeName for human-facing annotations.
func DisplayName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}
