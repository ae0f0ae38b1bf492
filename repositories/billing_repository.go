package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"godown-app/config"
	"godown-app/models"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// CompanyPrefix derives the bill prefix from the company name: first letter
// of each word, so "NISHA TRADERS" numbers its bills NT-001, NT-002 and on.
func CompanyPrefix(companyName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(companyName) {
		b.WriteByte(word[0])
	}
	return strings.ToUpper(b.String())
}

// NextBillNo previews the next manual bill number for the configured
// company. Manual numbers are not gap-free; the desk can also type its own.
func (r *BillingRepository) NextBillNo() (string, error) {
	prefix := CompanyPrefix(config.CompanyName)

	var max int
	sql := `SELECT COALESCE(MAX(CAST(SUBSTRING(bill_no FROM '[0-9]+$') AS INTEGER)), 0)
		FROM billings
		WHERE bill_no LIKE ?`
	if err := r.db.Raw(sql, prefix+"-%").Scan(&max).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%03d", prefix, max+1), nil
}

func (r *BillingRepository) Exists(billNo string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Billing{}).
		Where("bill_no = ?", billNo).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create stores a manual billing. A blank bill number gets the next one for
// the company prefix; an explicit duplicate is rejected before insert.
func (r *BillingRepository) Create(billing models.Billing) (*models.Billing, error) {
	if billing.BillNo == "" {
		next, err := r.NextBillNo()
		if err != nil {
			return nil, err
		}
		billing.BillNo = next
	} else {
		exists, err := r.Exists(billing.BillNo)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateBillNo
		}
	}

	if billing.CompanyName == "" {
		billing.CompanyName = config.CompanyName
	}
	if billing.Type == "" {
		billing.Type = models.BillTypeTax
	}

	if err := r.db.Create(&billing).Error; err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *BillingRepository) List(billType string) ([]models.Billing, error) {
	var billings []models.Billing
	q := r.db.Order("created_at DESC")
	if billType != "" {
		q = q.Where("type = ?", billType)
	}
	if err := q.Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *BillingRepository) GetByID(id uint) (*models.Billing, error) {
	var billing models.Billing
	if err := r.db.First(&billing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &billing, nil
}

func (r *BillingRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Billing{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BillingCustomer feeds the billing desk autocomplete from past bills.
type BillingCustomer struct {
	CustomerName      string `json:"customer_name"`
	CustomerAddress   string `json:"customer_address"`
	CustomerGSTIN     string `json:"customer_gstin"`
	CustomerPlace     string `json:"customer_place"`
	CustomerStateCode string `json:"customer_state_code"`
}

func (r *BillingRepository) RecentCustomers(term string) ([]BillingCustomer, error) {
	var rows []BillingCustomer
	pattern := "%" + strings.ToLower(term) + "%"

	sql := `SELECT DISTINCT ON (LOWER(customer_name))
			customer_name, customer_address, customer_gstin,
			customer_place, customer_state_code
		FROM billings
		WHERE LOWER(customer_name) LIKE ?
		ORDER BY LOWER(customer_name), created_at DESC
		LIMIT 20`

	if err := r.db.Raw(sql, pattern).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BillingRepository) StateCodes() ([]models.StateCode, error) {
	var states []models.StateCode
	if err := r.db.Order("code").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}
