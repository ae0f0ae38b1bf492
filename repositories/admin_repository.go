package repositories

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"godown-app/models"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) Create(admin models.Admin) (*models.Admin, error) {
	if err := r.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// AdminSummary is one row of the admin board: who they are, what they have
// collected, and the banks they record payments against.
type AdminSummary struct {
	ID             uint            `json:"id"`
	Username       string          `json:"username"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	Banks          []string        `json:"banks"`
}

func (r *AdminRepository) List() ([]AdminSummary, error) {
	var rows []AdminSummary

	sql := `SELECT a.id, a.username,
			COALESCE(SUM(p.amount_paid), 0) AS total_collected
		FROM admins a
		LEFT JOIN payments p ON p.admin_id = a.id
		GROUP BY a.id, a.username
		ORDER BY a.username`

	if err := r.db.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		banks, err := r.BanksFor(rows[i].Username)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(banks))
		for _, b := range banks {
			names = append(names, b.BankName)
		}
		rows[i].Banks = names
	}
	return rows, nil
}

// BanksFor lists the bank names an admin can record payments against.
func (r *AdminRepository) BanksFor(username string) ([]models.AdminBank, error) {
	var banks []models.AdminBank
	if err := r.db.Where("username = ?", username).
		Order("bank_name").Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *AdminRepository) AddBank(username, bankName string) (*models.AdminBank, error) {
	bank := models.AdminBank{Username: username, BankName: bankName}
	if err := r.db.Create(&bank).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *AdminRepository) RemoveBank(id uint) error {
	result := r.db.Delete(&models.AdminBank{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
