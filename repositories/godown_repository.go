package repositories

import (
	"errors"

	"gorm.io/gorm"

	"godown-app/models"
)

type GodownRepository struct {
	db *gorm.DB
}

func NewGodownRepository(db *gorm.DB) *GodownRepository {
	return &GodownRepository{db: db}
}

// Create stores a godown under its normalized name. Two spellings of the
// same name collide here, not at the database constraint.
func (r *GodownRepository) Create(name string) (*models.Godown, error) {
	normalized := models.NormalizeName(name)

	var existing models.Godown
	err := r.db.Where("name = ?", normalized).First(&existing).Error
	if err == nil {
		return nil, ErrGodownExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	godown := models.Godown{Name: normalized}
	if err := r.db.Create(&godown).Error; err != nil {
		return nil, err
	}
	return &godown, nil
}

// GodownSummary is the list view: each godown with its live case totals.
type GodownSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	ProductCount int    `json:"product_count"`
	CurrentCases int    `json:"current_cases"`
	TakenCases   int    `json:"taken_cases"`
}

func (r *GodownRepository) List() ([]GodownSummary, error) {
	var rows []GodownSummary

	sql := `SELECT
			g.id, g.name,
			COUNT(s.id) AS product_count,
			COALESCE(SUM(s.current_cases), 0) AS current_cases,
			COALESCE(SUM(s.taken_cases), 0) AS taken_cases
		FROM godowns g
		LEFT JOIN stocks s ON s.godown_id = g.id
		GROUP BY g.id, g.name
		ORDER BY g.name`

	if err := r.db.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DisplayName = models.DisplayName(rows[i].Name)
	}
	return rows, nil
}

func (r *GodownRepository) GetByID(id uint) (*models.Godown, error) {
	var godown models.Godown
	if err := r.db.First(&godown, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &godown, nil
}

func (r *GodownRepository) GetByName(name string) (*models.Godown, error) {
	var godown models.Godown
	if err := r.db.Where("name = ?", models.NormalizeName(name)).First(&godown).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &godown, nil
}

// Delete removes a godown with its stock rows and their history.
func (r *GodownRepository) Delete(id uint) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var godown models.Godown
	if err := tx.First(&godown, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := tx.Where("stock_id IN (SELECT id FROM stocks WHERE godown_id = ?)", id).
		Delete(&models.StockHistory{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("godown_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Godown{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *GodownRepository) Rename(id uint, name string) (*models.Godown, error) {
	normalized := models.NormalizeName(name)

	var clash models.Godown
	err := r.db.Where("name = ? AND id <> ?", normalized, id).First(&clash).Error
	if err == nil {
		return nil, ErrGodownExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	godown, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	godown.Name = normalized
	if err := r.db.Save(godown).Error; err != nil {
		return nil, err
	}
	return godown, nil
}
