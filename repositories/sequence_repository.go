package repositories

import (
	"gorm.io/gorm"

	"godown-app/models"
)

type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// NextNumber allocates the next value of a named counter inside the caller's
// transaction. The increment and the read-back happen in one statement, so
// concurrent callers serialize on the counter row itself and can never see
// the same value. A rolled-back enclosing transaction burns its number;
// uniqueness is the invariant here, not contiguity.
func (r *SequenceRepository) NextNumber(tx *gorm.DB, counterName string) (int64, error) {
	var next int64

	result := tx.Raw(`
		UPDATE sequence_counters
		SET current_value = current_value + 1
		WHERE counter_name = ?
		RETURNING current_value`, counterName).Scan(&next)

	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		// First allocation ever for this counter.
		counter := models.SequenceCounter{CounterName: counterName, CurrentValue: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	return next, nil
}

// NextBillChallanNumber is the shared counter behind BILL-<n> and DC-<n>.
func (r *SequenceRepository) NextBillChallanNumber(tx *gorm.DB) (int64, error) {
	return r.NextNumber(tx, models.BillChallanCounter)
}
