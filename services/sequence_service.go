// services/sequence_service.go
package services

import (
	"fmt"

	"fieldpro-backend/models"

	"gorm.io/gorm"
)

// Sequence categories. Fixed namespaces, provisioned before first use.
const (
	SeqInstallation = "installation"
	SeqService      = "service"
	SeqRepair       = "repair"
	SeqInvoice      = "invoice"
	SeqQR           = "qr"
)

var allSequenceCategories = []string{SeqInstallation, SeqService, SeqRepair, SeqInvoice, SeqQR}

// ProvisionSequences creates the fixed counter rows at startup. Existing
// counters keep their value.
func ProvisionSequences(db *gorm.DB) error {
	for _, category := range allSequenceCategories {
		counter := models.SequenceCounter{Category: category}
		if err := db.Where("category = ?", category).FirstOrCreate(&counter).Error; err != nil {
			return fmt.Errorf("failed to provision sequence %q: %w", category, err)
		}
	}
	return nil
}

// NextSequence atomically increments the counter for a category and returns
// the new value. The single UPDATE ... RETURNING statement serializes the
// read-increment-write cycle at the storage layer, so concurrent callers for
// the same category always observe distinct, strictly increasing values.
// Callers inside a transaction must pass their tx so the increment commits
// or rolls back with the rest of the cascade.
func NextSequence(tx *gorm.DB, category string) (int64, error) {
	var value int64
	result := tx.Raw(
		`UPDATE sequence_counters SET value = value + 1 WHERE category = ? RETURNING value`,
		category,
	).Scan(&value)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to increment sequence %q: %w", category, result.Error)
	}
	if result.RowsAffected == 0 {
		// Categories are provisioned at startup; a miss is a configuration
		// error, not a caller error.
		return 0, fmt.Errorf("sequence category %q is not provisioned", category)
	}
	return value, nil
}

// SequenceCategoryFor maps a work-order type to its code namespace.
// Exhaustive over the closed type enumeration.
func SequenceCategoryFor(t models.WorkOrderType) (string, error) {
	switch t {
	case models.TypeInstallation:
		return SeqInstallation, nil
	case models.TypeService:
		return SeqService, nil
	case models.TypeRepair:
		return SeqRepair, nil
	default:
		return "", validationf("unknown work order type %q", t)
	}
}
