package pricing

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
)

// ViolationDetail exposes the data returned to callers when an item fails a
// business-rule check.
type ViolationDetail struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Rule        string    `json:"rule"`
	Message     string    `json:"message"`
}

// ValidateItems runs the MOQ and stock checks across every line item and
// folds failures into a single state-conflict error with structured details.
// A nil result means the whole cart is orderable.
func ValidateItems(items []LineItem) error {
	var violations []ViolationDetail
	for _, item := range items {
		if res := ValidateMOQ(item); !res.Valid {
			violations = append(violations, ViolationDetail{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Rule:        "moq",
				Message:     res.Message,
			})
		}
		if res := ValidateStock(item); !res.Valid {
			violations = append(violations, ViolationDetail{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Rule:        "stock",
				Message:     res.Message,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("%d item(s) cannot be ordered", len(violations)),
	).WithDetails(map[string]any{
		"violations": violations,
	})
}
