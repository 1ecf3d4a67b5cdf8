package queries

import (
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/pkg/guard"
)

var ErrExportTabularQueryIsNotConstructed = errors.New(
	"ExportTabularQuery must be created via NewExportTabularQuery constructor",
)

// ExportTabularQuery requests one CSV row per order, in the order the ids
// were supplied.
type ExportTabularQuery struct {
	ids   []kernel.OrderID
	guard guard.ConstructorGuard
}

// NewExportTabularQuery rejects an empty selection and drops duplicate ids.
func NewExportTabularQuery(ids []kernel.OrderID) (ExportTabularQuery, error) {
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return ExportTabularQuery{}, err
	}
	return ExportTabularQuery{ids: selection, guard: guard.NewConstructorGuard()}, nil
}

func (q ExportTabularQuery) IDs() []kernel.OrderID {
	return q.ids
}

func (q ExportTabularQuery) Validate() error {
	return q.guard.Validate(ErrExportTabularQueryIsNotConstructed)
}
