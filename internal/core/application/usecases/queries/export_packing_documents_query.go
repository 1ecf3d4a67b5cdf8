package queries

import (
	"errors"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/pkg/guard"
)

var ErrExportPackingDocumentsQueryIsNotConstructed = errors.New(
	"ExportPackingDocumentsQuery must be created via NewExportPackingDocumentsQuery constructor",
)

// ExportPackingDocumentsQuery requests one packing document section per order.
type ExportPackingDocumentsQuery struct {
	ids   []kernel.OrderID
	guard guard.ConstructorGuard
}

func NewExportPackingDocumentsQuery(ids []kernel.OrderID) (ExportPackingDocumentsQuery, error) {
	selection, err := kernel.NewSelection(ids)
	if err != nil {
		return ExportPackingDocumentsQuery{}, err
	}
	return ExportPackingDocumentsQuery{ids: selection, guard: guard.NewConstructorGuard()}, nil
}

func (q ExportPackingDocumentsQuery) IDs() []kernel.OrderID {
	return q.ids
}

func (q ExportPackingDocumentsQuery) Validate() error {
	return q.guard.Validate(ErrExportPackingDocumentsQueryIsNotConstructed)
}
