package queries

import (
	"context"

	"orderops/internal/core/ports"
)

const ContentTypeCSV = "text/csv; charset=utf-8"

// ExportTabularQueryHandler builds the tabular export.
//
// Example:
//
//	handler := NewExportTabularQueryHandler(orderRepo, csvexport.NewRenderer(), clock, 500)
//	query, _ := NewExportTabularQuery(ids)
//	resp, err := handler.Handle(ctx, query)
//	switch {
//	case errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrNoValidOrders):
//	    // nothing was generated
//	case err == nil:
//	    // resp.Body is the CSV, resp.Warnings the skipped ids
//	}
type ExportTabularQueryHandler struct {
	exporter exporter
}

func NewExportTabularQueryHandler(
	reader OrderReader,
	renderer ports.OrderRenderer,
	clock ports.Clock,
	maxBatch int,
) ExportTabularQueryHandler {
	return ExportTabularQueryHandler{
		exporter: exporter{
			reader:      reader,
			renderer:    renderer,
			clock:       clock,
			maxBatch:    maxBatch,
			contentType: ContentTypeCSV,
			filePrefix:  "orders",
			fileExt:     "csv",
		},
	}
}

// Handle fails with ErrBatchTooLarge before reading anything when the
// selection exceeds the batch cap, and with ErrNoValidOrders when none of
// the ids exist. Unknown ids are otherwise skipped with a warning.
func (h ExportTabularQueryHandler) Handle(ctx context.Context, query ExportTabularQuery) (ExportResponse, error) {
	if err := query.Validate(); err != nil {
		return ExportResponse{}, err
	}
	return h.exporter.export(ctx, query.IDs())
}
