package queries

import (
	"context"

	"orderops/internal/core/ports"
)

const ContentTypePDF = "application/pdf"

// ExportPackingDocumentsQueryHandler builds the printable packing slips.
// It shares the batch cap and the skip-with-warning policy of the tabular
// export.
type ExportPackingDocumentsQueryHandler struct {
	exporter exporter
}

func NewExportPackingDocumentsQueryHandler(
	reader OrderReader,
	renderer ports.OrderRenderer,
	clock ports.Clock,
	maxBatch int,
) ExportPackingDocumentsQueryHandler {
	return ExportPackingDocumentsQueryHandler{
		exporter: exporter{
			reader:      reader,
			renderer:    renderer,
			clock:       clock,
			maxBatch:    maxBatch,
			contentType: ContentTypePDF,
			filePrefix:  "packing-slips",
			fileExt:     "pdf",
		},
	}
}

func (h ExportPackingDocumentsQueryHandler) Handle(
	ctx context.Context,
	query ExportPackingDocumentsQuery,
) (ExportResponse, error) {
	if err := query.Validate(); err != nil {
		return ExportResponse{}, err
	}
	return h.exporter.export(ctx, query.IDs())
}
