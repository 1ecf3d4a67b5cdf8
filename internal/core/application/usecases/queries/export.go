// Package queries contains read-only operations. The Export Generator lives
// here: it turns a selection of order ids into a tabular export or a set of
// packing documents without writing anything.
package queries

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"orderops/internal/core/domain/model/kernel"
	"orderops/internal/core/domain/model/order"
	"orderops/internal/core/ports"
	"orderops/internal/pkg/errs"
)

// DefaultMaxExportBatch is the largest selection an export accepts.
const DefaultMaxExportBatch = 500

var (
	ErrBatchTooLarge = errors.New("batch too large")
	ErrNoValidOrders = errors.New("no valid orders")
)

// OrderReader loads the orders of a selection.
type OrderReader interface {
	GetMany(ctx context.Context, ids []kernel.OrderID) ([]*order.Order, []ports.UnreadableOrder, error)
}

// ExportResponse is a generated export document.
type ExportResponse struct {
	ContentType string
	Filename    string
	Body        []byte
	// Orders is the number of orders written, after skipping unknown ids.
	Orders int
	// Warnings lists the ids that were skipped.
	Warnings []string
}

type exporter struct {
	reader      OrderReader
	renderer    ports.OrderRenderer
	clock       ports.Clock
	maxBatch    int
	contentType string
	filePrefix  string
	fileExt     string
}

func (e exporter) export(ctx context.Context, ids []kernel.OrderID) (ExportResponse, error) {
	maxBatch := e.maxBatch
	if maxBatch <= 0 {
		maxBatch = DefaultMaxExportBatch
	}
	if len(ids) > maxBatch {
		return ExportResponse{}, errs.NewValueIsOutOfRangeErrorWithCause("ids", len(ids), 1, maxBatch, ErrBatchTooLarge)
	}

	found, unreadable, err := e.reader.GetMany(ctx, ids)
	if err != nil {
		return ExportResponse{}, err
	}

	byID := make(map[string]*order.Order, len(found))
	for _, o := range found {
		byID[o.ID().String()] = o
	}
	unreadableByID := make(map[string]error, len(unreadable))
	for _, u := range unreadable {
		unreadableByID[u.ID] = u.Err
	}

	orders := make([]*order.Order, 0, len(ids))
	var warnings []string
	for _, id := range ids {
		o, ok := byID[id.String()]
		if !ok {
			if cause, bad := unreadableByID[id.String()]; bad {
				warnings = append(warnings, fmt.Sprintf("order %s could not be read, skipped: %v", id, cause))
			} else {
				warnings = append(warnings, fmt.Sprintf("order %s not found, skipped", id))
			}
			continue
		}
		orders = append(orders, o)
	}
	if len(orders) == 0 {
		return ExportResponse{}, ErrNoValidOrders
	}

	var buf bytes.Buffer
	if err = e.renderer.Render(&buf, orders); err != nil {
		return ExportResponse{}, fmt.Errorf("render %s: %w", e.fileExt, err)
	}

	return ExportResponse{
		ContentType: e.contentType,
		Filename:    e.filename(),
		Body:        buf.Bytes(),
		Orders:      len(orders),
		Warnings:    warnings,
	}, nil
}

func (e exporter) filename() string {
	now := time.Now()
	if e.clock != nil {
		now = e.clock.Now()
	}
	return fmt.Sprintf("%s-%s.%s", e.filePrefix, now.UTC().Format("20060102-150405"), e.fileExt)
}
