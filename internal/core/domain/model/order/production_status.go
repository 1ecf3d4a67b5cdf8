package order

import (
	"errors"
	"fmt"
	"strings"

	"orderops/internal/pkg/errs"
)

// ErrUnknownProductionStatus is the cause carried when a requested label is
// outside the supported set.
var ErrUnknownProductionStatus = errors.New("unknown production status")

// ProductionStatus names the manufacturing queue an order is in. The empty
// value (ProductionNone) means production has not started. Labels have no
// ordering: any label may follow any other, including ProductionNone.
//
// Stored labels outside the known set are kept as they are when an order is
// loaded; membership is only enforced for requested targets.
type ProductionStatus string

const (
	ProductionNone    ProductionStatus = ""
	VinylProduction   ProductionStatus = "vinyl_production"
	StockWait         ProductionStatus = "stock_wait"
	BatteryProduction ProductionStatus = "battery_production"
)

func getProductionStatusLabels() map[ProductionStatus]string {
	return map[ProductionStatus]string{
		ProductionNone:    "En Espera",
		VinylProduction:   "Producción de Vinilos",
		StockWait:         "Espera de Stock",
		BatteryProduction: "Producción de Baterías",
	}
}

// ParseProductionStatus accepts a known label, or "" / "none" for ProductionNone.
func ParseProductionStatus(s string) (ProductionStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		s = ""
	}
	status := ProductionStatus(s)
	if err := status.Validate(); err != nil {
		return ProductionNone, err
	}
	return status, nil
}

// Validate checks membership in the supported label set.
func (s ProductionStatus) Validate() error {
	if _, ok := getProductionStatusLabels()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"production status",
			fmt.Errorf("%w: %q", ErrUnknownProductionStatus, string(s)),
		)
	}
	return nil
}

func (s ProductionStatus) IsNone() bool {
	return s == ProductionNone
}

func (s ProductionStatus) String() string {
	return string(s)
}

// DisplayLabel returns the operator-facing label. Unknown stored labels are
// shown verbatim.
func (s ProductionStatus) DisplayLabel() string {
	if label, ok := getProductionStatusLabels()[s]; ok {
		return label
	}
	return string(s)
}
