package services

import "returnsync/internal/core/domain/model/returns"

// StatusMapper translates raw carrier status codes into local return
// statuses using a fixed table. The table is deliberately explicit: codes
// outside it are reported as unmapped and the processor skips the event
// rather than guessing a transition. The authoritative list of codes comes
// from the carrier's API documentation.
type StatusMapper struct {
	table map[string]returns.Status
}

// NewStatusMapper creates a mapper with the Cargus return-flow table.
func NewStatusMapper() *StatusMapper {
	return &StatusMapper{
		table: map[string]returns.Status{
			"in_transit":         returns.InProgress,
			"out_for_delivery":   returns.InProgress,
			"returned_to_sender": returns.Completed,
			"delivered_back":     returns.Completed,
			"refused":            returns.Discrepancy,
			"lost":               returns.Discrepancy,
			"damaged_in_transit": returns.Discrepancy,
		},
	}
}

// Map resolves a carrier status code to a local status. The second return
// value reports whether the code is known.
func (m *StatusMapper) Map(carrierCode string) (returns.Status, bool) {
	status, ok := m.table[carrierCode]
	return status, ok
}

// IndicatesDiscrepancy reports whether the carrier code maps to the
// Discrepancy status, in which case the processor also opens a Discrepancy
// record on the return.
func (m *StatusMapper) IndicatesDiscrepancy(carrierCode string) bool {
	status, ok := m.table[carrierCode]
	return ok && status == returns.Discrepancy
}
