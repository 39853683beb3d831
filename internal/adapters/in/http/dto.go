package http

import "time"

// Error is the uniform error payload for every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewReturnRequest is the intake payload. ShippedUnits maps SKU to the
// quantity the order originally shipped and may be omitted when the caller
// has no shipment data.
type NewReturnRequest struct {
	OrderRef     string          `json:"orderRef"`
	TrackingID   string          `json:"trackingId"`
	ProcessedBy  string          `json:"processedBy"`
	Items        []NewReturnItem `json:"items"`
	ShippedUnits map[string]int  `json:"shippedUnits,omitempty"`
}

// NewReturnItem is one intake line.
type NewReturnItem struct {
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Condition string `json:"condition"`
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// Return is one row of the returns listing.
type Return struct {
	ID         string     `json:"id"`
	OrderRef   string     `json:"orderRef"`
	TrackingID string     `json:"trackingId"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// Discrepancy is one row of the open discrepancies listing.
type Discrepancy struct {
	ID        string    `json:"id"`
	ReturnID  string    `json:"returnId"`
	SKU       string    `json:"sku,omitempty"`
	Type      string    `json:"type"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResolveDiscrepancyRequest carries the operator's resolution note.
type ResolveDiscrepancyRequest struct {
	Note string `json:"note"`
}

// AuditEntry is one row of the audit trail, newest first. ReturnID is null
// for events that never matched a return.
type AuditEntry struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	TrackingID string    `json:"trackingId"`
	ReturnID   *string   `json:"returnId,omitempty"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SyncResult reports the outcome of a manually triggered sync run.
type SyncResult struct {
	Processed int      `json:"processed"`
	Anomalies []string `json:"anomalies"`
}
