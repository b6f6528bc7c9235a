package models

// Warehouse is a consolidation warehouse the customer ships purchases to.
// Rows are seeded at startup and read-only at runtime.
type Warehouse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Receiver string `json:"receiver"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}
