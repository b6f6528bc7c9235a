package services

import "groupbuy-service/models"

// Status transitions are deliberately permissive: any authorized actor may
// write any of the six statuses, including jumps like Pending straight to
// Completed. Validation stops at "is this one of the known statuses".

var operatorVisibleStatuses = []string{
	models.StatusPending,
	models.StatusProcessing,
	models.StatusShippedInternal,
}

// OperatorVisible reports whether an order in the given status belongs to the
// operator worklist. Warehouse_Received, Completed and Cancelled orders are
// hidden from operators to keep the list short; admins see everything.
func OperatorVisible(status string) bool {
	for _, s := range operatorVisibleStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	for _, s := range models.AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}
