package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"groupbuy-service/models"
)

func TestOperatorVisible(t *testing.T) {
	visible := []string{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusShippedInternal,
	}
	for _, status := range visible {
		assert.True(t, OperatorVisible(status), "expected %s to be operator-visible", status)
	}

	hidden := []string{
		models.StatusWarehouseReceived,
		models.StatusCompleted,
		models.StatusCancelled,
	}
	for _, status := range hidden {
		assert.False(t, OperatorVisible(status), "expected %s to be hidden from operators", status)
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range models.AllStatuses {
		assert.True(t, IsValidStatus(status))
	}

	assert.False(t, IsValidStatus("Shipped"))
	assert.False(t, IsValidStatus("pending")) // statuses are case-sensitive
	assert.False(t, IsValidStatus(""))
}
