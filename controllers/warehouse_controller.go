package controllers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"groupbuy-service/models"
)

type WarehouseController struct {
	db *sql.DB
}

func NewWarehouseController(db *sql.DB) *WarehouseController {
	return &WarehouseController{db: db}
}

// List returns the consolidation warehouses customers ship purchases to.
func (w *WarehouseController) List(c *gin.Context) {
	rows, err := w.db.QueryContext(c.Request.Context(),
		`SELECT id, name, receiver, phone, address FROM warehouses ORDER BY id ASC`,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	warehouses := []models.Warehouse{}
	for rows.Next() {
		var warehouse models.Warehouse
		if err := rows.Scan(&warehouse.ID, &warehouse.Name, &warehouse.Receiver, &warehouse.Phone, &warehouse.Address); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		warehouses = append(warehouses, warehouse)
	}

	c.JSON(http.StatusOK, warehouses)
}
