package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"groupbuy-service/models"
)

type ProductController struct {
	db *sql.DB
}

func NewProductController(db *sql.DB) *ProductController {
	return &ProductController{db: db}
}

// List returns the public catalog, excluding archived products.
func (p *ProductController) List(c *gin.Context) {
	rows, err := p.db.QueryContext(c.Request.Context(),
		`SELECT id, name, description, image_url, cost_cny, price_twd, is_archived, created_at
		 FROM products
		 WHERE is_archived = FALSE
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.ImageURL,
			&product.CostCNY, &product.PriceTWD, &product.IsArchived, &product.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		products = append(products, product)
	}

	c.JSON(http.StatusOK, products)
}

// Get returns a single non-archived product.
func (p *ProductController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := p.fetch(c, id, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create adds a catalog entry (admin only).
func (p *ProductController) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := p.db.ExecContext(c.Request.Context(),
		`INSERT INTO products (name, description, image_url, cost_cny, price_twd)
		 VALUES (?, ?, ?, ?, ?)`,
		req.Name, req.Description, req.ImageURL, req.CostCNY, req.PriceTWD,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	id, _ := result.LastInsertId()
	product, err := p.fetch(c, int(id), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update patches a product; nil request fields are preserved. Archived
// products stay editable so historical listings can be corrected.
func (p *ProductController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignments := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if req.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *req.Description)
	}
	if req.ImageURL != nil {
		assignments = append(assignments, "image_url = ?")
		args = append(args, *req.ImageURL)
	}
	if req.CostCNY != nil {
		assignments = append(assignments, "cost_cny = ?")
		args = append(args, *req.CostCNY)
	}
	if req.PriceTWD != nil {
		assignments = append(assignments, "price_twd = ?")
		args = append(args, *req.PriceTWD)
	}
	if len(assignments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field must be provided"})
		return
	}
	args = append(args, id)

	_, err = p.db.ExecContext(c.Request.Context(),
		"UPDATE products SET "+strings.Join(assignments, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	product, err := p.fetch(c, id, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Archive soft-deletes a product: it disappears from the catalog and from new
// order resolution but its row (and id) stays for historical snapshots.
func (p *ProductController) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result, err := p.db.ExecContext(c.Request.Context(),
		`UPDATE products SET is_archived = TRUE WHERE id = ?`, id,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive product"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		// Either missing or already archived; only the former is an error.
		var exists int
		if err := p.db.QueryRowContext(c.Request.Context(),
			`SELECT 1 FROM products WHERE id = ?`, id).Scan(&exists); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product archived", "product_id": id})
}

func (p *ProductController) fetch(c *gin.Context, id int, includeArchived bool) (*models.Product, error) {
	query := `SELECT id, name, description, image_url, cost_cny, price_twd, is_archived, created_at
	          FROM products WHERE id = ?`
	if !includeArchived {
		query += " AND is_archived = FALSE"
	}

	var product models.Product
	err := p.db.QueryRowContext(c.Request.Context(), query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.ImageURL,
		&product.CostCNY, &product.PriceTWD, &product.IsArchived, &product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
