package controllers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"groupbuy-service/auth"
	"groupbuy-service/models"
)

type AuthController struct {
	db     *sql.DB
	tokens *auth.TokenService
}

func NewAuthController(db *sql.DB, tokens *auth.TokenService) *AuthController {
	return &AuthController{db: db, tokens: tokens}
}

// StaffLogin authenticates an admin or operator. The failure reasons are
// distinguished (unknown user / wrong password / inactive account) but the
// stored hash never leaves the database layer.
func (a *AuthController) StaffLogin(c *gin.Context) {
	var req models.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := a.db.QueryRowContext(c.Request.Context(),
		`SELECT id, username, password_hash, role, status FROM users WHERE username = ?`,
		req.Username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}
	if user.Status != models.UserStatusActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		return
	}

	token, err := a.tokens.Issue(auth.Staff{ID: user.ID, Username: user.Username, UserRole: user.Role})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// CustomerRegister creates a storefront account. The password is the
// customer's phone number, hashed; the member id comes from the external
// freight-forwarding platform and is not generated here.
func (a *AuthController) CustomerRegister(c *gin.Context) {
	var req models.CustomerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	result, err := a.db.ExecContext(c.Request.Context(),
		`INSERT INTO customers (member_id, password_hash, email) VALUES (?, ?, ?)`,
		req.MemberID, hash, req.Email,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "Member id or email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"member_id": req.MemberID,
		"email":     req.Email,
	})
}

// CustomerLogin authenticates a customer by member id and phone number and
// issues a 30-day token.
func (a *AuthController) CustomerLogin(c *gin.Context) {
	var req models.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	err := a.db.QueryRowContext(c.Request.Context(),
		`SELECT id, member_id, password_hash, email FROM customers WHERE member_id = ?`,
		req.MemberID,
	).Scan(&customer.ID, &customer.MemberID, &customer.PasswordHash, &customer.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !auth.CheckPassword(req.PhoneNumber, customer.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect phone number"})
		return
	}

	token, err := a.tokens.Issue(auth.Customer{ID: customer.ID, MemberID: customer.MemberID, Email: customer.Email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"customer": gin.H{
			"id":        customer.ID,
			"member_id": customer.MemberID,
			"email":     customer.Email,
		},
	})
}
