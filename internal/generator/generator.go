package generator

import (
	"fmt"
	"time"
)

// ProductPayload is the body of a product create or update request
type ProductPayload struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	UserID      int64   `json:"userId,omitempty"`
	CategoryIDs []int64 `json:"categoryIds,omitempty"`
	// CategoryID is the legacy singular relation field
	CategoryID int64 `json:"categoryId,omitempty"`
}

// UserPayload is the body of a user create request
type UserPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CategoryPayload is the body of a category create request
type CategoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"descripcion"`
}

// Generator generates request payloads for the checks
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a new generator instance
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator that reads time from now
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

func (g *Generator) nonce() int64 {
	return g.now().UnixNano()
}

// Product generates the payload of the create step
func (g *Generator) Product(userID, categoryID int64) ProductPayload {
	return ProductPayload{
		Name:        fmt.Sprintf("Laptop Test Relations %d", g.nonce()),
		Price:       1299.99,
		Description: "Laptop for relation tests",
		UserID:      userID,
		CategoryIDs: []int64{categoryID},
	}
}

// ProductUpdate generates the payload of the update step
func (g *Generator) ProductUpdate(name string, categoryID int64) ProductPayload {
	return ProductPayload{
		Name:        name,
		Price:       1399.99,
		Description: "Laptop updated by relation tests",
		CategoryIDs: []int64{categoryID},
	}
}

// LegacyProduct generates a product that uses the singular categoryId field
func (g *Generator) LegacyProduct(userID, categoryID int64) ProductPayload {
	return ProductPayload{
		Name:        fmt.Sprintf("Legacy Product Test %d", g.nonce()),
		Price:       100.0,
		Description: "Testing legacy compatibility",
		UserID:      userID,
		CategoryID:  categoryID,
	}
}

// User generates a unique test user
func (g *Generator) User() UserPayload {
	return UserPayload{
		Name:     "Test User Relations",
		Email:    fmt.Sprintf("test.relations.%d@test.com", g.nonce()),
		Password: "TestPassword123",
	}
}

// Category generates a unique test category
func (g *Generator) Category() CategoryPayload {
	return CategoryPayload{
		Name:        fmt.Sprintf("Test Category %d", g.nonce()),
		Description: "Category for relation tests",
	}
}
