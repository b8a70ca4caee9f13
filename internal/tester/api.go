package tester

import (
	"fmt"
	"net/http"

	"github.com/moamenhredeen/relcheck/internal/models"
)

const (
	usersPath      = "/api/users"
	categoriesPath = "/api/categories"
	productsPath   = "/api/products"
)

// Routes lists every endpoint of the service the runner consumes
var Routes = []models.Route{
	{Method: http.MethodPost, Path: usersPath, Purpose: "create user"},
	{Method: http.MethodGet, Path: usersPath, Purpose: "list users"},
	{Method: http.MethodPost, Path: categoriesPath, Purpose: "create category"},
	{Method: http.MethodGet, Path: categoriesPath, Purpose: "list categories"},
	{Method: http.MethodPost, Path: productsPath, Purpose: "create product"},
	{Method: http.MethodGet, Path: productsPath, Purpose: "list products"},
	{Method: http.MethodGet, Path: productsPath + "/{id}", Purpose: "fetch one"},
	{Method: http.MethodGet, Path: productsPath + "/user/{userId}", Purpose: "list by owner"},
	{Method: http.MethodGet, Path: productsPath + "/category/{categoryId}", Purpose: "list by category"},
	{Method: http.MethodPut, Path: productsPath + "/{id}", Purpose: "update"},
	{Method: http.MethodDelete, Path: productsPath + "/{id}", Purpose: "delete"},
}

// API issues the requests of the products/users/categories service
type API struct {
	rb *RequestBuilder
}

// NewAPI creates an API rooted at baseURL
func NewAPI(baseURL string) *API {
	return &API{rb: NewRequestBuilder(baseURL)}
}

// BaseURL returns the service base URL
func (a *API) BaseURL() string {
	return a.rb.BaseURL()
}

func (a *API) CreateUser(payload any) RequestFunc {
	return a.rb.Func(http.MethodPost, usersPath, payload)
}

func (a *API) ListUsers() RequestFunc {
	return a.rb.Func(http.MethodGet, usersPath, nil)
}

func (a *API) CreateCategory(payload any) RequestFunc {
	return a.rb.Func(http.MethodPost, categoriesPath, payload)
}

func (a *API) ListCategories() RequestFunc {
	return a.rb.Func(http.MethodGet, categoriesPath, nil)
}

func (a *API) CreateProduct(payload any) RequestFunc {
	return a.rb.Func(http.MethodPost, productsPath, payload)
}

func (a *API) ListProducts() RequestFunc {
	return a.rb.Func(http.MethodGet, productsPath, nil)
}

func (a *API) GetProduct(id int64) RequestFunc {
	return a.rb.Func(http.MethodGet, fmt.Sprintf("%s/%d", productsPath, id), nil)
}

func (a *API) ProductsByUser(userID int64) RequestFunc {
	return a.rb.Func(http.MethodGet, fmt.Sprintf("%s/user/%d", productsPath, userID), nil)
}

func (a *API) ProductsByCategory(categoryID int64) RequestFunc {
	return a.rb.Func(http.MethodGet, fmt.Sprintf("%s/category/%d", productsPath, categoryID), nil)
}

func (a *API) UpdateProduct(id int64, payload any) RequestFunc {
	return a.rb.Func(http.MethodPut, fmt.Sprintf("%s/%d", productsPath, id), payload)
}

func (a *API) DeleteProduct(id int64) RequestFunc {
	return a.rb.Func(http.MethodDelete, fmt.Sprintf("%s/%d", productsPath, id), nil)
}
