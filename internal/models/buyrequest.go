package models

import "time"

type BuyRequest struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"product_id"`
	CustomerID int       `json:"customer_id"`
	Quantity   int       `json:"quantity"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	// Resolved references. Product is nil when the listing has been removed;
	// the display layer treats that as "product removed".
	Product  *ProductSummary  `json:"product"`
	Customer *CustomerSummary `json:"customer,omitempty"`
}

type BuyRequestStatus string

const (
	StatusPending  BuyRequestStatus = "pending"
	StatusApproved BuyRequestStatus = "approved"
	StatusRejected BuyRequestStatus = "rejected"
)

func ValidBuyRequestStatus(s string) bool {
	switch BuyRequestStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type ProductSummary struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}

type CustomerSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateBuyRequestRequest struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Message   string `json:"message"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
