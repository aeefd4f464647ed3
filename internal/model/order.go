package model

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Address   string `json:"address"`
}

type Order struct {
	ID        string      `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []CartItem  `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Currency  string      `json:"currency"`
	Status    OrderStatus `json:"status"`
	Language  string      `json:"language"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
}
