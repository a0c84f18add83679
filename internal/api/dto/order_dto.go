package dto

import (
	"time"

	"github.com/thuanhighclean/cleaning-service/internal/domain"
)

// OrderResponse response.
type OrderResponse struct {
	ID             string    `json:"id"`
	NameOfCustomer string    `json:"nameOfCustomer"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Service        string    `json:"service"`
	MainBeforeImg  string    `json:"mainBeforeImg"`
	MainAfterImg   string    `json:"mainAfterImg"`
	BeforeImgs     []string  `json:"beforeImgs"`
	AfterImgs      []string  `json:"afterImgs"`
	DateOfOrder    time.Time `json:"dateOfOrder"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order *domain.Order) OrderResponse {
	beforeImgs := order.BeforeURLs
	if beforeImgs == nil {
		beforeImgs = []string{}
	}
	afterImgs := order.AfterURLs
	if afterImgs == nil {
		afterImgs = []string{}
	}
	return OrderResponse{
		ID:             order.ID,
		NameOfCustomer: order.NameOfCustomer,
		Phone:          order.Phone,
		Address:        order.Address,
		Service:        order.Service,
		MainBeforeImg:  order.MainBeforeURL,
		MainAfterImg:   order.MainAfterURL,
		BeforeImgs:     beforeImgs,
		AfterImgs:      afterImgs,
		DateOfOrder:    order.DateOfOrder,
		CreatedAt:      order.CreatedAt,
	}
}
