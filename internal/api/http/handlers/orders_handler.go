package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thuanhighclean/cleaning-service/internal/api/dto"
	"github.com/thuanhighclean/cleaning-service/internal/service"
	"github.com/thuanhighclean/cleaning-service/internal/storage"
	apperrors "github.com/thuanhighclean/cleaning-service/pkg/util"
)

// OrdersHandler exposes the order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /api/order (multipart form).
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	nameOfCustomer := c.FormValue("nameOfCustomer")
	phone := c.FormValue("phone")
	address := c.FormValue("address")
	serviceType := c.FormValue("service")
	if nameOfCustomer == "" || phone == "" || address == "" || serviceType == "" {
		return apperrors.NewValidationError("nameOfCustomer, phone, address, service required", nil)
	}

	dateOfOrder, err := parseOrderDate(c.FormValue("dateOfOrder"))
	if err != nil {
		return apperrors.NewValidationError("dateOfOrder must be a valid date", nil)
	}

	mainBefore, err := readFormFile(form, "mainBeforeImg")
	if err != nil {
		return err
	}
	mainAfter, err := readFormFile(form, "mainAfterImg")
	if err != nil {
		return err
	}
	beforeImages, err := readFormFiles(form, "beforeImgs")
	if err != nil {
		return err
	}
	afterImages, err := readFormFiles(form, "afterImgs")
	if err != nil {
		return err
	}

	order, err := h.orders.CreateOrder(c.Context(), service.OrderCreateInput{
		NameOfCustomer: nameOfCustomer,
		Phone:          phone,
		Address:        address,
		Service:        serviceType,
		DateOfOrder:    dateOfOrder,
		MainBefore:     mainBefore,
		MainAfter:      mainAfter,
		BeforeImages:   beforeImages,
		AfterImages:    afterImages,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewOrderResponse(order),
	})
}

// List handles GET /api/order. Orders come back newest order date first.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.Context())
	if err != nil {
		return err
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, dto.NewOrderResponse(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": response})
}

// Get handles GET /api/order/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponse(order)})
}

// Delete handles DELETE /api/order/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.orders.DeleteOrder(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

func parseOrderDate(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	var err error
	for _, layout := range layouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}

func readFormFile(form *multipart.Form, field string) (storage.File, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return storage.File{}, apperrors.NewValidationError(field+" is required", nil)
	}
	return readHeader(headers[0])
}

func readFormFiles(form *multipart.Form, field string) ([]storage.File, error) {
	headers := form.File[field]
	files := make([]storage.File, 0, len(headers))
	for _, header := range headers {
		file, err := readHeader(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readHeader(header *multipart.FileHeader) (storage.File, error) {
	src, err := header.Open()
	if err != nil {
		return storage.File{}, apperrors.NewValidationError("unreadable file "+header.Filename, nil)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return storage.File{}, apperrors.NewValidationError("unreadable file "+header.Filename, nil)
	}
	return storage.File{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
