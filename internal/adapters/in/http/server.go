// Package http provides the inbound HTTP adapter: echo handlers that
// translate REST requests into commands and queries.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pawtraits/internal/core/application/usecases/commands"
	"pawtraits/internal/core/application/usecases/queries"
	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	fulfillOrderHandler      commands.FulfillOrderCommandHandler
	cancelHandler            commands.CancelFulfillmentCommandHandler
	fulfillmentStatusHandler queries.GetFulfillmentStatusQueryHandler
	downloadsHandler         queries.GetDownloadsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	fulfillOrderHandler commands.FulfillOrderCommandHandler,
	cancelHandler commands.CancelFulfillmentCommandHandler,
	fulfillmentStatusHandler queries.GetFulfillmentStatusQueryHandler,
	downloadsHandler queries.GetDownloadsQueryHandler,
) *Server {
	return &Server{
		fulfillOrderHandler:      fulfillOrderHandler,
		cancelHandler:            cancelHandler,
		fulfillmentStatusHandler: fulfillmentStatusHandler,
		downloadsHandler:         downloadsHandler,
	}
}

// RegisterRoutes attaches the fulfillment API to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders/:id/fulfill", s.FulfillOrder)
	api.GET("/orders/:id/fulfillment", s.GetFulfillmentStatus)
	api.POST("/orders/:id/fulfillment/cancel", s.CancelFulfillment)
	api.GET("/orders/:id/downloads", s.GetDownloads)
}

// ErrorResponse is the uniform error body for the fulfillment API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ResultResponse is one per-backend result of a fulfillment run.
type ResultResponse struct {
	Backend       string         `json:"backend"`
	Success       bool           `json:"success"`
	FulfillmentID string         `json:"fulfillment_id,omitempty"`
	Error         string         `json:"error,omitempty"`
	TrackingInfo  map[string]any `json:"tracking_info,omitempty"`
}

// FulfillmentRunResponse is the outcome of POST /orders/:id/fulfill.
type FulfillmentRunResponse struct {
	OrderID string           `json:"order_id"`
	Results []ResultResponse `json:"results"`
}

// FulfillOrder handles POST /api/v1/orders/:id/fulfill - starts a fulfillment run.
func (s *Server) FulfillOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewFulfillOrderCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	results, err := s.fulfillOrderHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, errs.ErrValueIsInvalid):
		// Status precondition: fulfillment already running or completed.
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case err != nil:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Fulfillment run failed",
		})
	}

	response := FulfillmentRunResponse{
		OrderID: orderID.String(),
		Results: make([]ResultResponse, 0, len(results)),
	}
	for _, result := range results {
		response.Results = append(response.Results, ResultResponse{
			Backend:       result.Backend,
			Success:       result.Success,
			FulfillmentID: result.FulfillmentID,
			Error:         result.ErrorMessage(),
			TrackingInfo:  result.TrackingInfo,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// FulfillmentStatusResponse is the body of GET /orders/:id/fulfillment.
type FulfillmentStatusResponse struct {
	OrderID               string     `json:"order_id"`
	OrderNumber           string     `json:"order_number"`
	Status                string     `json:"status"`
	FulfillmentType       string     `json:"fulfillment_type"`
	DigitalDeliveryStatus string     `json:"digital_delivery_status"`
	DownloadExpiresAt     *time.Time `json:"download_expires_at,omitempty"`
}

// GetFulfillmentStatus handles GET /api/v1/orders/:id/fulfillment.
func (s *Server) GetFulfillmentStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetFulfillmentStatusQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	status, err := s.fulfillmentStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve fulfillment status",
		})
	}

	return ctx.JSON(http.StatusOK, FulfillmentStatusResponse{
		OrderID:               status.OrderID.String(),
		OrderNumber:           status.OrderNumber,
		Status:                status.Status,
		FulfillmentType:       status.FulfillmentType,
		DigitalDeliveryStatus: status.DigitalDeliveryStatus,
		DownloadExpiresAt:     status.DownloadExpiresAt,
	})
}

// CancelRequest is the body of POST /orders/:id/fulfillment/cancel.
type CancelRequest struct {
	Method string `json:"method"`
}

// CancelResponse reports whether the backend actually cancelled.
type CancelResponse struct {
	OrderID   string `json:"order_id"`
	Method    string `json:"method"`
	Cancelled bool   `json:"cancelled"`
}

// CancelFulfillment handles POST /api/v1/orders/:id/fulfillment/cancel.
func (s *Server) CancelFulfillment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var request CancelRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewCancelFulfillmentCommand(orderID, request.Method)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	cancelled, err := s.cancelHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, commands.ErrUnknownFulfillmentMethod):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unknown fulfillment method",
		})
	case err != nil:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Cancellation failed",
		})
	}

	return ctx.JSON(http.StatusOK, CancelResponse{
		OrderID:   orderID.String(),
		Method:    request.Method,
		Cancelled: cancelled,
	})
}

// DownloadResponse is one active grant in GET /orders/:id/downloads.
type DownloadResponse struct {
	ItemID        string    `json:"item_id"`
	DownloadURL   string    `json:"download_url"`
	Format        string    `json:"format"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	ExpiresAt     time.Time `json:"expires_at"`
	AccessCount   int       `json:"access_count"`
}

// GetDownloads handles GET /api/v1/orders/:id/downloads.
func (s *Server) GetDownloads(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetDownloadsQuery(orderID, time.Now().UTC())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	downloads, err := s.downloadsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve downloads",
		})
	}

	response := make([]DownloadResponse, 0, len(downloads))
	for _, download := range downloads {
		response = append(response, DownloadResponse{
			ItemID:        download.ItemID.String(),
			DownloadURL:   download.DownloadURL,
			Format:        download.Format,
			FileSizeBytes: download.FileSizeBytes,
			ExpiresAt:     download.ExpiresAt,
			AccessCount:   download.AccessCount,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}
