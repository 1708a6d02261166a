package payment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/openhis/billing/internal/platform/auth"
	"github.com/openhis/billing/pkg/pagination"
)

type Handler struct {
	svc      *Service
	recorder *Recorder
}

func NewHandler(svc *Service, recorder *Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "billing"))
	g.POST("/payments", h.RecordPayment)
	g.GET("/payments", h.ListPayments)
	g.GET("/payments/:id", h.GetPayment)
	g.GET("/payments/:id/details", h.GetPaymentDetails)

	// Reconciliation endpoints always answer 200 with a result envelope;
	// missing authentication is reported inside the envelope.
	api.POST("/payments/:id/ref", h.RefReceived)
	api.POST("/payments/:id/receive", h.PaymentReceived)
	api.POST("/payments/:id/refund", h.PaymentRefunded)
	api.POST("/payments/:id/cancel", h.PaymentCancelled)
	api.POST("/payments/reconcile/create", h.NotImplementedCreate)
	api.POST("/payments/reconcile/update", h.NotImplementedUpdate)
}

// -- Recorder Handlers --

type recordPaymentRequest struct {
	Payment
	Details []*Detail `json:"details"`
}

func (h *Handler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.PrincipalFromContext(c.Request().Context())
	if err := h.recorder.Record(c.Request().Context(), actor, &req.Payment, req.Details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, req.Payment)
}

func (h *Handler) GetPayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.recorder.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "payment not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPaymentDetails(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	details, err := h.recorder.GetDetails(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) ListPayments(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, name := range []string{"status", "code_ext", "code_tp", "date_payment", "amount_payed"} {
		if v := c.QueryParam(name); v != "" {
			params[name] = v
		}
	}
	items, total, err := h.recorder.List(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Reconciliation Handlers --

type refReceivedRequest struct {
	Ref string `json:"ref"`
}

func (h *Handler) RefReceived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req refReceivedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Ref == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ref is required")
	}
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.RefReceived(c.Request().Context(), actor, id, req.Ref))
}

type receivePaymentRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) PaymentReceived(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req receivePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.PaymentReceived(c.Request().Context(), actor, id, req.Status))
}

func (h *Handler) PaymentRefunded(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.PaymentRefunded(c.Request().Context(), actor, id))
}

func (h *Handler) PaymentCancelled(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.PaymentCancelled(c.Request().Context(), actor, id))
}

func (h *Handler) NotImplementedCreate(c echo.Context) error {
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.Create(c.Request().Context(), actor))
}

func (h *Handler) NotImplementedUpdate(c echo.Context) error {
	actor := auth.PrincipalFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, h.svc.Update(c.Request().Context(), actor))
}
