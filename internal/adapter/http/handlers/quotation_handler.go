package handlers

import (
	"errors"
	"net/http"

	"cotizaciones/internal/adapter/http/dto/request"
	"cotizaciones/internal/adapter/http/dto/response"
	"cotizaciones/internal/adapter/http/middleware"
	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase"
	"cotizaciones/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotationPayload = pkg.NewDomainErrorSimple("INVALID_QUOTATION_INPUT", "Invalid quotation payload", http.StatusBadRequest)
	errInvalidListQuery        = pkg.NewDomainErrorSimple("INVALID_QUERY", "Unknown bucket", http.StatusBadRequest)
	errUnauthenticated         = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Authentication required", http.StatusUnauthorized)
)

// QuotationHandler handles HTTP requests for cotizaciones.

type QuotationHandler struct {
	usecase    usecase.IQuotationUseCase
	priceField entities.PriceField
}

func NewQuotationHandler(uc usecase.IQuotationUseCase, priceField entities.PriceField) *QuotationHandler {
	return &QuotationHandler{usecase: uc, priceField: priceField}
}

// CreateQuotation godoc
// @Summary      Solicitar cotización
// @Description  Validates the request, assigns the next numero and notifies the team.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body      request.CreateQuotationRequest  true  "Quotation"
// @Success      201   {object}  response.MutationResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      401   {object}  pkg.HTTPError
// @Failure      503   {object}  pkg.HTTPError
// @Router       /cotizaciones [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(errUnauthenticated.HTTPStatus, errUnauthenticated.ToHTTPError())
		return
	}

	var payload request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}

	res, err := h.usecase.Create(c.Request.Context(), actor, payload.ToInput())
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromMutation(res))
}

// ListQuotations godoc
// @Summary      List cotizaciones
// @Tags         cotizaciones
// @Produce      json
// @Security     Bearer
// @Param        bucket      query     string  false  "Won, Lost, Quoted, Reopened or Unreviewed"
// @Param        pendientes  query     bool    false  "Only Reopened and Unreviewed"
// @Param        vendedor    query     string  false  "Vendor uid"
// @Success      200         {object}  response.QuotationListResponse
// @Router       /cotizaciones [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	var q request.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(errInvalidListQuery.HTTPStatus, errInvalidListQuery.WithMessage("Invalid query").ToHTTPError())
		return
	}
	filter, ok := q.ToFilter()
	if !ok {
		c.JSON(errInvalidListQuery.HTTPStatus, errInvalidListQuery.ToHTTPError())
		return
	}

	views, err := h.usecase.List(c.Request.Context(), filter)
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromQuotationViews(views, h.priceField))
}

// GetQuotation godoc
// @Summary      Get one cotización with its lifecycle view
// @Tags         cotizaciones
// @Produce      json
// @Security     Bearer
// @Param        id   path      string  true  "Quotation id"
// @Success      200  {object}  response.QuotationEnvelope
// @Failure      404  {object}  pkg.HTTPError
// @Router       /cotizaciones/{id} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	view, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.QuotationEnvelope{OK: true, Cotizacion: response.FromQuotationView(view, h.priceField)})
}

// UpdateWorkflow godoc
// @Summary      Advance the review workflow
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                   true  "Quotation id"
// @Param        body  body      request.WorkflowRequest  true  "Workflow stage"
// @Success      200   {object}  response.MutationResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Router       /cotizaciones/{id}/workflow [patch]
func (h *QuotationHandler) UpdateWorkflow(c *gin.Context) {
	var payload request.WorkflowRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}
	h.transition(c, payload.ToInput())
}

// UpdateEstado godoc
// @Summary      Close (ganada/perdida) or reopen a cotización
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                 true  "Quotation id"
// @Param        body  body      request.EstadoRequest  true  "Estado"
// @Success      200   {object}  response.MutationResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Router       /cotizaciones/{id}/estado [patch]
func (h *QuotationHandler) UpdateEstado(c *gin.Context) {
	var payload request.EstadoRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}
	h.transition(c, payload.ToInput())
}

// AddComentario godoc
// @Summary      Add a private comment for purchasing
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path      string                     true  "Quotation id"
// @Param        body  body      request.ComentarioRequest  true  "Comment"
// @Success      200   {object}  response.MutationResponse
// @Failure      404   {object}  pkg.HTTPError
// @Router       /cotizaciones/{id}/comentarios [post]
func (h *QuotationHandler) AddComentario(c *gin.Context) {
	var payload request.ComentarioRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}
	h.transition(c, payload.ToInput())
}

func (h *QuotationHandler) transition(c *gin.Context, in usecase.TransitionInput) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(errUnauthenticated.HTTPStatus, errUnauthenticated.ToHTTPError())
		return
	}

	res, err := h.usecase.Transition(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		appErr := mapQuotationError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromMutation(res))
}

func mapQuotationError(err error) *pkg.AppError {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return pkg.NewDomainError("VALIDATION_ERROR", verr.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidQuotationID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_TRANSITION", "Transition not allowed", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnauthenticated):
		return errUnauthenticated
	case errors.Is(err, usecase.ErrQuotationNotFound):
		return pkg.NewDomainErrorSimple("QUOTATION_NOT_FOUND", "Quotation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQuotationClosed):
		return pkg.NewDomainError("QUOTATION_CLOSED", "Quotation is closed", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrAllocation):
		return pkg.NewDomainError("NUMBERING_UNAVAILABLE", "Could not assign a quotation number, try again", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
