package routes

import (
	"cotizaciones/internal/adapter/http/handlers"
	"cotizaciones/internal/adapter/http/middleware"
	"cotizaciones/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotations = "/cotizaciones"
)

func addQuotationRoutes(rg *gin.RouterGroup, h *handlers.QuotationHandler, jwtSecret string) {
	canRequest := middleware.RequireRole(entities.RoleComercial, entities.RoleJefeComercial, entities.RoleAdmin)
	canReview := middleware.RequireRole(entities.RoleJefeComercial, entities.RoleCompras, entities.RoleAdmin)

	quotations := rg.Group(PathQuotations, middleware.JWTAuth(jwtSecret))
	{
		quotations.POST("", canRequest, h.CreateQuotation)
		quotations.GET("", h.ListQuotations)
		quotations.GET("/:id", h.GetQuotation)
		quotations.PATCH("/:id/workflow", canReview, h.UpdateWorkflow)
		quotations.PATCH("/:id/estado", h.UpdateEstado)
		quotations.POST("/:id/comentarios", h.AddComentario)
	}
}
