package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_catalog/internal/es"
	"github.com/Skotchmaster/product_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/service/search"
)

// SearchProducts answers GET /products/search?q= over the caller's own
// records. Elasticsearch when configured, a LIKE scan otherwise.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	if h.ES != nil {
		total, products, err := search.Search(ctx, h.ES, es.ProductIndex, q, userID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
	}

	pattern := "%" + q + "%"
	items := []models.Product{}
	err := h.DB.WithContext(ctx).
		Where("user_id = ? AND (name LIKE ? OR description LIKE ?)", userID, pattern, pattern).
		Find(&items).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"total": int64(len(items)), "products": items})
}
