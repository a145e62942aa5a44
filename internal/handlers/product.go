package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/es"
	"github.com/Skotchmaster/product_catalog/internal/logging"
	"github.com/Skotchmaster/product_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", event["userID"].(string), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHandler) index(c echo.Context, prod *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexProduct(ctx, h.ES, prod); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "error", err, "product_id", prod.ID)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	items := []models.Product{}
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_create")
	userID := auth.UserID(c)

	var req struct {
		Name        string   `json:"name"        validate:"required"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"       validate:"required,gte=0"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and price are required")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and price are required")
	}

	prod := models.Product{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}
	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		return err
	}

	h.index(c, &prod)
	h.publish(c, map[string]any{
		"type":      "product_created",
		"userID":    userID,
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("product_created", "product_id", prod.ID, "user_id", userID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)
	id := c.Param("id")

	// Lookup is always conjoined on (id, owner). A foreign record and a
	// missing record are indistinguishable to the caller.
	var prod models.Product
	if err := h.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_update")
	userID := auth.UserID(c)
	id := c.Param("id")

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	// Single conditional UPDATE: the ownership check and the write are one
	// statement, so concurrent editors cannot lose each other's ownership
	// scoping and a foreign id is a plain no-match.
	res := h.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"name":        req.Name,
			"description": req.Description,
			"price":       req.Price,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return err
	}

	h.index(c, &prod)
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"userID":    userID,
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("product_updated", "product_id", prod.ID, "user_id", userID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_delete")
	userID := auth.UserID(c)
	id := c.Param("id")

	res := h.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	if h.ES != nil {
		esCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := es.DeleteProduct(esCtx, h.ES, id); err != nil {
			logging.FromContext(ctx).Error("es delete error", "error", err, "product_id", id)
		}
	}
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"userID":    userID,
		"productID": id,
	})

	l.Info("product_deleted", "product_id", id, "user_id", userID)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
