package server

import (
	"vendora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateProduct handles POST /api/stores/:storeId/products
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param request body models.Product true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/products [post]
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	product.StoreID = storeID
	product.CreatedBy = currentUserID(c)

	created, err := s.productService.CreateProduct(c.Context(), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetProducts handles GET /api/stores/:storeId/products
// @Summary List products
// @Tags products
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {array} models.Product
// @Router /stores/{storeId}/products [get]
func (s *Server) GetProducts(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	products, err := s.productService.ListProducts(c.Context(), storeID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct handles GET /api/stores/:storeId/products/:productId
// @Summary Get product
// @Tags products
// @Produce json
// @Param storeId path string true "Store ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/products/{productId} [get]
func (s *Server) GetProduct(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	product, err := s.productService.GetProduct(c.Context(), storeID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct handles PUT /api/stores/:storeId/products/:productId
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/products/{productId} [put]
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}

	product, err := s.productService.UpdateProduct(c.Context(), storeID, productID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/stores/:storeId/products/:productId
// @Summary Delete product
// @Tags products
// @Param storeId path string true "Store ID"
// @Param productId path string true "Product ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/products/{productId} [delete]
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	if err := s.productService.DeleteProduct(c.Context(), storeID, productID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
