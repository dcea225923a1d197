package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetStoreSeoSettings handles GET /api/stores/:storeId/seo
// @Summary Get store SEO settings
// @Description Returns stored settings, or defaults when none exist yet
// @Tags seo
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.StoreSeoSettings
// @Router /stores/{storeId}/seo [get]
func (s *Server) GetStoreSeoSettings(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	settings, err := s.seoService.GetStoreSettings(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// UpdateStoreSeoSettings handles PUT /api/stores/:storeId/seo
// @Summary Update store SEO settings
// @Tags seo
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.StoreSeoSettings
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/seo [put]
func (s *Server) UpdateStoreSeoSettings(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	fields, err := parseFields(c)
	if err != nil {
		return nil
	}
	fields["updated_by"] = currentUserID(c)

	settings, err := s.seoService.UpdateStoreSettings(c.Context(), storeID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// GetProductSeoSettings handles GET /api/stores/:storeId/products/:productId/seo
// @Summary Get product SEO settings
// @Tags seo
// @Produce json
// @Param storeId path string true "Store ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} models.ProductSeoSettings
// @Failure 404 {object} models.ErrorResponse
// @Router /stores/{storeId}/products/{productId}/seo [get]
func (s *Server) GetProductSeoSettings(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}
	productID, err := s.parseID(c, "productId")
	if err != nil {
		return nil
	}

	settings, err := s.seoService.GetProductSettings(c.Context(), storeID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// UpdateProductSeoSettings handles PUT /api/stores/:storeId/products/:productId/seo
// @Summary Update product SEO settings
// @Tags seo
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} models.ProductSeoSettings
// @Failure 400 {object} models.ErrorResponse
// @Router /stores/{storeId}/products/{productId}/seo [put]
func (s *Server) UpdateProductSeoSettings(c *fiber.Ctx) error {
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
	fields["updated_by"] = currentUserID(c)

	settings, err := s.seoService.UpdateProductSettings(c.Context(), storeID, productID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// GetSitemapData handles GET /api/public/stores/:storeId/sitemap
// Storefront read path: entries for the sitemap generator, empty when the
// store disabled sitemaps.
func (s *Server) GetSitemapData(c *fiber.Ctx) error {
	storeID, err := s.parseID(c, "storeId")
	if err != nil {
		return nil
	}

	entries, err := s.seoService.SitemapData(c.Context(), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}
