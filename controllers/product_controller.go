package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce-service/middlewares"
	"ecommerce-service/models"
	"ecommerce-service/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (ctrl *ProductController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", ctrl.GetAllProducts)
	rg.GET("/products/search", ctrl.SearchProducts)
	rg.GET("/products/categories", ctrl.GetCategoryCounts)
	rg.GET("/products/:id", ctrl.GetProduct)
	rg.POST("/products", ctrl.CreateProduct)
	rg.PUT("/products/:id", ctrl.UpdateProduct)
	rg.DELETE("/products/:id", ctrl.DeleteProduct)
}

func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("list", success)
	}()

	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	size, err := queryInt(c, "size", 20)
	if err != nil {
		respondError(c, err)
		return
	}
	sortBy := c.DefaultQuery("sortBy", "id")
	direction := c.DefaultQuery("direction", "asc")

	products, err := ctrl.products.GetAllProducts(c.Request.Context(), page, size, sortBy, direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *ProductController) SearchProducts(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("search", success)
	}()

	page, err := queryInt(c, "page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	size, err := queryInt(c, "size", 20)
	if err != nil {
		respondError(c, err)
		return
	}

	criteria := models.ProductSearchCriteria{
		Name:     queryStringPtr(c, "name"),
		Category: queryStringPtr(c, "category"),
	}
	if criteria.MinPrice, err = queryFloatPtr(c, "minPrice"); err != nil {
		respondError(c, err)
		return
	}
	if criteria.MaxPrice, err = queryFloatPtr(c, "maxPrice"); err != nil {
		respondError(c, err)
		return
	}
	if criteria.Active, err = queryBoolPtr(c, "active"); err != nil {
		respondError(c, err)
		return
	}

	products, err := ctrl.products.SearchProducts(c.Request.Context(), criteria, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ctrl *ProductController) GetCategoryCounts(c *gin.Context) {
	counts, err := ctrl.products.GetCategoryCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (ctrl *ProductController) GetProduct(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("details", success)
	}()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("create", success)
	}()

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("update", success)
	}()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	defer func() {
		success := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordProductOperation("delete", success)
	}()

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.products.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
