package services

import (
	"context"
	"log"
	"strconv"

	"golang.org/x/sync/singleflight"

	"ecommerce-service/cache"
	"ecommerce-service/errs"
	"ecommerce-service/models"
	"ecommerce-service/repository"
)

type ProductService struct {
	products *repository.ProductRepository
	cache    cache.ProductCache
	loads    singleflight.Group
}

func NewProductService(products *repository.ProductRepository, productCache cache.ProductCache) *ProductService {
	return &ProductService{
		products: products,
		cache:    productCache,
	}
}

// GetProduct serves from the cache when possible; concurrent misses for the
// same id collapse into one database load. Inactive products are still
// returned so historical orders can render their lines.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (models.ProductDTO, error) {
	if dto, ok := s.cache.Get(id); ok {
		return dto, nil
	}

	v, err, _ := s.loads.Do(strconv.FormatInt(id, 10), func() (any, error) {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		dto := models.ToProductDTO(product)
		s.cache.Put(id, dto)
		return dto, nil
	})
	if err != nil {
		return models.ProductDTO{}, err
	}
	return v.(models.ProductDTO), nil
}

func (s *ProductService) GetAllProducts(ctx context.Context, page, size int, sortBy, direction string) (models.PagedResponse[models.ProductDTO], error) {
	if err := validatePaging(page, size, maxPageSize); err != nil {
		return models.PagedResponse[models.ProductDTO]{}, err
	}

	products, total, err := s.products.FindActive(ctx, page, size, sortBy, direction)
	if err != nil {
		return models.PagedResponse[models.ProductDTO]{}, err
	}
	return models.NewPagedResponse(toProductDTOs(products), page, size, total), nil
}

func (s *ProductService) SearchProducts(ctx context.Context, criteria models.ProductSearchCriteria, page, size int) (models.PagedResponse[models.ProductDTO], error) {
	if err := validatePaging(page, size, maxPageSize); err != nil {
		return models.PagedResponse[models.ProductDTO]{}, err
	}

	products, total, err := s.products.Search(ctx, criteria, page, size)
	if err != nil {
		return models.PagedResponse[models.ProductDTO]{}, err
	}
	return models.NewPagedResponse(toProductDTOs(products), page, size, total), nil
}

func (s *ProductService) GetCategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	return s.products.CountByCategory(ctx)
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.ProductDTO, error) {
	if req.Price < 0 {
		return models.ProductDTO{}, errs.Validation("price must not be negative")
	}
	if req.Stock < 0 {
		return models.ProductDTO{}, errs.Validation("stock must not be negative")
	}

	log.Printf("Creating product: %s", req.Name)

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return models.ProductDTO{}, err
	}

	s.cache.InvalidateAll()
	return models.ToProductDTO(product), nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.CreateProductRequest) (models.ProductDTO, error) {
	if req.Price < 0 {
		return models.ProductDTO{}, errs.Validation("price must not be negative")
	}
	if req.Stock < 0 {
		return models.ProductDTO{}, errs.Validation("stock must not be negative")
	}

	log.Printf("Updating product %d", id)

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.ProductDTO{}, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.Category = req.Category
	product.ImageURL = req.ImageURL

	if err := s.products.Update(ctx, product); err != nil {
		return models.ProductDTO{}, err
	}

	s.cache.Invalidate(id)
	return models.ToProductDTO(product), nil
}

// DeleteProduct soft-deletes: the row stays for order history.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	log.Printf("Soft deleting product %d", id)

	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// DecreaseStock is the standalone inventory operation: one conditional
// UPDATE in its own transaction. Zero affected rows means either the product
// is missing (NotFound) or stock is short (BusinessError).
func (s *ProductService) DecreaseStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 1 {
		return errs.Validation("quantity must be at least 1, got %d", quantity)
	}

	affected, err := s.products.DecreaseStock(ctx, id, quantity)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		return errs.Business("insufficient stock for product: %d", id)
	}

	s.cache.Invalidate(id)
	return nil
}

func toProductDTOs(products []models.Product) []models.ProductDTO {
	dtos := make([]models.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, models.ToProductDTO(&products[i]))
	}
	return dtos
}
