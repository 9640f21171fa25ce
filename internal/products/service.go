package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/db"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
)

type productRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID) ([]models.Product, error)
	ListActive(ctx context.Context, input ListInput) (*ProductList, error)
}

type storeLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error)
}

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, supplierStoreID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, supplierStoreID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Deactivate(ctx context.Context, supplierStoreID, productID uuid.UUID) error
	GetByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID) ([]ProductDTO, error)
	Browse(ctx context.Context, input ListInput) (*ProductList, error)
}

type service struct {
	repo     productRepository
	storeSvc storeLoader
}

// NewService builds a product service with the provided dependencies.
func NewService(repo productRepository, storeSvc storeLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service required")
	}
	return &service{repo: repo, storeSvc: storeSvc}, nil
}

func (s *service) Create(ctx context.Context, supplierStoreID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	store, err := s.storeSvc.GetByID(ctx, supplierStoreID)
	if err != nil {
		return nil, err
	}
	if err := stores.RequireVerifiedSupplier(store); err != nil {
		return nil, err
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	row := &models.Product{
		SupplierStoreID: supplierStoreID,
		SKU:             strings.TrimSpace(input.SKU),
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		Unit:            defaultUnit(input.Unit),
		UnitPriceCents:  input.UnitPriceCents,
		MOQ:             defaultMOQ(input.MOQ),
		StockQty:        input.StockQty,
		IsActive:        true,
		DeliveryRegions: input.DeliveryRegions,
	}

	created, err := s.repo.CreateProduct(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists for this supplier")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ToDTO(created), nil
}

func (s *service) Update(ctx context.Context, supplierStoreID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.ownedProduct(ctx, supplierStoreID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Category != nil {
		row.Category = input.Category
	}
	if input.Unit != nil {
		row.Unit = defaultUnit(*input.Unit)
	}
	if input.UnitPriceCents != nil {
		if *input.UnitPriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
		}
		row.UnitPriceCents = *input.UnitPriceCents
	}
	if input.MOQ != nil {
		if *input.MOQ < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "moq must be at least 1")
		}
		row.MOQ = *input.MOQ
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		row.StockQty = *input.StockQty
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.DeliveryRegions != nil {
		row.DeliveryRegions = *input.DeliveryRegions
	}

	updated, err := s.repo.UpdateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return ToDTO(updated), nil
}

func (s *service) Deactivate(ctx context.Context, supplierStoreID, productID uuid.UUID) error {
	row, err := s.ownedProduct(ctx, supplierStoreID, productID)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return nil
	}
	row.IsActive = false
	if _, err := s.repo.UpdateProduct(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return ToDTO(row), nil
}

func (s *service) ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySupplier(ctx, supplierStoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier products")
	}
	out := make([]ProductDTO, len(rows))
	for i := range rows {
		out[i] = *ToDTO(&rows[i])
	}
	return out, nil
}

func (s *service) Browse(ctx context.Context, input ListInput) (*ProductList, error) {
	list, err := s.repo.ListActive(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse products")
	}
	return list, nil
}

func (s *service) ownedProduct(ctx context.Context, supplierStoreID, productID uuid.UUID) (*models.Product, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if row.SupplierStoreID != supplierStoreID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}
	return row, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.UnitPriceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if input.MOQ < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "moq cannot be negative")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func defaultUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "piece"
	}
	return unit
}

func defaultMOQ(moq int) int {
	if moq < 1 {
		return 1
	}
	return moq
}
