package rfq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/internal/orders"
	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/config"
	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*stores.StoreDTO, error)
}

type productLoader interface {
	GetByID(ctx context.Context, productID uuid.UUID) (*product.ProductDTO, error)
}

// Service drives the RFQ negotiation lifecycle.
type Service interface {
	Create(ctx context.Context, buyerStoreID uuid.UUID, input CreateRFQInput) (*models.RFQ, error)
	GetByID(ctx context.Context, storeID, rfqID uuid.UUID) (*models.RFQ, error)
	ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*RFQList, error)
	ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*RFQList, error)
	SubmitQuote(ctx context.Context, supplierStoreID uuid.UUID, input SubmitQuoteInput) (*models.Quote, error)
	AcceptQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error
	RejectQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error
	Counter(ctx context.Context, actorStoreID uuid.UUID, input CounterInput) (*models.QuoteRevision, error)
	ConvertToOrder(ctx context.Context, buyerStoreID, rfqID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	store      storeLoader
	products   productLoader
	ordersRepo orders.Repository
	cfg        config.RFQConfig
}

// NewService builds the RFQ service with the required dependencies.
func NewService(repo Repository, tx txRunner, store storeLoader, products productLoader, ordersRepo orders.Repository, cfg config.RFQConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rfq repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if store == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		store:      store,
		products:   products,
		ordersRepo: ordersRepo,
		cfg:        cfg,
	}, nil
}

func (s *service) Create(ctx context.Context, buyerStoreID uuid.UUID, input CreateRFQInput) (*models.RFQ, error) {
	if buyerStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer store id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.TargetPriceCents != nil && !ValidPrice(*input.TargetPriceCents) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target price must be positive")
	}

	buyer, err := s.store.GetByID(ctx, buyerStoreID)
	if err != nil {
		return nil, err
	}
	if err := stores.RequireVerifiedBuyer(buyer); err != nil {
		return nil, err
	}

	listing, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available")
	}
	if !MeetsMOQ(input.Quantity, listing.MOQ) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s requires a minimum order of %d", listing.Name, listing.MOQ))
	}

	now := time.Now()
	expiresAt := ExpiryFrom(now, s.cfg.DefaultExpiryDays)
	if input.ExpiresAt != nil {
		if !input.ExpiresAt.After(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
		}
		expiresAt = *input.ExpiresAt
	}

	rfq := &models.RFQ{
		BuyerStoreID:     buyerStoreID,
		SupplierStoreID:  listing.SupplierStoreID,
		ProductID:        listing.ID,
		Quantity:         input.Quantity,
		TargetPriceCents: input.TargetPriceCents,
		DeliveryAddress:  input.DeliveryAddress,
		Notes:            input.Notes,
		Status:           enums.RFQStatusPending,
		ExpiresAt:        expiresAt,
	}
	created, err := s.repo.CreateRFQ(ctx, rfq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rfq")
	}
	return created, nil
}

func (s *service) GetByID(ctx context.Context, storeID, rfqID uuid.UUID) (*models.RFQ, error) {
	rfq, err := s.loadRFQ(ctx, s.repo, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.BuyerStoreID != storeID && rfq.SupplierStoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "rfq does not belong to store")
	}
	return rfq, nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*RFQList, error) {
	list, err := s.repo.ListByBuyer(ctx, buyerStoreID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer rfqs")
	}
	return list, nil
}

func (s *service) ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*RFQList, error) {
	list, err := s.repo.ListBySupplier(ctx, supplierStoreID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier rfqs")
	}
	return list, nil
}

func (s *service) SubmitQuote(ctx context.Context, supplierStoreID uuid.UUID, input SubmitQuoteInput) (*models.Quote, error) {
	if supplierStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier store id required")
	}
	if !ValidPrice(input.UnitPriceCents) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}

	supplier, err := s.store.GetByID(ctx, supplierStoreID)
	if err != nil {
		return nil, err
	}
	if err := stores.RequireVerifiedSupplier(supplier); err != nil {
		return nil, err
	}

	now := time.Now()
	validUntil := ExpiryFrom(now, s.cfg.QuoteValidityDays)
	if input.ValidUntil != nil {
		if !input.ValidUntil.After(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validity must end in the future")
		}
		validUntil = *input.ValidUntil
	}

	var quote *models.Quote
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rfq, err := s.loadRFQ(ctx, repo, input.RFQID)
		if err != nil {
			return err
		}
		if rfq.SupplierStoreID != supplierStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "rfq is addressed to another supplier")
		}
		if err := s.guardNotExpired(ctx, repo, rfq, now); err != nil {
			return err
		}
		if !rfq.Status.CanTransitionTo(enums.RFQStatusQuoted) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot quote an rfq in state %s", rfq.Status))
		}

		quote = &models.Quote{
			RFQID:           rfq.ID,
			SupplierStoreID: supplierStoreID,
			UnitPriceCents:  input.UnitPriceCents,
			Terms:           input.Terms,
			Status:          enums.QuoteStatusPending,
			ValidUntil:      validUntil,
		}
		if _, err := repo.CreateQuote(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
		}

		revision := &models.QuoteRevision{
			QuoteID:        quote.ID,
			Seq:            1,
			Author:         enums.QuoteAuthorSupplier,
			UnitPriceCents: input.UnitPriceCents,
			Notes:          input.Terms,
		}
		if _, err := repo.CreateQuoteRevision(ctx, revision); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record quote revision")
		}

		if err := repo.UpdateRFQ(ctx, rfq.ID, map[string]any{"status": enums.RFQStatusQuoted}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rfq status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *service) AcceptQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error {
	return s.resolveQuote(ctx, buyerStoreID, quoteID, enums.QuoteStatusAccepted, enums.RFQStatusAccepted)
}

func (s *service) RejectQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID) error {
	return s.resolveQuote(ctx, buyerStoreID, quoteID, enums.QuoteStatusRejected, enums.RFQStatusRejected)
}

// resolveQuote applies the buyer's accept/reject decision to the quote and
// its RFQ in one transaction.
func (s *service) resolveQuote(ctx context.Context, buyerStoreID, quoteID uuid.UUID, quoteTarget enums.QuoteStatus, rfqTarget enums.RFQStatus) error {
	if buyerStoreID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer store id required")
	}

	now := time.Now()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		quote, err := s.loadQuote(ctx, repo, quoteID)
		if err != nil {
			return err
		}
		rfq, err := s.loadRFQ(ctx, repo, quote.RFQID)
		if err != nil {
			return err
		}
		if rfq.BuyerStoreID != buyerStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "quote does not belong to store")
		}
		if err := s.guardNotExpired(ctx, repo, rfq, now); err != nil {
			return err
		}
		if IsExpired(now, quote.ValidUntil) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote validity has lapsed")
		}
		if !quote.Status.CanTransitionTo(quoteTarget) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move quote from %s to %s", quote.Status, quoteTarget))
		}
		if !rfq.Status.CanTransitionTo(rfqTarget) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move rfq from %s to %s", rfq.Status, rfqTarget))
		}

		if err := repo.UpdateQuoteStatus(ctx, quote.ID, quoteTarget); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
		}
		if err := repo.UpdateRFQ(ctx, rfq.ID, map[string]any{"status": rfqTarget}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rfq status")
		}
		return nil
	})
}

// Counter records a counter-offer as the next quote revision and keeps the
// quote in play. Either side may counter; the author must own its side of
// the negotiation.
func (s *service) Counter(ctx context.Context, actorStoreID uuid.UUID, input CounterInput) (*models.QuoteRevision, error) {
	if actorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if !input.Author.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author must be buyer or supplier")
	}
	if !ValidPrice(input.UnitPriceCents) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter price must be positive")
	}

	now := time.Now()
	var revision *models.QuoteRevision
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		quote, err := s.loadQuote(ctx, repo, input.QuoteID)
		if err != nil {
			return err
		}
		rfq, err := s.loadRFQ(ctx, repo, quote.RFQID)
		if err != nil {
			return err
		}

		switch input.Author {
		case enums.QuoteAuthorBuyer:
			if rfq.BuyerStoreID != actorStoreID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "quote does not belong to store")
			}
		case enums.QuoteAuthorSupplier:
			if rfq.SupplierStoreID != actorStoreID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "quote does not belong to store")
			}
		}

		if err := s.guardNotExpired(ctx, repo, rfq, now); err != nil {
			return err
		}
		if IsExpired(now, quote.ValidUntil) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote validity has lapsed")
		}
		if !quote.Status.CanTransitionTo(enums.QuoteStatusCountered) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot counter a quote in state %s", quote.Status))
		}
		if len(quote.Revisions) > 0 {
			last := quote.Revisions[len(quote.Revisions)-1]
			if last.Author == input.Author {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "waiting for the other side to respond")
			}
		}

		revision = &models.QuoteRevision{
			QuoteID:        quote.ID,
			Seq:            len(quote.Revisions) + 1,
			Author:         input.Author,
			UnitPriceCents: input.UnitPriceCents,
			Notes:          input.Notes,
		}
		if _, err := repo.CreateQuoteRevision(ctx, revision); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record counter offer")
		}
		if err := repo.UpdateQuoteStatus(ctx, quote.ID, enums.QuoteStatusCountered); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revision, nil
}

// ConvertToOrder turns an accepted RFQ into a supplier order priced at the
// accepted quote's latest revision.
func (s *service) ConvertToOrder(ctx context.Context, buyerStoreID, rfqID uuid.UUID) (*models.Order, error) {
	if buyerStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer store id required")
	}

	listing, err := func() (*product.ProductDTO, error) {
		rfq, err := s.loadRFQ(ctx, s.repo, rfqID)
		if err != nil {
			return nil, err
		}
		return s.products.GetByID(ctx, rfq.ProductID)
	}()
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		rfq, err := s.loadRFQ(ctx, repo, rfqID)
		if err != nil {
			return err
		}
		if rfq.BuyerStoreID != buyerStoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "rfq does not belong to store")
		}
		if !rfq.Status.CanTransitionTo(enums.RFQStatusConverted) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot convert an rfq in state %s", rfq.Status))
		}

		accepted := acceptedQuote(rfq)
		if accepted == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "rfq has no accepted quote")
		}
		unitPrice := agreedPrice(accepted)

		lineTotal := rfq.Quantity * unitPrice
		order = &models.Order{
			BuyerStoreID:    rfq.BuyerStoreID,
			SupplierStoreID: rfq.SupplierStoreID,
			SourceRFQID:     &rfq.ID,
			Status:          enums.OrderStatusPending,
			DeliveryAddress: &rfq.DeliveryAddress,
			SubtotalCents:   lineTotal,
			TotalCents:      lineTotal,
		}
		if _, err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		item := models.OrderItem{
			OrderID:        order.ID,
			ProductID:      rfq.ProductID,
			ProductName:    listing.Name,
			Quantity:       rfq.Quantity,
			UnitPriceCents: unitPrice,
			LineTotalCents: lineTotal,
		}
		if err := ordersRepo.CreateItems(ctx, []models.OrderItem{item}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
		}
		order.Items = []models.OrderItem{item}

		updates := map[string]any{
			"status":             enums.RFQStatusConverted,
			"converted_order_id": order.ID,
		}
		if err := repo.UpdateRFQ(ctx, rfq.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark rfq converted")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// guardNotExpired lazily expires an overdue RFQ so reads stay truthful even
// between sweeper runs.
func (s *service) guardNotExpired(ctx context.Context, repo Repository, rfq *models.RFQ, now time.Time) error {
	if !IsExpired(now, rfq.ExpiresAt) {
		return nil
	}
	if !rfq.Status.IsTerminal() {
		if err := repo.UpdateRFQ(ctx, rfq.ID, map[string]any{"status": enums.RFQStatusExpired}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire rfq")
		}
		rfq.Status = enums.RFQStatusExpired
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "rfq has expired")
}

func (s *service) loadRFQ(ctx context.Context, repo Repository, id uuid.UUID) (*models.RFQ, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rfq id required")
	}
	rfq, err := repo.FindRFQByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rfq not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rfq")
	}
	return rfq, nil
}

func (s *service) loadQuote(ctx context.Context, repo Repository, id uuid.UUID) (*models.Quote, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	quote, err := repo.FindQuoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func acceptedQuote(rfq *models.RFQ) *models.Quote {
	for i := range rfq.Quotes {
		if rfq.Quotes[i].Status == enums.QuoteStatusAccepted {
			return &rfq.Quotes[i]
		}
	}
	return nil
}

// agreedPrice is the latest revision's price, falling back to the quote's
// own price when no revision history exists.
func agreedPrice(quote *models.Quote) int {
	if len(quote.Revisions) == 0 {
		return quote.UnitPriceCents
	}
	return quote.Revisions[len(quote.Revisions)-1].UnitPriceCents
}
