package rfq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	"github.com/bazarlink/bazarlink-backend/pkg/pagination"
)

// Repository defines persistence operations for RFQs and quotes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRFQ(ctx context.Context, rfq *models.RFQ) (*models.RFQ, error)
	FindRFQByID(ctx context.Context, id uuid.UUID) (*models.RFQ, error)
	UpdateRFQ(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*RFQList, error)
	ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*RFQList, error)
	CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindQuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	UpdateQuoteStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error
	CreateQuoteRevision(ctx context.Context, revision *models.QuoteRevision) (*models.QuoteRevision, error)
	FindExpiredRFQIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	ExpireRFQs(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExpireQuotes(ctx context.Context, now time.Time, limit int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an RFQ repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRFQ(ctx context.Context, rfq *models.RFQ) (*models.RFQ, error) {
	if err := r.db.WithContext(ctx).Omit("Quotes").Create(rfq).Error; err != nil {
		return nil, err
	}
	return rfq, nil
}

func (r *repository) FindRFQByID(ctx context.Context, id uuid.UUID) (*models.RFQ, error) {
	var rfq models.RFQ
	err := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Quotes.Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("id = ?", id).
		First(&rfq).Error
	if err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *repository) UpdateRFQ(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.RFQ{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListByBuyer(ctx context.Context, buyerStoreID uuid.UUID, params pagination.Params) (*RFQList, error) {
	return r.list(ctx, "buyer_store_id = ?", buyerStoreID, params)
}

func (r *repository) ListBySupplier(ctx context.Context, supplierStoreID uuid.UUID, params pagination.Params) (*RFQList, error) {
	return r.list(ctx, "supplier_store_id = ?", supplierStoreID, params)
}

func (r *repository) list(ctx context.Context, where string, storeID uuid.UUID, params pagination.Params) (*RFQList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.RFQ{}).
		Preload("Quotes").
		Where(where, storeID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.RFQ
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &RFQList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	list.RFQs = make([]RFQSummary, len(rows))
	for i := range rows {
		list.RFQs[i] = toSummary(&rows[i])
	}
	return list, nil
}

func (r *repository) CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Omit("Revisions").Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindQuoteByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) UpdateQuoteStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) CreateQuoteRevision(ctx context.Context, revision *models.QuoteRevision) (*models.QuoteRevision, error) {
	if err := r.db.WithContext(ctx).Create(revision).Error; err != nil {
		return nil, err
	}
	return revision, nil
}

// FindExpiredRFQIDs returns ids of non-terminal RFQs whose deadline passed.
func (r *repository) FindExpiredRFQIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.RFQ{}).
		Where("status IN ? AND expires_at <= ?", openRFQStatuses(), now).
		Order("expires_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) ExpireRFQs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.RFQ{}).
		Where("id IN ? AND status IN ?", ids, openRFQStatuses()).
		Update("status", enums.RFQStatusExpired)
	return res.RowsAffected, res.Error
}

// ExpireQuotes marks open quotes past their validity window as expired.
func (r *repository) ExpireQuotes(ctx context.Context, now time.Time, limit int) (int64, error) {
	sub := r.db.
		Model(&models.Quote{}).
		Select("id").
		Where("status IN ? AND valid_until <= ?",
			[]enums.QuoteStatus{enums.QuoteStatusPending, enums.QuoteStatusCountered}, now).
		Limit(limit)

	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id IN (?)", sub).
		Update("status", enums.QuoteStatusExpired)
	return res.RowsAffected, res.Error
}

func openRFQStatuses() []enums.RFQStatus {
	return []enums.RFQStatus{
		enums.RFQStatusPending,
		enums.RFQStatusQuoted,
		enums.RFQStatusAccepted,
	}
}
