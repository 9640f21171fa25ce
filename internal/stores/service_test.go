package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazarlink/bazarlink-backend/pkg/db/models"
	"github.com/bazarlink/bazarlink-backend/pkg/enums"
	pkgerrors "github.com/bazarlink/bazarlink-backend/pkg/errors"
	"github.com/bazarlink/bazarlink-backend/pkg/types"
)

type stubStoreRepo struct {
	store   *models.Store
	err     error
	updated *models.Store
}

func (s *stubStoreRepo) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	store := dto.ToModel()
	store.ID = uuid.New()
	return store, nil
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

func (s *stubStoreRepo) Update(ctx context.Context, store *models.Store) error {
	if s.err != nil {
		return s.err
	}
	s.updated = store
	return nil
}

func baseStore() *models.Store {
	phone := "+8801712345678"
	return &models.Store{
		ID:          uuid.New(),
		Type:        enums.StoreTypeBuyer,
		CompanyName: "Dhaka Traders Ltd",
		Phone:       &phone,
		KYCStatus:   enums.KYCStatusVerified,
		Address:     types.Address{Line1: "12 Motijheel C/A", District: "Dhaka", Country: "BD"},
		OwnerID:     uuid.New(),
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	store := baseStore()
	svc, err := NewService(&stubStoreRepo{store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), store.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if dto.ID != store.ID {
		t.Fatalf("expected id %s got %s", store.ID, dto.ID)
	}
	if dto.CompanyName != store.CompanyName {
		t.Fatalf("expected company name %s got %s", store.CompanyName, dto.CompanyName)
	}
	if dto.Address.Line1 != store.Address.Line1 {
		t.Fatalf("address mismatch: expected %s got %s", store.Address.Line1, dto.Address.Line1)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{err: gorm.ErrRecordNotFound})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceGetByIDDependencyError(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", gotErr)
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc, _ := NewService(&stubStoreRepo{})

	_, err := svc.Register(context.Background(), CreateStoreDTO{
		Type:        enums.StoreType("warehouse"),
		CompanyName: "X",
		OwnerID:     uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}

	_, err = svc.Register(context.Background(), CreateStoreDTO{
		Type:        enums.StoreTypeSupplier,
		CompanyName: "  ",
		OwnerID:     uuid.New(),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestServiceRegisterStartsUnverified(t *testing.T) {
	svc, _ := NewService(&stubStoreRepo{})

	dto, err := svc.Register(context.Background(), CreateStoreDTO{
		Type:        enums.StoreTypeSupplier,
		CompanyName: "Chattogram Steel Mills",
		OwnerID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.KYCStatus != enums.KYCStatusPending {
		t.Fatalf("new stores must start pending verification, got %s", dto.KYCStatus)
	}
}

func TestServiceSetKYCStatus(t *testing.T) {
	store := baseStore()
	store.KYCStatus = enums.KYCStatusPending
	repo := &stubStoreRepo{store: store}
	svc, _ := NewService(repo)

	dto, err := svc.SetKYCStatus(context.Background(), store.ID, enums.KYCStatusVerified)
	if err != nil {
		t.Fatalf("set kyc: %v", err)
	}
	if dto.KYCStatus != enums.KYCStatusVerified {
		t.Fatalf("expected verified, got %s", dto.KYCStatus)
	}
	if repo.updated == nil || repo.updated.KYCStatus != enums.KYCStatusVerified {
		t.Fatal("update was not persisted")
	}

	if _, err := svc.SetKYCStatus(context.Background(), store.ID, enums.KYCStatus("maybe")); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestRequireVerifiedBuyer(t *testing.T) {
	verified := &StoreDTO{Type: enums.StoreTypeBuyer, KYCStatus: enums.KYCStatusVerified}
	if err := RequireVerifiedBuyer(verified); err != nil {
		t.Fatalf("verified buyer should pass, got %v", err)
	}

	pending := &StoreDTO{Type: enums.StoreTypeBuyer, KYCStatus: enums.KYCStatusPending}
	if typed := pkgerrors.As(RequireVerifiedBuyer(pending)); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatal("unverified buyer must be forbidden")
	}

	supplier := &StoreDTO{Type: enums.StoreTypeSupplier, KYCStatus: enums.KYCStatusVerified}
	if typed := pkgerrors.As(RequireVerifiedBuyer(supplier)); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatal("supplier store must be rejected by the buyer gate")
	}

	if typed := pkgerrors.As(RequireVerifiedBuyer(nil)); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatal("nil store must be not found")
	}
}

func TestRequireVerifiedSupplier(t *testing.T) {
	verified := &StoreDTO{Type: enums.StoreTypeSupplier, KYCStatus: enums.KYCStatusVerified}
	if err := RequireVerifiedSupplier(verified); err != nil {
		t.Fatalf("verified supplier should pass, got %v", err)
	}

	rejected := &StoreDTO{Type: enums.StoreTypeSupplier, KYCStatus: enums.KYCStatusRejected}
	if typed := pkgerrors.As(RequireVerifiedSupplier(rejected)); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatal("rejected supplier must be forbidden")
	}
}
