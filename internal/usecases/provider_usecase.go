package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
)

const maxClinicPhotos = 10

// ProviderUsecase handles provider profiles and their procedure fees
type ProviderUsecase struct {
	providerRepo  repositories.ProviderRepository
	userRepo      repositories.UserRepository
	procedureRepo repositories.ProcedureRepository
	feeRepo       repositories.ProviderFeeRepository
	uow           repositories.UnitOfWork
}

// NewProviderUsecase creates a new provider usecase
func NewProviderUsecase(
	providerRepo repositories.ProviderRepository,
	userRepo repositories.UserRepository,
	procedureRepo repositories.ProcedureRepository,
	feeRepo repositories.ProviderFeeRepository,
	uow repositories.UnitOfWork,
) *ProviderUsecase {
	return &ProviderUsecase{
		providerRepo:  providerRepo,
		userRepo:      userRepo,
		procedureRepo: procedureRepo,
		feeRepo:       feeRepo,
		uow:           uow,
	}
}

// List returns a page of providers
func (u *ProviderUsecase) List(ctx context.Context, filter entities.ProviderFilter) ([]*entities.Provider, int64, error) {
	return u.providerRepo.List(ctx, filter)
}

// GetByID returns a provider profile
func (u *ProviderUsecase) GetByID(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	return u.providerRepo.GetByUserID(ctx, userID)
}

// Create adds the profile of an existing provider-type user
func (u *ProviderUsecase) Create(ctx context.Context, input *entities.CreateProviderInput) (*entities.Provider, error) {
	if err := requireUserOfType(ctx, u.userRepo, input.UserID, entities.UserRoleProvider); err != nil {
		return nil, err
	}
	if input.ConsultationFee.IsNegative() {
		return nil, domainerrors.BadRequest("Consultation fee cannot be negative")
	}

	provider := &entities.Provider{
		UserID:          input.UserID,
		Specialization:  strings.TrimSpace(input.Specialization),
		LicenseNumber:   strings.TrimSpace(input.LicenseNumber),
		ClinicName:      input.ClinicName,
		ClinicAddress:   input.ClinicAddress,
		ExperienceYears: input.ExperienceYears,
		Bio:             input.Bio,
		ConsultationFee: input.ConsultationFee,
		Specialties:     input.Specialties,
		Languages:       input.Languages,
		IsAvailable:     input.IsAvailable == nil || *input.IsAvailable,
	}
	if err := u.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return u.providerRepo.GetByUserID(ctx, provider.UserID)
}

// Update edits a profile. Providers may only edit their own.
func (u *ProviderUsecase) Update(ctx context.Context, actor *entities.User, userID uuid.UUID, input *entities.ProviderUpdate) (*entities.Provider, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	if input.ConsultationFee != nil && input.ConsultationFee.IsNegative() {
		return nil, domainerrors.BadRequest("Consultation fee cannot be negative")
	}
	input.ClinicPhotos = nil
	return u.providerRepo.Update(ctx, userID, input)
}

// SetClinicPhotos appends or replaces clinic photos.
// Replaced files are returned so the caller can remove them from storage.
func (u *ProviderUsecase) SetClinicPhotos(ctx context.Context, actor *entities.User, userID uuid.UUID, photos []entities.FileMeta, mode entities.FileMode) (*entities.Provider, []entities.FileMeta, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, nil, err
	}
	if len(photos) == 0 {
		return nil, nil, domainerrors.BadRequest("At least one photo is required")
	}

	current, err := u.providerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	next, removed := mergeFiles(current.ClinicPhotos, photos, mode)
	if len(next) > maxClinicPhotos {
		return nil, nil, domainerrors.BadRequest("A provider can have at most 10 clinic photos")
	}

	provider, err := u.providerRepo.Update(ctx, userID, &entities.ProviderUpdate{ClinicPhotos: &next})
	if err != nil {
		return nil, nil, err
	}
	return provider, removed, nil
}

// Delete removes a provider profile
func (u *ProviderUsecase) Delete(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	return u.providerRepo.Delete(ctx, userID)
}

// ListFees returns the fees of a provider
func (u *ProviderUsecase) ListFees(ctx context.Context, filter entities.FeeFilter) ([]*entities.ProviderProcedureFee, int64, error) {
	return u.feeRepo.List(ctx, filter)
}

// UpsertFee sets the fee of one procedure
func (u *ProviderUsecase) UpsertFee(ctx context.Context, actor *entities.User, providerID uuid.UUID, input *entities.UpsertFeeInput) (*entities.ProviderProcedureFee, error) {
	if err := requireSelfOrAdmin(actor, providerID); err != nil {
		return nil, err
	}
	if _, err := u.providerRepo.GetByUserID(ctx, providerID); err != nil {
		return nil, err
	}
	return u.upsertFee(ctx, providerID, *input)
}

// BulkUpsertFees sets many fees in one transaction; any failure discards every write
func (u *ProviderUsecase) BulkUpsertFees(ctx context.Context, actor *entities.User, providerID uuid.UUID, input *entities.BulkUpsertFeesInput) ([]*entities.ProviderProcedureFee, error) {
	if err := requireSelfOrAdmin(actor, providerID); err != nil {
		return nil, err
	}
	if _, err := u.providerRepo.GetByUserID(ctx, providerID); err != nil {
		return nil, err
	}

	fees := make([]*entities.ProviderProcedureFee, 0, len(input.Fees))
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		for _, item := range input.Fees {
			fee, err := u.upsertFee(txCtx, providerID, item)
			if err != nil {
				return err
			}
			fees = append(fees, fee)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (u *ProviderUsecase) upsertFee(ctx context.Context, providerID uuid.UUID, input entities.UpsertFeeInput) (*entities.ProviderProcedureFee, error) {
	if input.Fee.IsNegative() {
		return nil, domainerrors.BadRequest("Fee cannot be negative")
	}
	if _, err := u.procedureRepo.GetByID(ctx, input.ProcedureID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.BadRequest("Procedure not found")
		}
		return nil, err
	}

	fee := &entities.ProviderProcedureFee{
		ProviderID:  providerID,
		ProcedureID: input.ProcedureID,
		Fee:         input.Fee,
	}
	if err := u.feeRepo.Upsert(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// DeleteFee removes a fee that belongs to the provider
func (u *ProviderUsecase) DeleteFee(ctx context.Context, actor *entities.User, providerID, feeID uuid.UUID) (*entities.ProviderProcedureFee, error) {
	if err := requireSelfOrAdmin(actor, providerID); err != nil {
		return nil, err
	}
	fee, err := u.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if fee.ProviderID != providerID {
		return nil, domainerrors.ErrNotFound
	}
	return u.feeRepo.Delete(ctx, feeID)
}

func requireSelfOrAdmin(actor *entities.User, userID uuid.UUID) error {
	if isAdmin(actor) || (actor != nil && actor.ID == userID) {
		return nil
	}
	return domainerrors.ErrForbidden
}

// requireUserOfType fails with 400 when the user is missing or has another role
func requireUserOfType(ctx context.Context, repo repositories.UserRepository, id uuid.UUID, role entities.UserRole) error {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.BadRequest("User not found")
		}
		return err
	}
	if user.UserType != role {
		return domainerrors.BadRequest("User is not a " + string(role))
	}
	return nil
}

// mergeFiles applies an upload mode and reports the files dropped from the set
func mergeFiles(existing, incoming []entities.FileMeta, mode entities.FileMode) ([]entities.FileMeta, []entities.FileMeta) {
	if mode == entities.FileModeAppend {
		merged := make([]entities.FileMeta, 0, len(existing)+len(incoming))
		merged = append(merged, existing...)
		return append(merged, incoming...), nil
	}
	return incoming, existing
}
