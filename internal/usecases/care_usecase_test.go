package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/usecases"
)

func TestAppointmentUsecase_ListIsScopedToActor(t *testing.T) {
	repo := new(MockAppointmentRepository)
	uc := usecases.NewAppointmentUsecase(repo, new(MockUserRepository))
	patient := actorOf(entities.UserRolePatient)
	provider := actorOf(entities.UserRoleProvider)
	someoneElse := uuid.New()

	repo.On("List", mock.Anything, mock.MatchedBy(func(f entities.AppointmentFilter) bool {
		return f.PatientID != nil && *f.PatientID == patient.ID
	})).Return([]*entities.Appointment{}, int64(0), nil).Once()
	_, _, err := uc.List(context.Background(), patient, entities.AppointmentFilter{PatientID: &someoneElse})
	require.NoError(t, err)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f entities.AppointmentFilter) bool {
		return f.ProviderID != nil && *f.ProviderID == provider.ID && f.PatientID == nil
	})).Return([]*entities.Appointment{}, int64(0), nil).Once()
	_, _, err = uc.List(context.Background(), provider, entities.AppointmentFilter{})
	require.NoError(t, err)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f entities.AppointmentFilter) bool {
		return f.PatientID != nil && *f.PatientID == someoneElse
	})).Return([]*entities.Appointment{}, int64(0), nil).Once()
	_, _, err = uc.List(context.Background(), actorOf(entities.UserRoleAdmin), entities.AppointmentFilter{PatientID: &someoneElse})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestAppointmentUsecase_GetByIDOwnership(t *testing.T) {
	repo := new(MockAppointmentRepository)
	uc := usecases.NewAppointmentUsecase(repo, new(MockUserRepository))
	patient := actorOf(entities.UserRolePatient)
	provider := actorOf(entities.UserRoleProvider)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&entities.Appointment{ID: id, PatientID: patient.ID, ProviderID: provider.ID}, nil)

	_, err := uc.GetByID(context.Background(), patient, id)
	require.NoError(t, err)
	_, err = uc.GetByID(context.Background(), provider, id)
	require.NoError(t, err)
	_, err = uc.GetByID(context.Background(), actorOf(entities.UserRolePatient), id)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = uc.GetByID(context.Background(), actorOf(entities.UserRoleProvider), id)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAppointmentUsecase_CreateForcesPatientAndChecksTypes(t *testing.T) {
	repo := new(MockAppointmentRepository)
	userRepo := new(MockUserRepository)
	uc := usecases.NewAppointmentUsecase(repo, userRepo)
	patient := actorOf(entities.UserRolePatient)
	provider := actorOf(entities.UserRoleProvider)

	userRepo.On("GetByID", mock.Anything, patient.ID).Return(patient, nil)
	userRepo.On("GetByID", mock.Anything, provider.ID).Return(provider, nil)

	created := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
		return a.PatientID == patient.ID && a.Status == entities.AppointmentScheduled
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Appointment).ID = created
	}).Return(nil).Once()
	repo.On("GetByID", mock.Anything, created).Return(&entities.Appointment{ID: created}, nil).Once()

	input := &entities.CreateAppointmentInput{
		PatientID:       uuid.New(),
		ProviderID:      provider.ID,
		AppointmentDate: "2025-03-09",
		AppointmentTime: "10:30",
	}
	appointment, err := uc.Create(context.Background(), patient, input)
	require.NoError(t, err)
	assert.Equal(t, created, appointment.ID)

	// the provider side must really be a provider
	_, err = uc.Create(context.Background(), patient, &entities.CreateAppointmentInput{ProviderID: patient.ID})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Equal(t, "User is not a provider", domainerrors.FromError(err).Message)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestAppointmentUsecase_PatientsMayOnlyCancel(t *testing.T) {
	repo := new(MockAppointmentRepository)
	uc := usecases.NewAppointmentUsecase(repo, new(MockUserRepository))
	patient := actorOf(entities.UserRolePatient)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&entities.Appointment{ID: id, PatientID: patient.ID, ProviderID: uuid.New()}, nil)

	confirmed := entities.AppointmentConfirmed
	_, err := uc.Update(context.Background(), patient, id, &entities.AppointmentUpdate{Status: &confirmed})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	cancelled := entities.AppointmentCancelled
	repo.On("Update", mock.Anything, id, mock.Anything).Return(&entities.Appointment{ID: id, Status: cancelled}, nil).Once()
	appointment, err := uc.Update(context.Background(), patient, id, &entities.AppointmentUpdate{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, cancelled, appointment.Status)
}

func TestPaymentUsecase_Create(t *testing.T) {
	repo := new(MockPaymentRepository)
	uc := usecases.NewPaymentUsecase(repo)
	provider := actorOf(entities.UserRoleProvider)

	_, err := uc.Create(context.Background(), provider, &entities.CreatePaymentInput{ProviderID: uuid.New(), Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = uc.Create(context.Background(), provider, &entities.CreatePaymentInput{ProviderID: provider.ID, Amount: decimal.Zero})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Payment) bool {
		return p.Status == entities.PaymentStatusPending && p.Amount.Equal(decimal.RequireFromString("49.90"))
	})).Return(nil).Once()
	repo.On("GetByID", mock.Anything, mock.Anything).Return(&entities.Payment{Status: entities.PaymentStatusPending}, nil).Once()

	payment, err := uc.Create(context.Background(), provider, &entities.CreatePaymentInput{
		PatientID: uuid.New(), ProviderID: provider.ID, Amount: decimal.RequireFromString("49.90"), Method: entities.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusPending, payment.Status)
	repo.AssertExpectations(t)
}

func TestDocumentUsecase_UpdateModes(t *testing.T) {
	repo := new(MockDocumentRepository)
	uc := usecases.NewDocumentUsecase(repo)
	patient := actorOf(entities.UserRolePatient)
	id := uuid.New()
	existing := []entities.FileMeta{{Path: "old-1.pdf"}, {Path: "old-2.pdf"}}
	incoming := []entities.FileMeta{{Path: "new.pdf"}}

	repo.On("GetByID", mock.Anything, id).Return(&entities.Document{ID: id, PatientID: patient.ID, Files: existing}, nil)

	var written []entities.FileMeta
	repo.On("Update", mock.Anything, id, mock.AnythingOfType("*entities.DocumentUpdate")).Run(func(args mock.Arguments) {
		written = *args.Get(2).(*entities.DocumentUpdate).Files
	}).Return(&entities.Document{ID: id}, nil)

	_, removed, err := uc.Update(context.Background(), patient, id, &entities.DocumentUpdate{}, incoming, entities.FileModeReplace)
	require.NoError(t, err)
	assert.Equal(t, incoming, written)
	assert.Equal(t, existing, removed)

	_, removed, err = uc.Update(context.Background(), patient, id, &entities.DocumentUpdate{}, incoming, entities.FileModeAppend)
	require.NoError(t, err)
	assert.Len(t, written, 3)
	assert.Empty(t, removed)

	_, _, err = uc.Update(context.Background(), patient, id, &entities.DocumentUpdate{}, make([]entities.FileMeta, 9), entities.FileModeAppend)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, _, err = uc.Update(context.Background(), actorOf(entities.UserRolePatient), id, &entities.DocumentUpdate{}, incoming, entities.FileModeReplace)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDocumentUsecase_CreateRequiresFiles(t *testing.T) {
	repo := new(MockDocumentRepository)
	uc := usecases.NewDocumentUsecase(repo)
	provider := actorOf(entities.UserRoleProvider)

	_, err := uc.Create(context.Background(), provider, &entities.NewDocument{Title: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.Create(context.Background(), provider, &entities.NewDocument{PatientID: uuid.New(), Title: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(d *entities.Document) bool {
		return d.ProviderID != nil && *d.ProviderID == provider.ID
	})).Return(nil).Once()
	repo.On("GetByID", mock.Anything, mock.Anything).Return(&entities.Document{}, nil).Once()
	_, err = uc.Create(context.Background(), provider, &entities.NewDocument{PatientID: uuid.New(), Title: "x", Files: []entities.FileMeta{{Path: "a"}}})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTreatmentPlanUsecase_CreateValidatesItems(t *testing.T) {
	repo := new(MockTreatmentPlanRepository)
	userRepo := new(MockUserRepository)
	uc := usecases.NewTreatmentPlanUsecase(repo, userRepo)
	provider := actorOf(entities.UserRoleProvider)
	patient := actorOf(entities.UserRolePatient)

	_, err := uc.Create(context.Background(), provider, &entities.CreateTreatmentPlanInput{
		PatientID: patient.ID,
		Items:     []entities.TreatmentItem{{Description: "crown", Cost: decimal.NewFromInt(-5)}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	userRepo.On("GetByID", mock.Anything, patient.ID).Return(patient, nil)
	userRepo.On("GetByID", mock.Anything, provider.ID).Return(provider, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.TreatmentPlan) bool {
		return p.ProviderID == provider.ID && p.Status == entities.TreatmentPlanDraft
	})).Return(nil).Once()
	repo.On("GetByID", mock.Anything, mock.Anything).Return(&entities.TreatmentPlan{}, nil).Once()

	_, err = uc.Create(context.Background(), provider, &entities.CreateTreatmentPlanInput{
		PatientID: patient.ID,
		Title:     "Upper arch",
		Items:     []entities.TreatmentItem{{Description: "crown", Cost: decimal.NewFromInt(300)}},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTreatmentPlanUsecase_PatientMayOnlyAcceptOrCancel(t *testing.T) {
	repo := new(MockTreatmentPlanRepository)
	uc := usecases.NewTreatmentPlanUsecase(repo, new(MockUserRepository))
	patient := actorOf(entities.UserRolePatient)
	plan := &entities.TreatmentPlan{ID: uuid.New(), PatientID: patient.ID, ProviderID: uuid.New(), Status: entities.TreatmentPlanProposed}
	repo.On("GetByID", mock.Anything, plan.ID).Return(plan, nil)

	completed := entities.TreatmentPlanCompleted
	notes := "discount applied"
	items := []entities.TreatmentItem{{Description: "crown", Cost: decimal.Zero}}
	for name, input := range map[string]*entities.TreatmentPlanUpdate{
		"status":       {Status: &completed},
		"items":        {Items: &items},
		"notes":        {Notes: &notes},
		"status+items": {Status: statusPtr(entities.TreatmentPlanAccepted), Items: &items},
	} {
		_, err := uc.Update(context.Background(), patient, plan.ID, input)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden, name)
	}
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	accept := &entities.TreatmentPlanUpdate{Status: statusPtr(entities.TreatmentPlanAccepted)}
	repo.On("Update", mock.Anything, plan.ID, accept).Return(&entities.TreatmentPlan{ID: plan.ID, Status: entities.TreatmentPlanAccepted}, nil).Once()
	got, err := uc.Update(context.Background(), patient, plan.ID, accept)
	require.NoError(t, err)
	assert.Equal(t, entities.TreatmentPlanAccepted, got.Status)

	cancel := &entities.TreatmentPlanUpdate{Status: statusPtr(entities.TreatmentPlanCancelled)}
	repo.On("Update", mock.Anything, plan.ID, cancel).Return(&entities.TreatmentPlan{ID: plan.ID, Status: entities.TreatmentPlanCancelled}, nil).Once()
	_, err = uc.Update(context.Background(), patient, plan.ID, cancel)
	require.NoError(t, err)

	provider := &entities.User{ID: plan.ProviderID, UserType: entities.UserRoleProvider, IsActive: true}
	edit := &entities.TreatmentPlanUpdate{Status: &completed, Notes: &notes}
	repo.On("Update", mock.Anything, plan.ID, edit).Return(plan, nil).Once()
	_, err = uc.Update(context.Background(), provider, plan.ID, edit)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func statusPtr(s entities.TreatmentPlanStatus) *entities.TreatmentPlanStatus {
	return &s
}

func TestPatientUsecase_SelfScoping(t *testing.T) {
	repo := new(MockPatientRepository)
	userRepo := new(MockUserRepository)
	uc := usecases.NewPatientUsecase(repo, userRepo)
	patient := actorOf(entities.UserRolePatient)

	_, err := uc.GetByID(context.Background(), patient, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	userRepo.On("GetByID", mock.Anything, patient.ID).Return(patient, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Patient) bool {
		return p.UserID == patient.ID
	})).Return(nil).Once()
	repo.On("GetByUserID", mock.Anything, patient.ID).Return(&entities.Patient{UserID: patient.ID}, nil).Once()

	created, err := uc.Create(context.Background(), patient, &entities.CreatePatientInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, patient.ID, created.UserID)
}

func TestUserUsecase_DeactivationRevokesSessions(t *testing.T) {
	userRepo := new(MockUserRepository)
	refreshRepo := new(MockRefreshTokenRepository)
	uc := usecases.NewUserUsecase(userRepo, refreshRepo)
	id := uuid.New()

	userRepo.On("Update", mock.Anything, id, mock.Anything).Return(&entities.User{ID: id}, nil)
	refreshRepo.On("RevokeAllForUser", mock.Anything, id).Return(int64(2), nil).Once()

	user, err := uc.SetStatus(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = uc.SetStatus(context.Background(), id, true)
	require.NoError(t, err)
	refreshRepo.AssertNumberOfCalls(t, "RevokeAllForUser", 1)

	bogus := "superuser"
	_, err = uc.Update(context.Background(), id, &entities.UserUpdate{UserType: &bogus})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestUserUsecase_UpdateProfileReturnsPreviousPicture(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewUserUsecase(userRepo, new(MockRefreshTokenRepository))
	current := actorOf(entities.UserRolePatient)
	current.ProfilePicture.SetValid("/uploads/2024/01/01/old.png")

	userRepo.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	userRepo.On("Update", mock.Anything, current.ID, mock.Anything).Return(&entities.User{ID: current.ID}, nil).Once()

	_, previous, err := uc.UpdateProfile(context.Background(), current.ID, &entities.ProfileUpdateInput{}, &entities.FileMeta{URL: "/uploads/new.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2024/01/01/old.png", previous)

	_, _, err = uc.UpdateProfile(context.Background(), current.ID, &entities.ProfileUpdateInput{}, nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
