package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"smilecare.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByMobile(ctx context.Context, mobile string) (*entities.User, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetBySocialID(ctx context.Context, provider entities.SocialProvider, socialID string) (*entities.User, error) {
	args := m.Called(ctx, provider, socialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) LinkSocialID(ctx context.Context, id uuid.UUID, provider entities.SocialProvider, socialID string) error {
	args := m.Called(ctx, id, provider, socialID)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, input *entities.UserUpdate) (*entities.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetOnline(ctx context.Context, id uuid.UUID, online bool, at time.Time) error {
	args := m.Called(ctx, id, online, at)
	return args.Error(0)
}

func (m *MockUserRepository) MarkMobileVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// Mock RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entities.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindValid(ctx context.Context, token string, now time.Time) (*entities.RefreshToken, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *entities.OTPVerification) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) FindActive(ctx context.Context, mobile string, purpose entities.OTPPurpose, now time.Time) (*entities.OTPVerification, error) {
	args := m.Called(ctx, mobile, purpose, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OTPVerification), args.Error(1)
}

func (m *MockOTPRepository) FindActiveByCode(ctx context.Context, mobile string, purpose entities.OTPPurpose, code string, now time.Time) (*entities.OTPVerification, error) {
	args := m.Called(ctx, mobile, purpose, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OTPVerification), args.Error(1)
}

func (m *MockOTPRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOTPRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ProviderRepository
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *entities.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, userID uuid.UUID, input *entities.ProviderUpdate) (*entities.Provider, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

func (m *MockProviderRepository) List(ctx context.Context, filter entities.ProviderFilter) ([]*entities.Provider, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Provider), args.Get(1).(int64), args.Error(2)
}

func (m *MockProviderRepository) Delete(ctx context.Context, userID uuid.UUID) (*entities.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Provider), args.Error(1)
}

// Mock PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *entities.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Patient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, userID uuid.UUID, input *entities.PatientUpdate) (*entities.Patient, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, filter entities.PatientFilter) ([]*entities.Patient, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Patient), args.Get(1).(int64), args.Error(2)
}

func (m *MockPatientRepository) Delete(ctx context.Context, userID uuid.UUID) (*entities.Patient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

// Mock ProcedureRepository
type MockProcedureRepository struct {
	mock.Mock
}

func (m *MockProcedureRepository) Create(ctx context.Context, procedure *entities.Procedure) error {
	args := m.Called(ctx, procedure)
	return args.Error(0)
}

func (m *MockProcedureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) Update(ctx context.Context, id uuid.UUID, input *entities.ProcedureUpdate) (*entities.Procedure, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) List(ctx context.Context, filter entities.ProcedureFilter) ([]*entities.Procedure, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Procedure), args.Get(1).(int64), args.Error(2)
}

func (m *MockProcedureRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Procedure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Procedure), args.Error(1)
}

// Mock ProviderFeeRepository
type MockProviderFeeRepository struct {
	mock.Mock
}

func (m *MockProviderFeeRepository) Upsert(ctx context.Context, fee *entities.ProviderProcedureFee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *MockProviderFeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProviderProcedureFee), args.Error(1)
}

func (m *MockProviderFeeRepository) List(ctx context.Context, filter entities.FeeFilter) ([]*entities.ProviderProcedureFee, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ProviderProcedureFee), args.Get(1).(int64), args.Error(2)
}

func (m *MockProviderFeeRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.ProviderProcedureFee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProviderProcedureFee), args.Error(1)
}

// Mock AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.AppointmentUpdate) (*entities.Appointment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

// Mock PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.PaymentUpdate) (*entities.Payment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter entities.PaymentFilter) ([]*entities.Payment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

// Mock DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *entities.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, id uuid.UUID, input *entities.DocumentUpdate) (*entities.Document, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, filter entities.DocumentFilter) ([]*entities.Document, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

// Mock TreatmentPlanRepository
type MockTreatmentPlanRepository struct {
	mock.Mock
}

func (m *MockTreatmentPlanRepository) Create(ctx context.Context, plan *entities.TreatmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTreatmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TreatmentPlan), args.Error(1)
}

func (m *MockTreatmentPlanRepository) Update(ctx context.Context, id uuid.UUID, input *entities.TreatmentPlanUpdate) (*entities.TreatmentPlan, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TreatmentPlan), args.Error(1)
}

func (m *MockTreatmentPlanRepository) List(ctx context.Context, filter entities.TreatmentPlanFilter) ([]*entities.TreatmentPlan, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.TreatmentPlan), args.Get(1).(int64), args.Error(2)
}

func (m *MockTreatmentPlanRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.TreatmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TreatmentPlan), args.Error(1)
}

// Mock SupportTicketRepository
type MockSupportTicketRepository struct {
	mock.Mock
}

func (m *MockSupportTicketRepository) Create(ctx context.Context, ticket *entities.SupportTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockSupportTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SupportTicket), args.Error(1)
}

func (m *MockSupportTicketRepository) Update(ctx context.Context, id uuid.UUID, input *entities.TicketUpdate) (*entities.SupportTicket, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SupportTicket), args.Error(1)
}

func (m *MockSupportTicketRepository) List(ctx context.Context, filter entities.TicketFilter) ([]*entities.SupportTicket, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.SupportTicket), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupportTicketRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SupportTicket), args.Error(1)
}

func (m *MockSupportTicketRepository) CreateReply(ctx context.Context, reply *entities.TicketReply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockSupportTicketRepository) ListReplies(ctx context.Context, ticketID uuid.UUID) ([]*entities.TicketReply, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TicketReply), args.Error(1)
}

// Mock ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) FindOrCreateConversation(ctx context.Context, patientID, providerID uuid.UUID) (*entities.Conversation, error) {
	args := m.Called(ctx, patientID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Conversation), args.Error(1)
}

func (m *MockChatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Conversation), args.Error(1)
}

func (m *MockChatRepository) ListConversations(ctx context.Context, filter entities.ConversationFilter) ([]*entities.Conversation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Conversation), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]*entities.Message, int64, error) {
	args := m.Called(ctx, conversationID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Message), args.Get(1).(int64), args.Error(2)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock OTPDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Send(ctx context.Context, msg entities.OTPDelivery) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Mock SocialVerifier
type MockSocialVerifier struct {
	mock.Mock
}

func (m *MockSocialVerifier) Verify(ctx context.Context, provider entities.SocialProvider, token string) (*entities.SocialIdentity, error) {
	args := m.Called(ctx, provider, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SocialIdentity), args.Error(1)
}

// Mock ChatNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(userIDs []uuid.UUID, event entities.ChatEvent) {
	m.Called(userIDs, event)
}
