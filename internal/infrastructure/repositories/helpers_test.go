package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		mobile_number TEXT,
		password_hash TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		user_type TEXT NOT NULL DEFAULT 'patient',
		profile_picture TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		mobile_verified BOOLEAN NOT NULL DEFAULT 0,
		is_online BOOLEAN NOT NULL DEFAULT 0,
		last_seen DATETIME,
		google_id TEXT UNIQUE,
		facebook_id TEXT UNIQUE,
		apple_id TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createOTPTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE otp_verifications (
		id TEXT PRIMARY KEY,
		mobile_number TEXT NOT NULL,
		otp_code TEXT NOT NULL,
		purpose TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createRefreshTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE refresh_tokens (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		device_info TEXT,
		ip_address TEXT,
		expires_at DATETIME NOT NULL,
		is_revoked BOOLEAN NOT NULL DEFAULT 0,
		revoked_at DATETIME,
		created_at DATETIME
	);`)
}

func createProviderTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE providers (
		user_id TEXT PRIMARY KEY,
		specialization TEXT NOT NULL,
		license_number TEXT NOT NULL UNIQUE,
		clinic_name TEXT,
		clinic_address TEXT,
		experience_years INTEGER NOT NULL DEFAULT 0,
		bio TEXT,
		consultation_fee TEXT NOT NULL DEFAULT '0',
		specialties TEXT,
		languages TEXT,
		clinic_photos TEXT,
		is_available BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPatientTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE patients (
		user_id TEXT PRIMARY KEY,
		date_of_birth TEXT,
		gender TEXT,
		address TEXT,
		blood_group TEXT,
		allergies TEXT,
		medical_history TEXT,
		insurance_provider TEXT,
		insurance_number TEXT,
		emergency_contact_name TEXT,
		emergency_contact_phone TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPlanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		price TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		features TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createProcedureTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE procedures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		code TEXT NOT NULL UNIQUE,
		description TEXT,
		default_fee TEXT NOT NULL DEFAULT '0',
		duration_minutes INTEGER NOT NULL DEFAULT 30,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE provider_procedure_fees (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		procedure_id TEXT NOT NULL,
		fee TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (provider_id, procedure_id)
	);`)
}

func createAppointmentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		appointment_date TEXT NOT NULL,
		appointment_time TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 30,
		type TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled',
		reason TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		appointment_id TEXT,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		method TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		transaction_ref TEXT,
		paid_at DATETIME,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createDocumentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		provider_id TEXT,
		appointment_id TEXT,
		title TEXT NOT NULL,
		document_type TEXT NOT NULL,
		description TEXT,
		files TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTreatmentPlanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE treatment_plans (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		title TEXT NOT NULL,
		diagnosis TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		items TEXT,
		total_cost TEXT NOT NULL DEFAULT '0',
		start_date TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createSupportTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE support_tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT,
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'Open',
		assigned_to TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE ticket_replies (
		id TEXT PRIMARY KEY,
		ticket_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		is_staff BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}

func createChatTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE conversations (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		provider_id TEXT NOT NULL,
		last_message_at DATETIME,
		created_at DATETIME,
		UNIQUE (patient_id, provider_id)
	);`)
	mustExec(t, db, `CREATE TABLE messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		body TEXT NOT NULL,
		read_at DATETIME,
		created_at DATETIME
	);`)
}

// seedUser inserts an active user of the given role and returns it
func seedUser(t *testing.T, db *gorm.DB, role entities.UserRole, first, last string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     null.StringFrom(fmt.Sprintf("%s.%s@smilecare.test", first, uuid.NewString()[:8])),
		FirstName: first,
		LastName:  last,
		UserType:  role,
		IsActive:  true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
