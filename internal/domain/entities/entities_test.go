package entities

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestParseUserRole(t *testing.T) {
	for in, want := range map[string]UserRole{
		"admin":      UserRoleAdmin,
		" Provider ": UserRoleProvider,
		"PATIENT":    UserRolePatient,
	} {
		got, err := ParseUserRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseUserRole("superuser")
	assert.Error(t, err)
	_, err = ParseUserRole("")
	assert.Error(t, err)
}

func TestUser_SanitizeNeverLeaksHash(t *testing.T) {
	u := &User{
		ID:           uuid.New(),
		Email:        null.StringFrom("a@x.com"),
		PasswordHash: null.StringFrom("$2a$12$hash"),
		FirstName:    "Ana",
		LastName:     "Lee",
		UserType:     UserRolePatient,
		GoogleID:     null.StringFrom("g-1"),
	}

	clean := u.Sanitize()
	assert.False(t, clean.PasswordHash.Valid)
	assert.True(t, u.PasswordHash.Valid, "original must be untouched")

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "passwordHash")
	assert.Contains(t, string(raw), `"userType":"patient"`)

	assert.Nil(t, (*User)(nil).Sanitize())
	assert.Equal(t, "Ana Lee", u.FullName())
	assert.True(t, u.HasPassword())
	assert.Equal(t, "g-1", u.SocialID(SocialGoogle).String)
	assert.False(t, u.SocialID(SocialApple).Valid)
}

func TestSocialProviderColumn(t *testing.T) {
	col, ok := SocialGoogle.Column()
	assert.True(t, ok)
	assert.Equal(t, "google_id", col)
	col, _ = SocialFacebook.Column()
	assert.Equal(t, "facebook_id", col)
	col, _ = SocialApple.Column()
	assert.Equal(t, "apple_id", col)
	_, ok = SocialProvider("github").Column()
	assert.False(t, ok)
}

func TestOTPPurposeValid(t *testing.T) {
	assert.True(t, OTPPurposeLogin.Valid())
	assert.True(t, OTPPurposeRegistration.Valid())
	assert.True(t, OTPPurposePasswordReset.Valid())
	assert.False(t, OTPPurpose("signup").Valid())
}

func TestParseFileMode(t *testing.T) {
	m, ok := ParseFileMode("")
	assert.True(t, ok)
	assert.Equal(t, FileModeReplace, m)
	m, ok = ParseFileMode("append")
	assert.True(t, ok)
	assert.Equal(t, FileModeAppend, m)
	_, ok = ParseFileMode("merge")
	assert.False(t, ok)
}

func TestSumItemCostsAndEmptyUpdates(t *testing.T) {
	items := []TreatmentItem{
		{Description: "Filling", Cost: decimal.RequireFromString("80.50")},
		{Description: "Crown", Cost: decimal.RequireFromString("420")},
	}
	assert.True(t, SumItemCosts(items).Equal(decimal.RequireFromString("500.50")))
	assert.True(t, SumItemCosts(nil).IsZero())

	assert.True(t, UserUpdate{}.Empty())
	name := "x"
	assert.False(t, UserUpdate{FirstName: &name}.Empty())
	assert.True(t, AppointmentUpdate{}.Empty())
	assert.True(t, TicketUpdate{}.Empty())
	assert.True(t, DocumentUpdate{}.Empty())
	assert.True(t, ProviderUpdate{}.Empty())
	assert.True(t, PatientUpdate{}.Empty())
	assert.True(t, PaymentUpdate{}.Empty())
	assert.True(t, PlanUpdate{}.Empty())
	assert.True(t, ProcedureUpdate{}.Empty())
	assert.True(t, TreatmentPlanUpdate{}.Empty())
}

func TestConversationParticipants(t *testing.T) {
	p, d := uuid.New(), uuid.New()
	c := &Conversation{PatientID: p, ProviderID: d}
	assert.True(t, c.HasParticipant(p))
	assert.True(t, c.HasParticipant(d))
	assert.False(t, c.HasParticipant(uuid.New()))
	assert.Equal(t, d, c.Counterpart(p))
	assert.Equal(t, p, c.Counterpart(d))
}

func TestFileMetaPaths(t *testing.T) {
	paths := FileMetaPaths([]FileMeta{{Path: "2024/01/02/a.png"}, {Path: ""}, {Path: "2024/01/02/b.pdf"}})
	assert.Equal(t, []string{"2024/01/02/a.png", "2024/01/02/b.pdf"}, paths)
}
