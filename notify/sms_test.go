package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertytek/chatflow/testutil/fixtures"
	"github.com/propertytek/chatflow/types"
)

func TestTwilioSender_Unconfigured(t *testing.T) {
	s := NewTwilioSender(TwilioConfig{}, zap.NewNop())
	require.False(t, s.Configured())

	result, err := s.SendSMS(context.Background(), "+15125550142", "hi")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "sms not configured", result.Error)
}

func TestTwilioSender_SendSMS(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM42", "status": "queued"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15005550006",
		BaseURL:    srv.URL,
		RatePerSec: 100,
	}, zap.NewNop())

	result, err := s.SendSMS(context.Background(), "+15125550142", "Your tour is confirmed!")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "SM42", result.MessageID)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "+15125550142", gotTo)
	assert.Equal(t, "+15005550006", gotFrom)
	assert.Equal(t, "Your tour is confirmed!", gotBody)
}

func TestTwilioSender_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "invalid number"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15005550006",
		BaseURL:    srv.URL,
		RatePerSec: 100,
	}, zap.NewNop())

	result, err := s.SendSMS(context.Background(), "+1000", "hi")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "status 400")
}

func TestExtractSID(t *testing.T) {
	assert.Equal(t, "SM42", extractSID([]byte(`{"sid": "SM42"}`)))
	assert.Equal(t, "", extractSID([]byte(`{"status": "queued"}`)))
	assert.Equal(t, "", extractSID([]byte(`{"sid": `)))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "********0142", maskPhone("+15125550142"))
	assert.Equal(t, "****", maskPhone("42"))
}

func TestConfirmationBody(t *testing.T) {
	appt := fixtures.Appointment()
	body := ConfirmationBody(*appt)

	assert.Contains(t, body, "Your tour is confirmed!")
	assert.Contains(t, body, appt.PropertyAddress)
	assert.Contains(t, body, appt.FormattedDate)
	assert.Contains(t, body, "reschedule")
}

func TestConfirmationBody_FallsBackToSlotDisplay(t *testing.T) {
	slot := fixtures.Slot(14)
	body := ConfirmationBody(types.Appointment{Slot: &slot})
	assert.Contains(t, body, slot.Display)
}
