package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barbearia-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment() models.Appointment {
	return models.Appointment{
		ID:           "abc123",
		Name:         "João Silva",
		Contact:      "11987654321",
		Email:        "joao@example.com",
		Date:         "2026-03-03",
		Time:         "10:00",
		Professional: "Carlos",
		Service:      "corte",
		Status:       models.StatusScheduled,
		AccessCode:   "A1B2",
	}
}

func TestSendBookingConfirmationAddressesEmailField(t *testing.T) {
	var got brevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(brevoSendResponse{MessageID: "msg-1"})
	}))
	defer srv.Close()

	client := NewBrevoClient("key", "salao@example.com", "Salão", false)
	require.NotNil(t, client)
	client.endpoint = srv.URL

	id, err := client.SendBookingConfirmation(context.Background(), testAppointment())
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	// The mail goes to the email field, never the phone contact.
	require.Len(t, got.To, 1)
	assert.Equal(t, "joao@example.com", got.To[0].Email)
	assert.True(t, strings.Contains(got.HtmlContent, "A1B2"), "body must carry the access code")
}

func TestSendBookingConfirmationRequiresEmail(t *testing.T) {
	client := NewBrevoClient("key", "salao@example.com", "Salão", false)
	require.NotNil(t, client)

	appt := testAppointment()
	appt.Email = ""
	_, err := client.SendBookingConfirmation(context.Background(), appt)
	assert.Error(t, err)
}

func TestNewBrevoClientDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "salao@example.com", "Salão", false))
	assert.Nil(t, NewBrevoClient("key", "", "Salão", false))
}
