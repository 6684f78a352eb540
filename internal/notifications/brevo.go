package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"barbearia-backend/internal/models"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient delivers the booking confirmation that carries the access code.
// It addresses the appointment's optional email; the contact field is a phone
// number and bookings without an email get no mail.
type BrevoClient struct {
	apiKey      string
	senderEmail string
	senderName  string
	sandbox     bool
	endpoint    string
	httpClient  *http.Client
}

func NewBrevoClient(apiKey, senderEmail, senderName string, sandbox bool) *BrevoClient {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(senderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		sandbox:     sandbox,
		endpoint:    defaultBrevoEndpoint,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *BrevoClient) SendBookingConfirmation(ctx context.Context, appt models.Appointment) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}
	if appt.Email == "" {
		return "", errors.New("appointment has no email address")
	}
	subject := fmt.Sprintf("Agendamento confirmado - %s", appt.Date)
	return c.sendHTML(ctx, appt.Email, appt.Name, subject, buildBookingConfirmationHTML(appt))
}

func buildBookingConfirmationHTML(appt models.Appointment) string {
	var b strings.Builder
	b.WriteString("<h2>Agendamento confirmado</h2>")
	fmt.Fprintf(&b, "<p>Olá %s, seu horário está reservado.</p>", appt.Name)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Data: %s</li>", appt.Date)
	fmt.Fprintf(&b, "<li>Horário: %s</li>", appt.Time)
	fmt.Fprintf(&b, "<li>Profissional: %s</li>", appt.Professional)
	fmt.Fprintf(&b, "<li>Serviço: %s</li>", appt.Service)
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Senha de acesso: <strong>%s</strong></p>", appt.AccessCode)
	b.WriteString("<p>Guarde esta senha: ela é necessária para remarcar ou cancelar.</p>")
	return b.String()
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}

func (c *BrevoClient) sendHTML(ctx context.Context, toEmail, toName, subject, htmlBody string) (string, error) {
	if strings.TrimSpace(toEmail) == "" {
		return "", errors.New("missing recipient email")
	}

	payload := brevoSendRequest{
		Sender: brevoSender{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []brevoRecipient{
			{Email: toEmail, Name: toName},
		},
		Subject:     subject,
		HtmlContent: htmlBody,
	}
	if c.sandbox {
		payload.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing message id")
	}
	return out.MessageID, nil
}
