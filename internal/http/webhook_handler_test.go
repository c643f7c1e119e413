package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type WebhookServiceMock struct {
	err error

	calls      int
	gotPayload []byte
}

func (m *WebhookServiceMock) HandleNotification(_ context.Context, payload []byte) error {
	m.calls++
	m.gotPayload = payload
	return m.err
}

func postWebhook(handler *WebhookHandler, body []byte) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/webhook", bytes.NewBuffer(body))
	handler.Handle(recorder, request)
	return recorder
}

func TestWebhook_AcknowledgesValidPayload(t *testing.T) {
	mock := &WebhookServiceMock{}
	handler := NewWebhookHandler(mock, "", 5*time.Second)

	payload := []byte(`{"type":"charge.succeeded","data":{"object":{}}}`)
	recorder := postWebhook(handler, payload)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.calls != 1 {
		t.Errorf("Expected 1 service call, got %d", mock.calls)
	}
	if !bytes.Equal(mock.gotPayload, payload) {
		t.Errorf("Expected raw payload to be passed through unchanged")
	}
}

func TestWebhook_AcknowledgesGarbage(t *testing.T) {
	mock := &WebhookServiceMock{}
	handler := NewWebhookHandler(mock, "", 5*time.Second)

	recorder := postWebhook(handler, []byte("not json"))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
}

func TestWebhook_AcknowledgesInternalFailure(t *testing.T) {
	mock := &WebhookServiceMock{err: errors.New("no matching purchase")}
	handler := NewWebhookHandler(mock, "", 5*time.Second)

	recorder := postWebhook(handler, []byte(`{"type":"charge.succeeded"}`))

	// internal failures must never turn into a retry-triggering status
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
}

func TestWebhook_BadSignatureSkipsProcessing(t *testing.T) {
	mock := &WebhookServiceMock{}
	handler := NewWebhookHandler(mock, "whsec_test_secret", 5*time.Second)

	// no Stripe-Signature header at all
	recorder := postWebhook(handler, []byte(`{"type":"charge.succeeded","data":{"object":{}}}`))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.calls != 0 {
		t.Errorf("Expected no service call on failed verification, got %d", mock.calls)
	}
}
