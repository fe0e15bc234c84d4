package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/waitlist-foundry/pkg/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validMessage() Message {
	return Message{
		From:    "CyberFist <hello@cyberfist.example>",
		To:      []string{"jane@example.com"},
		Subject: "You're on the CyberFist waitlist",
		Text:    "Thanks for joining.",
		Tag:     "welcome",
	}
}

func TestMessageValidate(t *testing.T) {
	assert.NoError(t, validMessage().Validate())

	noFrom := validMessage()
	noFrom.From = " "
	assert.Error(t, noFrom.Validate())

	noTo := validMessage()
	noTo.To = nil
	assert.Error(t, noTo.Validate())

	blankTo := validMessage()
	blankTo.To = []string{""}
	assert.Error(t, blankTo.Validate())

	noSubject := validMessage()
	noSubject.Subject = ""
	assert.Error(t, noSubject.Validate())
}

func TestUnconfiguredSender(t *testing.T) {
	err := UnconfiguredSender{}.Send(context.Background(), validMessage())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewResendSender_RequiresKey(t *testing.T) {
	_, err := NewResendSender("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResendSender_PostsEmail(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer server.Close()

	sender, err := NewResendSender("re_test", WithBaseURL(server.URL))
	require.NoError(t, err)

	require.NoError(t, sender.Send(context.Background(), validMessage()))

	assert.Equal(t, "CyberFist <hello@cyberfist.example>", received["from"])
	assert.Equal(t, "You're on the CyberFist waitlist", received["subject"])
	assert.Equal(t, []any{"jane@example.com"}, received["to"])
}

func TestResendSender_RejectsInvalidMessageWithoutCalling(t *testing.T) {
	sender, err := NewResendSender("re_test", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	msg := validMessage()
	msg.To = nil
	assert.Error(t, sender.Send(context.Background(), msg))
}

func TestBreakerSender_FailsFastWhenOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := NewMockSender(ctrl)

	breaker := circuitbreaker.NewCircuitBreaker(&circuitbreaker.Config{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
		SuccessThreshold: 1,
	})
	sender := NewBreakerSender(next, breaker)

	next.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("provider 500")).Times(2)

	ctx := context.Background()
	assert.Error(t, sender.Send(ctx, validMessage()))
	assert.Error(t, sender.Send(ctx, validMessage()))

	err := sender.Send(ctx, validMessage())
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, circuitbreaker.Open, sender.State())
}
