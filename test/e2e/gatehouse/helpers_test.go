package gatehouse_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	gatehousehttp "github.com/arborlabs/gatehouse/internal/gatehouse/http"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store/drivers/memory"
	"github.com/arborlabs/gatehouse/pkg/authsdk"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
	"github.com/arborlabs/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Helpers for end-to-end tests. Each test gets a full service wired against
 * the in-memory backend and drives it through the public SDK, the way an
 * external caller would.
 */

const (
	testPassword = "Password123!"
	testTokenTTL = 10 * time.Minute
)

// mailbox captures 2FA codes the way an email sender would deliver them.
type mailbox struct {
	mu    sync.Mutex
	codes map[string]domain.Challenge
}

func (m *mailbox) SendCode(_ context.Context, email domain.Email, challenge domain.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email.String()] = challenge
	return nil
}

func (m *mailbox) codeFor(t *testing.T, email string) domain.Challenge {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	challenge, ok := m.codes[email]
	require.True(t, ok, "no 2fa code delivered for %s", email)
	return challenge
}

func startService(t *testing.T) (*authsdk.Client, *mailbox) {
	t.Helper()

	hasher := cryptox.NewHasher(2)
	t.Cleanup(hasher.Close)

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "gatehouse-e2e")
	require.NoError(t, err)

	inbox := &mailbox{codes: make(map[string]domain.Challenge)}
	auth := &service.AuthService{
		Credentials: memory.NewCredentialStore(hasher),
		Challenges:  memory.NewChallengeStore(10 * time.Minute),
		Sessions: &service.SessionService{
			Signer:   signer,
			Revoked:  memory.NewRevokedTokenStore(),
			TokenTTL: testTokenTTL,
		},
		Hasher: hasher,
		Sender: inbox,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gatehousehttp.NewRouter("e2e", logger)
	router.AuthService = auth
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return authsdk.NewClient(server.URL), inbox
}
