package secretx_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/arborlabs/gatehouse/pkg/secretx"
	"github.com/stretchr/testify/require"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	s := secretx.New("hunter2-password")

	require.Equal(t, "hunter2-password", s.Expose())
	require.NotContains(t, fmt.Sprintf("%v", s), "hunter2")
	require.NotContains(t, fmt.Sprintf("%s", s), "hunter2")
	require.NotContains(t, fmt.Sprintf("%#v", s), "hunter2")

	out, err := json.Marshal(struct {
		Password secretx.Secret `json:"password"`
	}{Password: s})
	require.NoError(t, err)
	require.NotContains(t, string(out), "hunter2")
	require.Contains(t, string(out), "REDACTED")
}

func TestSecretLogValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("login attempt", "password", secretx.New("hunter2-password"))

	require.NotContains(t, buf.String(), "hunter2")
	require.Contains(t, buf.String(), "REDACTED")
}

func TestSecretEqual(t *testing.T) {
	t.Parallel()

	a := secretx.New("same")
	b := secretx.New("same")
	c := secretx.New("different")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.True(t, secretx.Secret{}.IsZero())
	require.False(t, a.IsZero())
}
