package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-grant-server/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestNewApp_ServesHealth(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("env", "TEST")

	a, err := newApp(config.FromViper(v), zerolog.Nop())
	require.NoError(t, err)
	defer a.store.Close()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_ClientIDBinding(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("env", "TEST")
	v.Set("binding_mode", "client_id")

	a, err := newApp(config.FromViper(v), zerolog.Nop())
	require.NoError(t, err)
	defer a.store.Close()
}

func TestCredentialsCommand(t *testing.T) {
	t.Setenv("CLIENT_ID_LENGTH", "8")
	t.Setenv("CLIENT_SECRET_LENGTH", "16")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"credentials"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Len(t, strings.TrimPrefix(lines[0], "client_id="), 8)
	require.Len(t, strings.TrimPrefix(lines[1], "client_secret="), 16)
}
