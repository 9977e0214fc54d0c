package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/semantic-faq/internal/domain/auth"
	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faq_entries.json")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("FAQ_STORAGE_DRIVER", "file")
	t.Setenv("FAQ_STORAGE_PATH", path)
	t.Setenv("ENCODER_PROVIDER", "hashing")
	t.Setenv("FAQ_REWRITE_ENABLED", "false")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEntryCommandsPersistToFile(t *testing.T) {
	path := setupEnv(t)

	out, err := run(t, "add", "How do I install the app?", "Run the installer.")
	require.NoError(t, err)
	require.Contains(t, out, "added")

	_, err = run(t, "add", "how do i install the APP?", "dup")
	require.ErrorIs(t, err, errAlreadyExists)

	_, err = run(t, "update", "HOW DO I INSTALL THE APP?", "Download it first.")
	require.NoError(t, err)

	_, err = run(t, "update", "missing", "x")
	require.ErrorIs(t, err, errNotFound)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored []faq.Entry
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Equal(t, []faq.Entry{{Question: "How do I install the app?", Answer: "Download it first."}}, stored)

	out, err = run(t, "list", "--json")
	require.NoError(t, err)
	require.JSONEq(t, string(raw), out)

	_, err = run(t, "rm", "how do i install the app?")
	require.NoError(t, err)
	_, err = run(t, "remove", "how do i install the app?")
	require.ErrorIs(t, err, errNotFound)
}

func TestAskCommand(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "add", "How do I install the app?", "Run the installer.")
	require.NoError(t, err)

	out, err := run(t, "ask", "how do i install this app")
	require.NoError(t, err)
	var result faq.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, "Run the installer.", result.Answer)

	out, err = run(t, "ask", "what's the weather today")
	require.NoError(t, err)
	require.Equal(t, "no matching entry\n", out)
}

func TestImportAndSuggest(t *testing.T) {
	setupEnv(t)
	source := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(source, []byte(`[
  {"question": "Where are the docs?", "answer": "See the wiki."},
  {"question": "Where is the changelog?", "answer": "In the release notes."},
  {"question": "WHERE ARE THE DOCS?", "answer": "duplicate"}
]`), 0o600))

	out, err := run(t, "import", source)
	require.NoError(t, err)
	require.Equal(t, "imported 2 entries, skipped 1\n", out)

	out, err = run(t, "suggest", "where", "-n", "1")
	require.NoError(t, err)
	require.Equal(t, "Where are the docs?\n", out)
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "token", "ops@example.com")
	require.NoError(t, err)

	var issued auth.IssuedToken
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	require.NotEmpty(t, issued.Token)

	svc := auth.NewService(auth.Config{Secret: "cli-secret", Issuer: "semantic-faq", TokenTTL: time.Hour}, slog.New(slog.DiscardHandler))
	claims, err := svc.ValidateToken(context.Background(), issued.Token)
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", claims.Subject)
	require.Equal(t, auth.RoleAdmin, claims.Role)
}
