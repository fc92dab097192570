package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-engine/internal/store"
)

func TestImportSeed(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	n, err := importSeed(context.Background(), db, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
  {"job_id": 7, "title": "Nurse", "department": "Care", "work_type": "Onsite", "status": "active",
   "posted_at_ts": 1717000000, "application_deadline": "2099-01-01",
   "num_candidates_required": 1, "applications_count": 2, "days_left": 10}
]`), 0o644))

	n, err = importSeed(context.Background(), db, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = importSeed(context.Background(), db, seed)
	require.NoError(t, err)
	assert.Zero(t, n, "second import skips stored records")

	require.NoError(t, os.WriteFile(seed, []byte(`[{"job_id": 0}]`), 0o644))
	_, err = importSeed(context.Background(), db, seed)
	assert.Error(t, err)

	_, err = importSeed(context.Background(), db, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestShutdownHandler_Guards(t *testing.T) {
	token := "secret"
	h := shutdownHandler(&token, &http.Server{})

	cases := []struct {
		name   string
		method string
		remote string
		tok    string
		want   int
	}{
		{"wrong method", http.MethodGet, "127.0.0.1:1234", token, http.StatusMethodNotAllowed},
		{"remote host", http.MethodPost, "10.1.2.3:1234", token, http.StatusForbidden},
		{"bad token", http.MethodPost, "127.0.0.1:1234", "nope", http.StatusUnauthorized},
		{"ok", http.MethodPost, "127.0.0.1:1234", token, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, "/shutdown", nil)
			req.RemoteAddr = c.remote
			req.Header.Set("X-Shutdown-Token", c.tok)
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, c.want, rec.Code)
		})
	}
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(16)
	require.NoError(t, err)
	b, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
