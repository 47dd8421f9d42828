package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteWithSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body["model"])
		assert.Equal(t, false, body["stream"])
		w.Write([]byte(`{"message":{"role":"assistant","content":"cat, dog\n"}}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL).CompleteWithSystem(context.Background(), "llama3", "sys", "animals")
	require.NoError(t, err)
	assert.Equal(t, "cat, dog", out)
}

func TestCompleteWithSystemStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CompleteWithSystem(context.Background(), "llama3", "sys", "animals")
	assert.EqualError(t, err, "ollama status 500")
}

func TestNewDefaultsHost(t *testing.T) {
	assert.Equal(t, "http://localhost:11434", New("").Host)
	assert.Equal(t, "http://ollama:11434", New("http://ollama:11434/").Host)
}
