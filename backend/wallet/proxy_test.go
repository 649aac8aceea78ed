package wallet

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardRelaysRequestAndResponse(t *testing.T) {
	var gotPath, gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"payment_hash":"abc"}`))
	}))
	defer server.Close()

	proxy := NewProxy(server.URL, "testkey")
	status, payload, err := proxy.Forward("POST", "payments", []byte(`{"amount":1000}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, `{"payment_hash":"abc"}`, string(payload))
	assert.Equal(t, "/payments", gotPath)
	assert.Equal(t, "testkey", gotKey)
	assert.Equal(t, `{"amount":1000}`, gotBody)
}

func TestForwardWithoutBaseURL(t *testing.T) {
	proxy := NewProxy("", "")

	_, _, err := proxy.Forward("POST", "payments", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
