package http_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "image/*", r.Header.Get("Accept"))
			w.Write([]byte("img"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(50 * time.Millisecond)

	data, err := client.FetchImage(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	_, err = client.FetchImage(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "404")

	_, err = client.FetchImage(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
}

func TestCreateImageRequest(t *testing.T) {
	client := NewHTTPClient(0)
	req, err := client.CreateImageRequest(context.Background(), "http://localhost/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/*", req.Header.Get("Accept"))
	assert.Equal(t, http.MethodGet, req.Method)
}
