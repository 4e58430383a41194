package httpfetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/user/course-aggregator/internal/repository"
)

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := New(NewIdentityPool([]string{"test-agent/1.0"}, nil), time.Second, zaptest.NewLogger(t))
	doc, err := f.Fetch(context.Background(), srv.URL, 0)
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "en-US,en;q=0.5", gotAccept)
	assert.Equal(t, http.StatusOK, doc.StatusCode)
	assert.Contains(t, string(doc.Body), "ok")
}

func TestFetchNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	f := New(nil, time.Second, zaptest.NewLogger(t))
	doc, err := f.Fetch(context.Background(), srv.URL, 0)
	require.Error(t, err)
	assert.Nil(t, doc)

	var fe *repository.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.ErrorIs(t, err, repository.ErrBadStatus)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := New(nil, time.Second, zaptest.NewLogger(t))
	_, err := f.Fetch(context.Background(), srv.URL, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrFetchTimeout)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := New(nil, time.Second, zaptest.NewLogger(t))
	_, err := f.Fetch(context.Background(), url, 0)

	var fe *repository.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.StatusCode)
}

func TestFetchDecodesCompressedBodies(t *testing.T) {
	payload := []byte(`<div class="course">compressed</div>`)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(payload)
	require.NoError(t, zw.Close())

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = bw.Write(payload)
	require.NoError(t, bw.Close())

	bodies := map[string][]byte{"gzip": gz.Bytes(), "br": br.Bytes()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := r.URL.Query().Get("enc")
		w.Header().Set("Content-Encoding", enc)
		_, _ = w.Write(bodies[enc])
	}))
	defer srv.Close()

	f := New(nil, time.Second, zaptest.NewLogger(t))
	for enc := range bodies {
		doc, err := f.Fetch(context.Background(), srv.URL+"?enc="+enc, 0)
		require.NoError(t, err, enc)
		assert.Equal(t, payload, doc.Body, enc)
	}
}

func TestIdentityPoolRotatesProxies(t *testing.T) {
	p := NewIdentityPool(nil, []string{"http://p1:8000", "::bad", "http://p2:8000"})

	var hosts []string
	for i := 0; i < 4; i++ {
		u, err := p.Proxy(nil)
		require.NoError(t, err)
		hosts = append(hosts, u.Host)
	}
	assert.Equal(t, []string{"p1:8000", "p2:8000", "p1:8000", "p2:8000"}, hosts)

	direct := NewIdentityPool(nil, nil)
	u, err := direct.Proxy(nil)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Contains(t, defaultUserAgents, direct.UserAgent())
}
