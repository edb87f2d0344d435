package contract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves one line per page and advertises numPages.
func pagedServer(t *testing.T, numPages int, requests *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests = append(*requests, r.URL.RawQuery)
		page := r.URL.Query().Get("page")
		w.Header().Set(NumPagesHeader, strconv.Itoa(numPages))
		_, _ = fmt.Fprintf(w, "2020010%s000000 200 DIGEST%s\n", page, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collect(t *testing.T, c *RemoteIndexClient, query string, progress ProgressFunc) ([]string, error) {
	t.Helper()
	var lines []string
	for line, err := range c.Lines(context.Background(), query, progress) {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func TestRemoteIndexClientQuery(t *testing.T) {
	c := NewRemoteIndexClient("https://index.test/cdx", 10, time.Second)
	assert.Equal(t,
		"https://index.test/cdx?fl=timestamp,statuscode,digest&url=example.com%2Fa+b%3Fq%3D1",
		c.Query("example.com/a b?q=1"))
}

func TestRemoteIndexClientPaginates(t *testing.T) {
	var requests []string
	srv := pagedServer(t, 3, &requests)
	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)

	var fractions []float64
	lines, err := collect(t, c, c.Query("example.com"), func(f float64) { fractions = append(fractions, f) })
	require.NoError(t, err)

	assert.Equal(t, []string{
		"20200100000000 200 DIGEST0",
		"20200101000000 200 DIGEST1",
		"20200102000000 200 DIGEST2",
	}, lines)
	require.Len(t, requests, 3)
	assert.Contains(t, requests[0], "page=0")
	assert.Contains(t, requests[2], "page=2")
	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3, 1.0}, fractions, 1e-9)
}

func TestRemoteIndexClientMissingHeaderMeansOnePage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, "20200101000000 200 AAAA\n20200101010000 404 BBBB\n")
	}))
	defer srv.Close()

	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)
	lines, err := collect(t, c, c.Query("example.com"), nil)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, 1, calls)
}

func TestRemoteIndexClientPageCap(t *testing.T) {
	var requests []string
	srv := pagedServer(t, 50, &requests)
	c := NewRemoteIndexClient(srv.URL, 4, time.Second)

	lines, err := collect(t, c, c.Query("example.com"), nil)
	require.NoError(t, err)
	assert.Len(t, lines, 4)
	assert.Len(t, requests, 4)
}

func TestRemoteIndexClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)
	query := c.Query("example.com")
	_, err := collect(t, c, query, nil)
	require.Error(t, err)

	var remoteErr *schema.RemoteIndexError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.StatusCode)
	assert.Equal(t, query, remoteErr.URL)
	assert.Equal(t, fmt.Sprintf("CDX API returned `503` status code for `%s`", query), err.Error())
}

func TestRemoteIndexClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)
	query := c.Query("example.com")
	lines, err := collect(t, c, query, nil)
	require.Error(t, err)
	assert.Empty(t, lines)

	var remoteErr *schema.RemoteIndexError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 0, remoteErr.StatusCode)
	assert.Equal(t, query, remoteErr.URL)
	require.Error(t, remoteErr.Unwrap())
	assert.Contains(t, err.Error(), "page 0")
}

func TestRemoteIndexClientStopsEarly(t *testing.T) {
	var requests []string
	srv := pagedServer(t, 5, &requests)
	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)

	for range c.Lines(context.Background(), c.Query("example.com"), nil) {
		break
	}
	assert.Len(t, requests, 1)
}

func TestRemoteIndexClientContextCanceled(t *testing.T) {
	var requests []string
	srv := pagedServer(t, 1, &requests)
	c := NewRemoteIndexClient(srv.URL, DefaultMaxPages, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var gotErr error
	for _, err := range c.Lines(ctx, c.Query("example.com"), nil) {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, context.Canceled)
	var remoteErr *schema.RemoteIndexError
	assert.ErrorAs(t, gotErr, &remoteErr)
}

func TestParseNumPages(t *testing.T) {
	assert.Equal(t, 1, parseNumPages(""))
	assert.Equal(t, 1, parseNumPages("zero"))
	assert.Equal(t, 1, parseNumPages("0"))
	assert.Equal(t, 7, parseNumPages("7"))
}
