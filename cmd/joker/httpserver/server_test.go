// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokerswap/joker/api/admin/loglevel"
	"github.com/jokerswap/joker/metrics"
)

func TestAdminServer(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	url, stop, err := StartAdminServer("127.0.0.1:0", &lvl, &atomic.Bool{})
	require.NoError(t, err)
	defer stop()
	require.True(t, strings.HasSuffix(url, "/admin"))

	res, err := http.Get(url + "/loglevel")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body loglevel.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "WARN", body.CurrentLevel)
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, stop, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer stop()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "httpserver_test_count")
}

func TestListenError(t *testing.T) {
	_, _, err := StartMetricsServer("not-an-addr")
	assert.Error(t, err)
}

func TestAPIServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if _, err := io.ReadAll(r.Body); err != nil {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
		}
		deadline, ok := r.Context().Deadline()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
		w.WriteHeader(http.StatusOK)
	})

	url, stop, err := StartAPIServer("127.0.0.1:0", handler, time.Second)
	require.NoError(t, err)
	defer stop()

	res, err := http.Get(url + "node/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// subscriptions are long lived
	res, err = http.Get(url + "subscriptions/blocks")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = http.Post(url+"contracts/x", "application/json", strings.NewReader(strings.Repeat("a", maxBodySize+1)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}
