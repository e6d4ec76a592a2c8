// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		start    bool
		body     *LogStatus
		expected bool
	}{
		{"enable", http.MethodPost, false, &LogStatus{Enabled: true}, true},
		{"disable", http.MethodPost, true, &LogStatus{Enabled: false}, false},
		{"get", http.MethodGet, true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			var body []byte
			if tt.body != nil {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(tt.method, "/admin/apilogs", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			var res LogStatus
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
			assert.Equal(t, tt.expected, res.Enabled)
			assert.Equal(t, tt.expected, enabled.Load())
		})
	}

	t.Run("bad body", func(t *testing.T) {
		var enabled atomic.Bool
		router := mux.NewRouter()
		New(&enabled).Mount(router, "/admin/apilogs")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", bytes.NewReader([]byte("on"))))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, enabled.Load())
	})
}
