// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/jokerswap/joker/api/admin"
)

// StartAdminServer serves the log level and api logs switches under /admin.
func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool) (string, func(), error) {
	url, stop, err := serve("admin", addr, admin.New(logLevel, apiLogs), internalTimeouts)
	if err != nil {
		return "", nil, err
	}
	return url + "/admin", stop, nil
}
