// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/jokerswap/joker/api/accounts"
	"github.com/jokerswap/joker/api/contracts"
	"github.com/jokerswap/joker/api/middleware"
	"github.com/jokerswap/joker/api/node"
	"github.com/jokerswap/joker/api/pools"
	"github.com/jokerswap/joker/api/proposals"
	"github.com/jokerswap/joker/api/subscriptions"
	"github.com/jokerswap/joker/genesis"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins        string
	SubscriptionCacheSize uint32
	PprofOn               bool
	EnableMetrics         bool
	EnableReqLogger       *atomic.Bool
	SlowQueriesThreshold  time.Duration
	Log5xxErrors          bool
}

// New returns the api router and a function releasing the open subscriptions.
func New(
	rt *runtime.Runtime,
	chainID uint64,
	deployment *genesis.Deployment,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	node.New(rt, chainID, deployment).
		Mount(router, "/node")
	contracts.New(rt).
		Mount(router, "/contracts")
	pools.New(rt, deployment.Lord).
		Mount(router, "/pools")
	accounts.New(rt, deployment.Token).
		Mount(router, "/accounts")
	proposals.New(rt, deployment.Governor).
		Mount(router, "/proposals")
	subs := subscriptions.New(rt, origins, opts.SubscriptionCacheSize)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions hold hijacked conns, which must be closed
}
