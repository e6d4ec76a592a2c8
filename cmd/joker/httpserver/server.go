// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the http listeners of a node.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jokerswap/joker/co"
	"github.com/jokerswap/joker/log"
)

var logger = log.WithContext("pkg", "httpserver")

// maxBodySize limits request bodies of the public api.
const maxBodySize = 200 * 1024

type timeouts struct {
	readHeader time.Duration
	read       time.Duration
}

var internalTimeouts = timeouts{readHeader: time.Second, read: 5 * time.Second}

// serve listens on addr and serves handler until the returned stop func is called.
func serve(name, addr string, handler http.Handler, to timeouts) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: to.readHeader, ReadTimeout: to.read}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "name", name, "err", err)
		}
	})
	return "http://" + listener.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
		}
		goes.Wait()
	}, nil
}

// StartAPIServer serves the public api. Requests other than websocket
// subscriptions are cancelled after timeout, when set.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}
	handler = requestBodyLimit(handler)

	url, stop, err := serve("API", addr, handler, timeouts{readHeader: time.Second})
	if err != nil {
		return "", nil, err
	}
	return url + "/", stop, nil
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/subscriptions") {
			h.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		h.ServeHTTP(w, r)
	})
}
