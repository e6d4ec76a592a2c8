// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams sealed blocks and their logs over websockets.
package subscriptions

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/jokerswap/joker/api/utils"
	"github.com/jokerswap/joker/log"
	"github.com/jokerswap/joker/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
	// blocks buffered per subscriber before it starts missing blocks
	listenerBuffer = 64
)

type Subscriptions struct {
	rt        *runtime.Runtime
	upgrader  *websocket.Upgrader
	cache     *messageCache
	listeners map[chan *runtime.Block]struct{}
	mu        sync.RWMutex
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates the subscriptions endpoint and starts dispatching the blocks sealed by rt.
// Close must be called to stop it.
func New(rt *runtime.Runtime, allowedOrigins []string, cacheSize uint32) *Subscriptions {
	s := &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
		cache:     newMessageCache(cacheSize),
		listeners: make(map[chan *runtime.Block]struct{}),
		done:      make(chan struct{}),
	}

	blocks := make(chan *runtime.Block, listenerBuffer)
	sub := rt.SubscribeBlocks(blocks)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer sub.Unsubscribe()
		s.dispatchLoop(blocks, sub.Err())
	}()
	return s
}

func (s *Subscriptions) subscribe() chan *runtime.Block {
	ch := make(chan *runtime.Block, listenerBuffer)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Subscriptions) unsubscribe(ch chan *runtime.Block) {
	s.mu.Lock()
	delete(s.listeners, ch)
	s.mu.Unlock()
}

func (s *Subscriptions) dispatchLoop(blocks <-chan *runtime.Block, subErr <-chan error) {
	for {
		select {
		case b := <-blocks:
			s.mu.RLock()
			for lsn := range s.listeners {
				select {
				case lsn <- b:
				default: // slow subscribers miss the block
				}
			}
			s.mu.RUnlock()
		case <-subErr:
			return
		case <-s.done:
			return
		}
	}
}

// blockReader turns a sealed block into zero or more websocket messages.
type blockReader func(b *runtime.Block) ([][]byte, error)

func (s *Subscriptions) readBlocks(b *runtime.Block) ([][]byte, error) {
	msg, _, err := s.cache.GetOrAdd(b.Number, func() ([]byte, error) {
		return json.Marshal(convertBlock(b))
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{msg}, nil
}

func eventReader(f *EventFilter) blockReader {
	return func(b *runtime.Block) ([][]byte, error) {
		events := filterEvents(b, f)
		msgs := make([][]byte, 0, len(events))
		for _, ev := range events {
			msg, err := json.Marshal(ev)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	}
}

func (s *Subscriptions) handleSubjectBlocks(w http.ResponseWriter, req *http.Request) error {
	return s.serve(w, req, s.readBlocks)
}

func (s *Subscriptions) handleSubjectEvents(w http.ResponseWriter, req *http.Request) error {
	f, err := parseEventFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}
	return s.serve(w, req, eventReader(f))
}

func (s *Subscriptions) serve(w http.ResponseWriter, req *http.Request, read blockReader) error {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.pipe(conn, ch, closed, read); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, ch <-chan *runtime.Block, closed <-chan struct{}, read blockReader) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case b := <-ch:
			msgs, err := read(b)
			if err != nil {
				return err
			}
			for _, msg := range msgs {
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return errors.WithMessage(err, "write")
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return errors.WithMessage(err, "ping")
			}
		case <-closed:
			return nil
		case <-s.done:
			return nil
		}
	}
}

// Close stops dispatching and ends every open subscription.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/blocks").
		Methods(http.MethodGet).
		Name("subscriptions_blocks").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubjectBlocks))
	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubjectEvents))
}
