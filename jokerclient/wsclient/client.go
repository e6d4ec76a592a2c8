// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jokerswap/joker/api/subscriptions"
	"github.com/jokerswap/joker/jokerclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(rawURL string) (*Client, error) {
	var host, scheme string
	switch {
	case strings.HasPrefix(rawURL, "https://") || strings.HasPrefix(rawURL, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "wss://")
		scheme = "wss"
	case strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}
	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// Subscription is an open stream. Close ends it and closes the channel.
type Subscription[T any] struct {
	conn *websocket.Conn
	ch   <-chan common.EventWrapper[*T]
	done chan struct{}
	once sync.Once
}

func (s *Subscription[T]) Events() <-chan common.EventWrapper[*T] {
	return s.ch
}

func (s *Subscription[T]) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.conn.Close()
}

// SubscribeBlocks streams every sealed block.
func (c *Client) SubscribeBlocks() (*Subscription[subscriptions.BlockMessage], error) {
	conn, err := c.connect("/subscriptions/blocks", "")
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[subscriptions.BlockMessage](conn), nil
}

// SubscribeEvents streams logs matching query, e.g. "addr=0x..&t0=0x..".
func (c *Client) SubscribeEvents(query string) (*Subscription[subscriptions.EventMessage], error) {
	conn, err := c.connect("/subscriptions/events", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}
	return subscribe[subscriptions.EventMessage](conn), nil
}

func subscribe[T any](conn *websocket.Conn) *Subscription[T] {
	ch := make(chan common.EventWrapper[*T])
	sub := &Subscription[T]{conn: conn, ch: ch, done: make(chan struct{})}

	send := func(ev common.EventWrapper[*T]) bool {
		select {
		case ch <- ev:
			return true
		case <-sub.done:
			return false
		}
	}
	go func() {
		defer close(ch)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					send(common.EventWrapper[*T]{Error: fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)})
				}
				return
			}
			if !send(common.EventWrapper[*T]{Data: &data}) {
				return
			}
		}
	}()
	return sub
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
