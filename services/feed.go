package services

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/yeremiapane/restaurant-realtime/utils"
)

// FeedSubscription adalah handle satu langganan tabel di upstream.
type FeedSubscription interface {
	Unsubscribe() error
}

// FeedConn adalah koneksi ke provider change feed. Produksi memakai NATS
// (publisher CDC mengirim satu message per perubahan baris); test memakai
// fake in-memory.
type FeedConn interface {
	Subscribe(subject string, handler func(data []byte)) (FeedSubscription, error)
	IsConnected() bool
	SetErrorHandler(fn func(subject string, err error))
	Close()
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (n natsSubscription) Unsubscribe() error {
	return n.sub.Unsubscribe()
}

type natsFeedConn struct {
	nc *nats.Conn
}

func (c *natsFeedConn) Subscribe(subject string, handler func(data []byte)) (FeedSubscription, error) {
	sub, err := c.nc.Subscribe(subject, func(m *nats.Msg) {
		handler(m.Data)
	})
	if err != nil {
		return nil, err
	}
	return natsSubscription{sub: sub}, nil
}

func (c *natsFeedConn) IsConnected() bool {
	return c.nc != nil && c.nc.IsConnected()
}

func (c *natsFeedConn) SetErrorHandler(fn func(subject string, err error)) {
	c.nc.SetErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
		subject := ""
		if sub != nil {
			subject = sub.Subject
		}
		fn(subject, err)
	})
}

func (c *natsFeedConn) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

// ConnectFeed membuka koneksi NATS ke change feed dengan reconnect otomatis.
func ConnectFeed(url string, maxReconnect int, reconnectWait time.Duration) (FeedConn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(maxReconnect),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				utils.ErrorLogger.Printf("Change feed disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			utils.InfoLogger.Printf("Change feed reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			utils.InfoLogger.Printf("Change feed connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to change feed: %w", err)
	}

	utils.InfoLogger.Printf("Connected to change feed at %s", url)
	return &natsFeedConn{nc: nc}, nil
}
