package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/vancouver"
)

// connect opens a JetStream context on the configured NATS server. The
// returned close func drains the connection.
func (a *app) connect() (jetstream.JetStream, func(), error) {
	if a.natsURL == "" {
		return nil, nil, errors.New("--nats-url is required")
	}

	nc, err := nats.Connect(a.natsURL,
		nats.Name("vancouver"),
		nats.Timeout(a.cfg.OperationTimeout),
		nats.MaxReconnects(3),
		nats.ReconnectWait(500*time.Millisecond),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: connect to %s: %w", vancouver.ErrConnectivity, a.natsURL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return js, func() { _ = nc.Drain() }, nil
}
