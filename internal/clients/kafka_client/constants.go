package kafka_client

import "time"

const (
	POLL_TIMEOUT     = 500 * time.Millisecond
	DELIVERY_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)
