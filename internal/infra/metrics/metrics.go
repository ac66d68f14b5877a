package metrics

import "sync/atomic"

type Counters struct {
	WebhooksReceived     uint64
	WebhooksIgnored      uint64
	LookupsExhausted     uint64
	PinsIssued           uint64
	MessagesSent         uint64
	MessagesFailed       uint64
	DuplicatesSuppressed uint64
}

func (c *Counters) IncReceived() {
	atomic.AddUint64(&c.WebhooksReceived, 1)
}

func (c *Counters) IncIgnored() {
	atomic.AddUint64(&c.WebhooksIgnored, 1)
}

func (c *Counters) IncLookupExhausted() {
	atomic.AddUint64(&c.LookupsExhausted, 1)
}

func (c *Counters) IncPinIssued() {
	atomic.AddUint64(&c.PinsIssued, 1)
}

func (c *Counters) IncMessageSent() {
	atomic.AddUint64(&c.MessagesSent, 1)
}

func (c *Counters) IncMessageFailed() {
	atomic.AddUint64(&c.MessagesFailed, 1)
}

func (c *Counters) IncDuplicateSuppressed() {
	atomic.AddUint64(&c.DuplicatesSuppressed, 1)
}
