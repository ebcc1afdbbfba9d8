package models

import "time"

// OutboxEvent is a broadcast event committed in the same transaction as the
// mutation that produced it. A separate dispatch step publishes committed
// rows to the transport, decoupling persistence success from transport
// availability. PublishedAt stays nil until delivery succeeds.
type OutboxEvent struct {
	ID          string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Channel     string     `json:"channel" gorm:"size:100;index"`
	Event       string     `json:"event" gorm:"size:50"`
	Payload     []byte     `json:"payload" gorm:"type:bytes"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	PublishedAt *time.Time `json:"published_at,omitempty" gorm:"index"`
}
