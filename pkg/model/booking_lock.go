package model

import "time"

// BookingLock is an advisory lock document guarding one activity slot while
// a booking write is in flight. A TTL index on expires_at reaps stale locks
// left behind by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
