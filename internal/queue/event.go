// Package queue defines the activity events exchanged over RabbitMQ and the
// background consumer that records them.
package queue

import "time"

// ActivityQueue is the durable queue activity events are routed to.
const ActivityQueue = "activity.events"

// Activity event kinds.
const (
	KindContentGenerated = "content.generated"
	KindContentDeleted   = "content.deleted"
	KindUserRegistered   = "user.registered"
	KindUserUpdated      = "user.updated"
	KindUserActivated    = "user.activated"
	KindUserDeactivated  = "user.deactivated"
	KindUserPromoted     = "user.promoted"
	KindUserDemoted      = "user.demoted"
	KindUserDeleted      = "user.deleted"
	KindPasswordReset    = "user.password_reset"
	KindTemplateCreated  = "template.created"
	KindTemplateDeleted  = "template.deleted"
)

// ActivityEvent is published after a state change succeeds. It carries
// enough context for the audit log without querying the database.
type ActivityEvent struct {
	Kind       string    `json:"kind"`
	ActorID    uint64    `json:"actor_id"`
	TargetIDs  []uint64  `json:"target_ids,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps an event with the current UTC time.
func NewActivityEvent(kind string, actorID uint64, detail string, targets ...uint64) ActivityEvent {
	return ActivityEvent{
		Kind:       kind,
		ActorID:    actorID,
		TargetIDs:  targets,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}
