// Package events publishes row change notifications of admin edited tables.
package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Op is the kind of row change.
type Op string

// Row change kinds.
const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Tables with change notification.
const (
	TableChallenges    = "challenges"
	TableAnnouncements = "announcements"
	TableAppConfig     = "app_config"
)

// Change is the JSON payload of a notification.
type Change struct {
	Table string    `json:"table"`
	Op    Op        `json:"op"`
	Row   any       `json:"row"`
	At    time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}

// Notifier turns row changes into subjects "<prefix>.<table>.<op>".
// A nil Notifier drops everything.
type Notifier struct {
	pub    Publisher
	prefix string
}

// NewNotifier creates a notifier publishing through pub.
func NewNotifier(pub Publisher, prefix string) *Notifier {
	if pub == nil {
		pub = &NoopPublisher{}
	}

	return &Notifier{pub: pub, prefix: prefix}
}

// Subject returns the subject for table and op.
func (n *Notifier) Subject(table string, op Op) string {
	if n.prefix == "" {
		return table + "." + string(op)
	}

	return n.prefix + "." + table + "." + string(op)
}

// Changed publishes a change. Failures are logged and never returned,
// the database write already happened.
func (n *Notifier) Changed(ctx context.Context, table string, op Op, row any) {
	if n == nil {
		return
	}

	subject := n.Subject(table, op)

	err := n.pub.Publish(ctx, subject, Change{Table: table, Op: op, Row: row, At: time.Now().UTC()})
	if err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish change event")
	}
}

// Close closes the underlying publisher.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}

	return n.pub.Close()
}
