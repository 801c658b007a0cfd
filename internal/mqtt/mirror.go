package mqtt

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/state"
)

type message struct {
	snap  *state.Snapshot
	at    time.Time
	alarm *state.Event
}

// Mirror moves publishing off the control cycle. Messages that do not fit in
// the queue are dropped.
type Mirror struct {
	pub   Publisher
	queue chan message
}

func NewMirror(pub Publisher, size int) *Mirror {
	return &Mirror{pub: pub, queue: make(chan message, size)}
}

func (m *Mirror) enqueue(msg message) bool {
	select {
	case m.queue <- msg:
		return true
	default:
		log.Warn().Msg("MQTT queue full, message dropped")
		return false
	}
}

func (m *Mirror) Status(snap state.Snapshot, at time.Time) bool {
	return m.enqueue(message{snap: &snap, at: at})
}

func (m *Mirror) Alarm(e state.Event) bool {
	return m.enqueue(message{alarm: &e})
}

// Run publishes queued messages until ctx is done, then drains what is left.
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case msg := <-m.queue:
			m.publish(msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-m.queue:
					m.publish(msg)
				default:
					return
				}
			}
		}
	}
}

func (m *Mirror) publish(msg message) {
	var err error
	if msg.alarm != nil {
		err = m.pub.PublishAlarm(*msg.alarm)
	} else {
		err = m.pub.PublishStatus(*msg.snap, msg.at)
	}
	if err != nil {
		log.Warn().Err(err).Msg("MQTT publish failed")
	}
}
