package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agent-shell/domain/action"
)

// BannerSink writes each message framed by a -----[name]----- header,
// followed by blank lines. Writes are serialized.
func BannerSink(w io.Writer, name string) action.LogFunc {
	var mu sync.Mutex
	return func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "-----[%s]-----\n%s\n\n\n", name, msg)
	}
}

// BoltSink forwards messages to a structured logger at debug level.
func BoltSink(logger *bolt.Logger, name string) action.LogFunc {
	return func(msg string) {
		logger.Debug().Str("agent", name).Msg(msg)
	}
}

// Tee fans a message out to every non-nil sink in order.
func Tee(sinks ...action.LogFunc) action.LogFunc {
	return func(msg string) {
		for _, s := range sinks {
			if s != nil {
				s(msg)
			}
		}
	}
}

// Discard drops every message.
func Discard(string) {}
