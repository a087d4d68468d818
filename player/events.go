package player

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/jellysan-cli/jellysan/log"
)

// eventListener provides real-time mpv event monitoring via observe_property.
type eventListener struct {
	socketPath string
	conn       net.Conn
	callback   func(Event)
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// Events subscribes to surface notifications. It sets up property observers
// and starts a dedicated read loop on a persistent IPC connection.
func (m *MPV) Events(callback func(Event)) (func(), error) {
	el := &eventListener{
		socketPath: m.socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
	}

	if err := el.start(); err != nil {
		return nil, err
	}

	// Forward process exit as a closed event.
	go func() {
		select {
		case <-m.exited:
			callback(Event{Type: EventClosed})
		case <-el.stopCh:
		}
	}()

	return el.stop, nil
}

func (el *eventListener) start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	// observe_property <id> <property> - mpv sends notifications when they change
	properties := []struct {
		id   int
		name string
	}{
		{1, "time-pos"}, // position updates for reporting + skip detection
		{2, "pause"},    // transport state
		{3, "seeking"},  // seek/buffering detection
	}

	for _, prop := range properties {
		_, err := doSendCommand(el.socketPath, []interface{}{"observe_property", prop.id, prop.name})
		if err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	// Open a persistent connection for the event read loop
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: time-pos, pause, seeking)", el.socketPath)
	return nil
}

// stop terminates the event listener. Safe to call more than once.
func (el *eventListener) stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop continuously reads events from the persistent mpv connection.
// mpv sends newline-delimited JSON events when observed properties change.
func (el *eventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		// Set read deadline to avoid blocking forever
		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue // timeout is normal, keep listening
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		// mpv sends multiple JSON objects separated by newlines
		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Last incomplete line goes to remainder for next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.processEvent(line)
		}
	}
}

// processEvent parses a single mpv event JSON line and translates it into a
// typed surface event.
func (el *eventListener) processEvent(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return // Skip unparseable lines
	}

	eventType, ok := event["event"].(string)
	if !ok {
		return
	}

	switch eventType {
	case "property-change":
		name, _ := event["name"].(string)
		data := event["data"]
		el.propertyChange(name, data)
	case "file-loaded":
		el.callback(Event{Type: EventReady})
	case "end-file":
		switch reason, _ := event["reason"].(string); reason {
		case "error":
			msg, _ := event["file_error"].(string)
			el.callback(Event{Type: EventError, Err: fmt.Errorf("surface playback error: %s", msg)})
		case "eof":
			// The single end-of-media source. A loadfile replace fires
			// end-file with reason stop and a window quit is followed by
			// the process exit; neither is this media finishing.
			el.callback(Event{Type: EventEnded})
		}
	}
}

func (el *eventListener) propertyChange(name string, data interface{}) {
	switch name {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			el.callback(Event{Type: EventPosition, Position: pos})
		}
	case "pause":
		if flag, ok := data.(bool); ok {
			el.callback(Event{Type: EventPause, Flag: flag})
		}
	case "seeking":
		if flag, ok := data.(bool); ok {
			el.callback(Event{Type: EventSeeking, Flag: flag})
		}
	}
}
