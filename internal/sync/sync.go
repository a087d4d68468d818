// Package sync implements asynchronous background synchronization and offline
// queuing for item status mutations that failed against the server.
//
// Playstate reports are never queued here: a dropped progress report is
// worthless seconds later, but a played/favorite flag still matters.
package sync

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"os"
	"time"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/where"
)

// Mutation encapsulates a single status operation for deferred synchronization.
type Mutation struct {
	Timestamp int64  `json:"timestamp"`
	ItemID    string `json:"item_id"`
	Action    string `json:"action"`
	Path      string `json:"path"`
}

// QueueFailure persists a failed status mutation to a local JSON-log for deferred reconciliation.
func QueueFailure(itemID, action, path string) error {
	f, err := filesystem.API().OpenFile(where.SyncQueue(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	mutation := Mutation{
		Timestamp: time.Now().Unix(),
		ItemID:    itemID,
		Action:    action,
		Path:      path,
	}

	encoder := json.NewEncoder(f)
	return encoder.Encode(mutation)
}

// Pending returns the queued mutations in insertion order.
func Pending() ([]Mutation, error) {
	content, err := filesystem.API().ReadFile(where.SyncQueue())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var mutations []Mutation
	decoder := json.NewDecoder(bytes.NewReader(content))
	for decoder.More() {
		var m Mutation
		if err := decoder.Decode(&m); err == nil {
			mutations = append(mutations, m)
		}
	}
	return mutations, nil
}

// ReconcileFailures initializes an asynchronous background process to replay
// previously failed mutations through the supplied poster. The queue is
// truncated only when every mutation succeeds.
func ReconcileFailures(post func(path string) error) {
	go func() {
		mutations, err := Pending()
		if err != nil || len(mutations) == 0 {
			return
		}

		successCount := 0
		for i, m := range mutations {
			// Apply incremental delay with randomized jitter to manage request throttling.
			backoff := time.Duration((1<<i)*100)*time.Millisecond + time.Duration(rand.Intn(100))*time.Millisecond
			time.Sleep(backoff)

			if post(m.Path) == nil {
				successCount++
			}
		}

		// Atomic state update: Truncate the failure log if all operations successfully synchronized.
		if successCount == len(mutations) {
			_ = filesystem.API().Remove(where.SyncQueue())
		}
	}()
}
