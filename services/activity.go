package services

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"splitsphere-backend/models"
)

// ActivityRecorder writes activity feed rows off the request path. Entries
// go through a buffered channel to a single writer goroutine; a full
// buffer drops the entry rather than blocking a request, and Shutdown
// drains whatever is still queued.
type ActivityRecorder struct {
	db      *gorm.DB
	entries chan models.Activity
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewActivityRecorder(db *gorm.DB, bufferSize int) *ActivityRecorder {
	return &ActivityRecorder{
		db:      db,
		entries: make(chan models.Activity, bufferSize),
		done:    make(chan struct{}),
	}
}

func (r *ActivityRecorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.done:
				if n := len(r.entries); n > 0 {
					log.Printf("draining %d activity entries before shutdown", n)
				}
				for len(r.entries) > 0 {
					r.write(<-r.entries)
				}
				return
			case entry := <-r.entries:
				r.write(entry)
			}
		}
	}()
}

func (r *ActivityRecorder) write(entry models.Activity) {
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("❌ Failed to record activity %q: %v", entry.Type, err)
	}
}

// Record queues an activity entry. Never blocks.
func (r *ActivityRecorder) Record(entry models.Activity) {
	select {
	case r.entries <- entry:
	default:
		log.Printf("⚠️  Activity buffer full, dropping %q entry", entry.Type)
	}
}

func (r *ActivityRecorder) Shutdown() {
	close(r.done)
	r.wg.Wait()
}

var (
	recorder     *ActivityRecorder
	recorderOnce sync.Once
)

// InitActivityRecorder wires the singleton recorder used by handlers.
func InitActivityRecorder(db *gorm.DB) *ActivityRecorder {
	recorderOnce.Do(func() {
		recorder = NewActivityRecorder(db, 256)
		recorder.Start()
	})
	return recorder
}

// RecordActivity queues an entry on the singleton recorder, if running.
func RecordActivity(entry models.Activity) {
	if recorder == nil {
		return
	}
	recorder.Record(entry)
}
