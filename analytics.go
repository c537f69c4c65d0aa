package main

import (
	"database/sql"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Event types recorded in the stats journal
const (
	StatJoin    = "join"
	StatLeave   = "leave"
	StatKill    = "kill"
	StatBotKill = "bot_kill"
	StatDeath   = "death"
	StatEndGame = "end_game"
)

// StatEvent is a single trackable event
type StatEvent struct {
	Type      string
	SubjectID string
	ObjectID  string
	Timestamp time.Time
}

// StatsJournal is a write-only operational journal with batched
// background writes. Nothing in the game ever reads state back from it;
// it exists for operators. A nil journal is valid and records nothing.
type StatsJournal struct {
	conn   *sql.DB
	events chan StatEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// OpenStatsJournal opens (or creates) the journal database and starts
// the background writer.
func OpenStatsJournal(path string) (*StatsJournal, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS stats_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		subject_id TEXT NOT NULL DEFAULT '',
		object_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_stats_events_type ON stats_events(event_type);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}

	j := &StatsJournal{
		conn:   conn,
		events: make(chan StatEvent, 1024),
		stop:   make(chan struct{}),
	}
	j.wg.Add(1)
	go j.writer()
	return j, nil
}

// Track enqueues an event for async persistence (non-blocking)
func (j *StatsJournal) Track(evtType, subjectID, objectID string) {
	if j == nil {
		return
	}
	select {
	case j.events <- StatEvent{
		Type:      evtType,
		SubjectID: subjectID,
		ObjectID:  objectID,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full — drop the event rather than blocking the game
	}
}

// Stop drains pending events and closes the database
func (j *StatsJournal) Stop() {
	if j == nil {
		return
	}
	close(j.stop)
	j.wg.Wait()
	j.conn.Close()
}

// writer batches and writes events in the background
func (j *StatsJournal) writer() {
	defer j.wg.Done()

	batch := make([]StatEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-j.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-j.stop:
			close(j.events)
			for evt := range j.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				j.flush(batch)
			}
			return
		}
	}
}

// flush writes one batch inside a transaction
func (j *StatsJournal) flush(events []StatEvent) {
	tx, err := j.conn.Begin()
	if err != nil {
		log.Printf("stats: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO stats_events (event_type, subject_id, object_id, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		log.Printf("stats: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		if _, err := stmt.Exec(evt.Type, evt.SubjectID, evt.ObjectID, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("stats: insert error: %v", err)
		}
	}
	tx.Commit()
}

// EventCounts returns total counts of each event type
func (j *StatsJournal) EventCounts() (map[string]int, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.conn.Query(`SELECT event_type, COUNT(*) FROM stats_events GROUP BY event_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}
