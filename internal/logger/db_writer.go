package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"admin-panel/internal/config"
	"admin-panel/internal/database"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	IP      string
	UserID  string
	Caller  string
	Time    time.Time
}

// LogRecord is the persisted shape in the logs collection.
type LogRecord struct {
	AppID     string    `bson:"appId"`
	Level     string    `bson:"level"`
	LevelID   int       `bson:"levelId"`
	Message   string    `bson:"message"`
	IPAddress string    `bson:"ipAddress,omitempty"`
	UserID    string    `bson:"userId,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Sink is the insert side of a collection.
type Sink interface {
	InsertOne(ctx context.Context, document interface{}) error
}

type collectionSink struct {
	db *database.MongodbDB
}

func (s collectionSink) InsertOne(ctx context.Context, document interface{}) error {
	_, err := s.db.DB.Collection(database.LogsCollection).InsertOne(ctx, document)
	return err
}

// DBLogWriter drains log entries to the sink on a single goroutine.
type DBLogWriter struct {
	sink    Sink
	logChan chan LogEntry
	appID   string
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	return newWriter(collectionSink{db: mongodb}, cfg.AppId, 1000)
}

func newWriter(sink Sink, appID string, buffer int) *DBLogWriter {
	w := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, buffer),
		appID:   appID,
		done:    make(chan struct{}),
	}
	go w.processLogs()
	return w
}

// AddLog never blocks the caller; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		fmt.Fprintln(os.Stderr, "log buffer full, dropping:", entry.Message)
	}
}

// Close stops accepting entries and waits for the backlog to flush or ctx to end.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		created := entry.Time
		if created.IsZero() {
			created = time.Now()
		}
		record := LogRecord{
			AppID:     w.appID,
			Level:     entry.Level.String(),
			LevelID:   mapLevelToInt(entry.Level),
			Message:   entry.Message,
			IPAddress: entry.IP,
			UserID:    entry.UserID,
			Caller:    entry.Caller,
			CreatedAt: created.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = w.sink.InsertOne(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
