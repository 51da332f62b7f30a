package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// serviceName tags every log line so aggregated streams stay attributable.
const serviceName = "taskdesk-api"

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared line-oriented logger. Tests swap its output to
// capture emitted entries.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// Info emits an informational event with optional fields.
func Info(msg string, fields map[string]any) {
	emit("info", msg, fields)
}

// Error emits an error event with optional fields.
func Error(msg string, fields map[string]any) {
	emit("error", msg, fields)
}

// LogRequest emits the per-request completion line. The caller supplies the
// request fields; the envelope (ts, level, msg, service) is stamped here.
func LogRequest(fields map[string]any) {
	emit("info", "request_complete", fields)
}

func emit(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	entry["service"] = serviceName
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Printf(`{"ts":%q,"level":"error","msg":"log marshal failed","service":%q}`,
			time.Now().UTC().Format(time.RFC3339Nano), serviceName)
		return
	}
	Logger().Println(string(data))
}
