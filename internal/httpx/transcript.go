package httpx

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/ooni/probe-bouncer/internal/model"
)

// transcriptHandler is an apex/log handler collecting the transcript of
// an exchange. It also forwards each line to a model.Logger.
//
// The transport may log from background goroutines, hence the mutex.
type transcriptHandler struct {
	buf   bytes.Buffer
	mu    sync.Mutex
	outer model.Logger
	t0    time.Time
}

var _ log.Handler = &transcriptHandler{}

func newTranscriptHandler(outer model.Logger) *transcriptHandler {
	return &transcriptHandler{
		outer: model.ValidLoggerOrDefault(outer),
		t0:    time.Now(),
	}
}

// HandleLog implements log.Handler.
func (h *transcriptHandler) HandleLog(e *log.Entry) error {
	line := fmt.Sprintf("[%14.6f] %s", time.Since(h.t0).Seconds(), e.Message)
	h.mu.Lock()
	h.buf.WriteString(line)
	h.buf.WriteByte('\n')
	h.mu.Unlock()
	h.outer.Debug(line)
	return nil
}

// Bytes returns a copy of the transcript.
func (h *transcriptHandler) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte{}, h.buf.Bytes()...)
}
