package email

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogSender records outgoing mail in the log instead of delivering it.
// It is used when no Resend API key is configured.
type LogSender struct {
	mu   sync.Mutex
	sent []SendRequest
	now  func() time.Time
}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{now: time.Now}
}

// Send logs the email.
// POST: Returns a synthetic message id; nothing leaves the process
func (s *LogSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.record(req)
	return SendResult{MessageID: "log-" + uuid.NewString(), SentAt: s.now()}, nil
}

// SendBatch logs every email of the batch.
func (s *LogSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, _ := s.Send(ctx, req)
		results = append(results, res)
	}
	return results, nil
}

func (s *LogSender) record(req SendRequest) {
	slog.Info("email_logged", "to", strings.Join(req.To, ","), "subject", req.Subject)
	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.mu.Unlock()
}

// Sent returns a copy of everything logged so far.
func (s *LogSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SendRequest(nil), s.sent...)
}
