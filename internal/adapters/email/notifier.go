package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"courtlink/internal/domain/booking"
)

// mdRenderer turns message bodies into HTML. Raw HTML in the input is escaped
// (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Message bodies are Markdown. Values go through md so court and sport names
// cannot add formatting or links.
var funcs = template.FuncMap{"md": escapeMarkdown}

var (
	bookedTmpl = template.Must(template.New("booked").Funcs(funcs).Parse(
		"Your booking is confirmed.\n\n**{{md .Court}}**{{if .Sport}} ({{md .Sport}}){{end}}\n{{md .Slot}}\n"))
	cancelledTmpl = template.Must(template.New("cancelled").Funcs(funcs).Parse(
		"Your booking has been cancelled.\n\n**{{md .Court}}**{{if .Sport}} ({{md .Sport}}){{end}}\n{{md .Slot}}\n"))
	adminCancelledTmpl = template.Must(template.New("admin_cancelled").Funcs(funcs).Parse(
		"An administrator cancelled your booking.\n\n**{{md .Court}}**{{if .Sport}} ({{md .Sport}}){{end}}\n{{md .Slot}}\n"))
	clearedTmpl = template.Must(template.New("cleared").Funcs(funcs).Parse(
		"All court bookings have been cleared by an administrator.\n\nPlease book again from your dashboard.\n"))
)

type bookingView struct {
	Court string
	Sport string
	Slot  string
}

// escapeMarkdown backslash-escapes ASCII punctuation and flattens newlines.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(s), " ") {
		if r < 128 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|~&", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Notifier sends booking notifications. Delivery is best effort: failures are
// logged and never returned to the caller.
type Notifier struct {
	sender Sender
}

// NewNotifier wraps sender. A nil sender disables notifications.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// render executes t and converts the Markdown result to HTML.
func render(t *template.Template, data any) (string, error) {
	var md bytes.Buffer
	if err := t.Execute(&md, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	var html bytes.Buffer
	if err := mdRenderer.Convert(md.Bytes(), &html); err != nil {
		return "", fmt.Errorf("convert %s: %w", t.Name(), err)
	}
	return html.String(), nil
}

func (n *Notifier) send(ctx context.Context, to, subject string, t *template.Template, data any) {
	if n == nil || n.sender == nil || to == "" {
		return
	}
	html, err := render(t, data)
	if err != nil {
		slog.Error("notify_failed", "template", t.Name(), "error", err)
		return
	}
	if _, err := n.sender.Send(ctx, SendRequest{To: []string{to}, Subject: subject, HTML: html}); err != nil {
		slog.Warn("notify_failed", "template", t.Name(), "to", to, "error", err)
	}
}

// BookingConfirmed tells a customer their slot was booked.
func (n *Notifier) BookingConfirmed(ctx context.Context, to, court, sport, slot string) {
	n.send(ctx, to, "Booking confirmed: "+court, bookedTmpl, bookingView{Court: court, Sport: sport, Slot: slot})
}

// BookingCancelled tells a customer their own cancellation went through.
func (n *Notifier) BookingCancelled(ctx context.Context, to string, b booking.Booking) {
	n.send(ctx, to, "Booking cancelled: "+b.CourtName, cancelledTmpl, bookingView{Court: b.CourtName, Sport: b.SportName, Slot: b.SlotTime})
}

// AdminCancelled tells the booking's customer an administrator cancelled it.
func (n *Notifier) AdminCancelled(ctx context.Context, b booking.Booking) {
	n.send(ctx, b.CustomerEmail, "Booking cancelled: "+b.CourtName, adminCancelledTmpl, bookingView{Court: b.CourtName, Sport: b.SportName, Slot: b.SlotTime})
}

// BookingsCleared tells every distinct customer of bookings that all bookings were removed.
// PRE: bookings is the list as it was before deletion
func (n *Notifier) BookingsCleared(ctx context.Context, bookings []booking.Booking) {
	if n == nil || n.sender == nil {
		return
	}
	recipients := booking.CustomerEmails(bookings)
	if len(recipients) == 0 {
		return
	}
	html, err := render(clearedTmpl, nil)
	if err != nil {
		slog.Error("notify_failed", "template", clearedTmpl.Name(), "error", err)
		return
	}
	reqs := make([]SendRequest, 0, len(recipients))
	for _, to := range recipients {
		reqs = append(reqs, SendRequest{To: []string{to}, Subject: "Your court bookings were cleared", HTML: html})
	}
	if _, err := n.sender.SendBatch(ctx, reqs); err != nil {
		slog.Warn("notify_failed", "template", clearedTmpl.Name(), "recipients", len(reqs), "error", err)
	}
}
