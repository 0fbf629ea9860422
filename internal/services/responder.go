package services

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database

	"github.com/pkg/errors"

	"github.com/Ananth-NQI/autoresponder/internal/metrics"
)

// Commands the responder can match
const (
	CommandGreeting = "greeting"
	CommandStatus   = "status"
	CommandTime     = "time"
	CommandThanks   = "thanks"
	CommandHelp     = "help"
	CommandFallback = "fallback"
)

// Canned replies
const (
	GreetingMessage = "👋 Hello! I'm an automated WhatsApp assistant. Type *!help* to see what I can do."
	StatusMessage   = "✅ Bot is online and running!"
	ThanksMessage   = "😊 You're welcome! Happy to help."
	HelpMessage     = "📋 *Available commands:*\n\n" +
		"• *hi* / *hello* - Say hello\n" +
		"• *!status* - Check if the bot is online\n" +
		"• *!time* - Show the current time\n" +
		"• *!help* - Show this list"
	FallbackMessage = "🤖 Sorry, I didn't understand that. Type *!help* to see available commands."

	timePrefix = "🕒 Current time: "
)

// TimeLayout is used for the !time reply
const TimeLayout = "Monday, 02 January 2006, 03:04:05 PM MST"

// Reply is the responder's answer to one incoming message
type Reply struct {
	Command string
	Text    string
}

// Responder maps incoming chat text to one of the canned replies
type Responder struct {
	location *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics
}

// ResponderOption configures a Responder
type ResponderOption func(*Responder)

// WithClock overrides the time source used by !time
func WithClock(now func() time.Time) ResponderOption {
	return func(r *Responder) {
		r.now = now
	}
}

// WithMetrics counts replies per command
func WithMetrics(m *metrics.Metrics) ResponderOption {
	return func(r *Responder) {
		r.metrics = m
	}
}

// NewResponder creates a responder that reports time in the named IANA zone
func NewResponder(timezone string, opts ...ResponderOption) (*Responder, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone %q", timezone)
	}

	r := &Responder{
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Reply returns the answer for text. Anything unmatched, blank included, gets the fallback.
func (r *Responder) Reply(text string) (reply Reply) {
	msg := strings.ToLower(strings.TrimSpace(text))

	switch {
	case msg == "hi" || msg == "hello":
		reply = Reply{Command: CommandGreeting, Text: GreetingMessage}

	case msg == "!status" || strings.Contains(msg, "online"):
		reply = Reply{Command: CommandStatus, Text: StatusMessage}

	case msg == "!time":
		reply = Reply{Command: CommandTime, Text: timePrefix + r.CurrentTime()}

	case strings.Contains(msg, "thanks") || strings.Contains(msg, "thank you"):
		reply = Reply{Command: CommandThanks, Text: ThanksMessage}

	case msg == "!help":
		reply = Reply{Command: CommandHelp, Text: HelpMessage}

	default:
		reply = Reply{Command: CommandFallback, Text: FallbackMessage}
	}

	r.metrics.ObserveReply(reply.Command)
	return reply
}

// CurrentTime formats the clock in the responder's location
func (r *Responder) CurrentTime() string {
	return r.now().In(r.location).Format(TimeLayout)
}

// Location returns the zone used for !time
func (r *Responder) Location() *time.Location {
	return r.location
}

func (r Reply) String() string {
	return fmt.Sprintf("[%s] %s", r.Command, r.Text)
}
