package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	r, err := NewResponder("Asia/Kolkata", WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return r
}

func TestReplyGreeting(t *testing.T) {
	r := newTestResponder(t)
	for _, input := range []string{"hi", "hello", "HI", "  Hello  ", "\tHeLLo\n"} {
		reply := r.Reply(input)
		assert.Equal(t, CommandGreeting, reply.Command, input)
		assert.Equal(t, GreetingMessage, reply.Text, input)
	}
}

func TestReplyGreetingRequiresExactMatch(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Reply("hi there")
	assert.Equal(t, CommandFallback, reply.Command)
}

func TestReplyStatus(t *testing.T) {
	r := newTestResponder(t)
	for _, input := range []string{"!status", "!STATUS", "are you online?", "ONLINE"} {
		reply := r.Reply(input)
		assert.Equal(t, CommandStatus, reply.Command, input)
		assert.Equal(t, StatusMessage, reply.Text, input)
	}
}

func TestReplyTime(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Reply(" !time ")
	assert.Equal(t, CommandTime, reply.Command)
	assert.Equal(t, "🕒 Current time: Friday, 15 March 2024, 03:00:00 PM IST", reply.Text)
	assert.Contains(t, reply.Text, r.CurrentTime())
}

func TestReplyThanks(t *testing.T) {
	r := newTestResponder(t)
	for _, input := range []string{"thanks", "Thanks a lot!", "thank you", "ok THANK YOU bot"} {
		reply := r.Reply(input)
		assert.Equal(t, CommandThanks, reply.Command, input)
		assert.Equal(t, ThanksMessage, reply.Text, input)
	}
}

func TestReplyHelp(t *testing.T) {
	r := newTestResponder(t)
	reply := r.Reply("!HELP")
	assert.Equal(t, CommandHelp, reply.Command)
	for _, cmd := range []string{"hi", "!status", "!time", "!help"} {
		assert.True(t, strings.Contains(reply.Text, cmd), cmd)
	}
}

func TestReplyFallback(t *testing.T) {
	r := newTestResponder(t)
	for _, input := range []string{"what's up", "!unknown", "help", "time"} {
		reply := r.Reply(input)
		assert.Equal(t, CommandFallback, reply.Command, input)
		assert.Equal(t, FallbackMessage, reply.Text, input)
	}
}

func TestReplyPriority(t *testing.T) {
	r := newTestResponder(t)

	// status outranks thanks
	reply := r.Reply("thanks for being online")
	assert.Equal(t, CommandStatus, reply.Command)
}

func TestReplyBlankInputFallsBack(t *testing.T) {
	r := newTestResponder(t)
	for _, input := range []string{"", "   ", "\n\t"} {
		reply := r.Reply(input)
		assert.Equal(t, CommandFallback, reply.Command, "%q", input)
		assert.Equal(t, FallbackMessage, reply.Text, "%q", input)
	}
}

func TestNewResponderInvalidTimezone(t *testing.T) {
	_, err := NewResponder("Mars/Olympus_Mons")
	assert.Error(t, err)
}
