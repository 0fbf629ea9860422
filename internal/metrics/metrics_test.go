package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReply(t *testing.T) {
	m := New()
	m.ObserveReply("greeting")
	m.ObserveReply("greeting")
	m.ObserveReply("help")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.replies.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replies.WithLabelValues("help")))
}

func TestSetConnected(t *testing.T) {
	m := New()
	m.SetConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connected))
	m.SetConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connected))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReply("fallback")
		m.ObserveSendFailure("twilio")
		m.ObserveQRCode()
		m.SetConnected(true)
	})
}
