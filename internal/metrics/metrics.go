package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bot's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	replies      *prometheus.CounterVec
	sendFailures *prometheus.CounterVec
	connected    prometheus.Gauge
	qrCodes      prometheus.Counter
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoresponder_replies_total",
				Help: "Total number of chat replies by matched command.",
			},
			[]string{"command"},
		),
		sendFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoresponder_send_failures_total",
				Help: "Total number of replies that could not be delivered.",
			},
			[]string{"channel"},
		),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autoresponder_whatsapp_connected",
			Help: "1 when the WhatsApp client is connected and paired.",
		}),
		qrCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoresponder_qr_codes_total",
			Help: "Total number of pairing QR codes received.",
		}),
	}
	reg.MustRegister(
		m.replies,
		m.sendFailures,
		m.connected,
		m.qrCodes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveReply counts one reply for the given command. Safe on a nil receiver.
func (m *Metrics) ObserveReply(command string) {
	if m == nil {
		return
	}
	m.replies.WithLabelValues(command).Inc()
}

// ObserveSendFailure counts one failed delivery on channel
func (m *Metrics) ObserveSendFailure(channel string) {
	if m == nil {
		return
	}
	m.sendFailures.WithLabelValues(channel).Inc()
}

// ObserveQRCode counts one received pairing code
func (m *Metrics) ObserveQRCode() {
	if m == nil {
		return
	}
	m.qrCodes.Inc()
}

// SetConnected records the WhatsApp connection state
func (m *Metrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

// Registry exposes the underlying registry for tests and custom handlers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
