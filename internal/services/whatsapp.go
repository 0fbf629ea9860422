package services

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/Ananth-NQI/autoresponder/internal/metrics"
	"github.com/Ananth-NQI/autoresponder/internal/models"
)

const (
	sendTimeout       = 30 * time.Second
	reconnectDelay    = 5 * time.Second
	qrRegenerateDelay = 2 * time.Second
)

// whatsAppSender is the part of *whatsmeow.Client used to deliver replies
type whatsAppSender interface {
	SendMessage(ctx context.Context, to types.JID, message *waE2E.Message, extra ...whatsmeow.SendRequestExtra) (whatsmeow.SendResponse, error)
}

// WhatsAppOptions configures the WhatsApp client service
type WhatsAppOptions struct {
	StoreDSN      string // sqlite DSN for the whatsmeow device store
	ReplyInGroups bool
	QRTerminal    bool
}

// WhatsAppService connects to WhatsApp through whatsmeow and answers incoming messages
type WhatsAppService struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	sender    whatsAppSender

	conversations *ConversationService
	pairing       *PairingState
	metrics       *metrics.Metrics

	replyInGroups bool
	qrTerminal    bool
	qrOut         io.Writer

	// restartPairing runs after a logout, relink by default
	restartPairing func()
	pairingActive  atomic.Bool

	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWhatsAppService opens the device store and creates the whatsmeow client
func NewWhatsAppService(ctx context.Context, opts WhatsAppOptions, conversations *ConversationService, pairing *PairingState, m *metrics.Metrics) (*WhatsAppService, error) {
	if err := ensureStoreDir(opts.StoreDSN); err != nil {
		return nil, err
	}

	dbLog := waLog.Zerolog(log.With().Str("module", "whatsmeow-db").Logger())
	container, err := sqlstore.New(ctx, "sqlite3", opts.StoreDSN, dbLog)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open WhatsApp session store")
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, errors.Wrap(err, "failed to load WhatsApp device")
	}

	clientLog := waLog.Zerolog(log.With().Str("module", "whatsmeow").Logger())
	client := whatsmeow.NewClient(deviceStore, clientLog)

	w := newWhatsAppService(client, conversations, pairing, m, opts)
	w.client = client
	w.container = container
	return w, nil
}

func newWhatsAppService(sender whatsAppSender, conversations *ConversationService, pairing *PairingState, m *metrics.Metrics, opts WhatsAppOptions) *WhatsAppService {
	w := &WhatsAppService{
		sender:        sender,
		conversations: conversations,
		pairing:       pairing,
		metrics:       m,
		replyInGroups: opts.ReplyInGroups,
		qrTerminal:    opts.QRTerminal,
		qrOut:         os.Stdout,
		log:           log.With().Str("component", "whatsapp").Logger(),
		ctx:           context.Background(),
	}
	w.restartPairing = func() { go w.relink(w.ctx) }
	return w
}

// Start registers the event handler and connects. A new device pairs via QR in the background.
func (w *WhatsAppService) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.ctx = ctx
	w.client.AddEventHandler(w.HandleEvent)

	if w.client.Store.ID == nil {
		w.log.Info().Msg("🔑 No WhatsApp session found - waiting for QR pairing")
		w.startPairLoop(ctx)
		return nil
	}

	w.log.Info().Str("jid", w.client.Store.ID.String()).Msg("🔄 Restoring WhatsApp session")
	if err := w.client.Connect(); err != nil {
		return errors.Wrap(err, "failed to connect to WhatsApp")
	}
	return nil
}

// Stop disconnects the client and closes the session store
func (w *WhatsAppService) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.client != nil {
		w.client.Disconnect()
	}
	if w.container != nil {
		if err := w.container.Close(); err != nil {
			w.log.Warn().Err(err).Msg("Failed to close session store")
		}
	}
	w.pairing.MarkDisconnected()
	w.metrics.SetConnected(false)
}

// relink drops the logged-out device so a fresh QR code can be issued
func (w *WhatsAppService) relink(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.log.Info().Msg("🔁 Device logged out - starting a new QR pairing")
	w.client.Disconnect()

	if w.client.Store.ID != nil {
		if err := w.client.Store.Delete(ctx); err != nil {
			w.log.Error().Err(err).Msg("❌ Failed to delete device from session store")
			return
		}
	}
	w.startPairLoop(ctx)
}

// startPairLoop runs pairLoop in the background unless one is already running
func (w *WhatsAppService) startPairLoop(ctx context.Context) {
	if !w.pairingActive.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer w.pairingActive.Store(false)
		w.pairLoop(ctx)
	}()
}

// pairLoop keeps fetching QR codes until the device is paired or ctx ends
func (w *WhatsAppService) pairLoop(ctx context.Context) {
	for ctx.Err() == nil {
		qrChan, err := w.client.GetQRChannel(ctx)
		if err != nil {
			if errors.Is(err, whatsmeow.ErrQRStoreContainsID) {
				if err := w.client.Connect(); err != nil {
					w.log.Error().Err(err).Msg("❌ Failed to connect to WhatsApp")
				}
				return
			}
			w.log.Error().Err(err).Msg("❌ Failed to get QR channel")
			return
		}

		if !w.client.IsConnected() {
			if err := w.client.Connect(); err != nil {
				w.log.Error().Err(err).Msg("❌ Failed to connect for QR pairing")
				if !sleepCtx(ctx, reconnectDelay) {
					return
				}
				continue
			}
		}

		var retryAfter time.Duration
		for evt := range qrChan {
			switch evt.Event {
			case "code":
				w.handleQRCode(evt.Code)
			case "success":
				w.log.Info().Msg("✅ QR code scanned - pairing successful")
				return
			case "timeout":
				w.log.Info().Msg("⌛ QR code batch expired, regenerating...")
				retryAfter = qrRegenerateDelay
			case "error":
				w.authFailure("pairing error: " + errorString(evt.Error))
				retryAfter = reconnectDelay
			default:
				w.authFailure("pairing failed: " + evt.Event)
				retryAfter = reconnectDelay
			}
		}

		// channel closed without an outcome, e.g. ctx ended
		if retryAfter == 0 {
			return
		}
		w.client.Disconnect()
		if !sleepCtx(ctx, retryAfter) {
			return
		}
	}
}

func (w *WhatsAppService) handleQRCode(code string) {
	w.pairing.SetCode(code)
	w.metrics.ObserveQRCode()
	w.log.Info().Msg("📱 New QR code received - scan it in WhatsApp or open /get-qr")

	if w.qrTerminal {
		qrterminal.GenerateHalfBlock(code, qrterminal.L, w.qrOut)
	}
}

func (w *WhatsAppService) authFailure(reason string) {
	w.log.Error().Str("reason", reason).Msg("❌ WhatsApp authentication failure")
	w.pairing.MarkAuthFailure(reason)
	w.metrics.SetConnected(false)
}

// HandleEvent dispatches whatsmeow events
func (w *WhatsAppService) HandleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		w.handleMessage(v)

	case *events.Connected:
		w.pairing.MarkConnected()
		w.metrics.SetConnected(true)
		w.log.Info().Msg("✅ WhatsApp client is ready!")

	case *events.PairSuccess:
		w.log.Info().Str("jid", v.ID.String()).Str("platform", v.Platform).Msg("🔗 Device paired")

	case *events.Disconnected:
		w.pairing.MarkDisconnected()
		w.metrics.SetConnected(false)
		w.log.Warn().Msg("⚠️  Disconnected from WhatsApp")

	case *events.LoggedOut:
		w.authFailure("logged out: " + v.Reason.String())
		w.restartPairing()

	case *events.ConnectFailure:
		w.authFailure("connect failure: " + v.Reason.String())

	case *events.TemporaryBan:
		w.authFailure("temporary ban: " + v.String())
	}
}

func (w *WhatsAppService) handleMessage(evt *events.Message) {
	info := evt.Info
	if info.IsFromMe || info.Chat == types.StatusBroadcastJID {
		return
	}
	if info.IsGroup && !w.replyInGroups {
		return
	}

	text := extractText(evt.Message)
	if text == "" {
		return
	}

	reply := w.conversations.ProcessMessage(models.ChannelWhatsmeow, info.Sender.User, text)

	if err := w.sendText(info.Chat, reply.Text); err != nil {
		w.metrics.ObserveSendFailure(models.ChannelWhatsmeow)
		w.log.Error().Err(err).Str("chat", info.Chat.String()).Msg("❌ Failed to send reply")
		return
	}
	w.log.Info().Str("chat", info.Chat.String()).Str("command", reply.Command).Msg("📤 Reply sent")
}

func (w *WhatsAppService) sendText(to types.JID, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, err := w.sender.SendMessage(ctx, to, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.Wrap(err, "timeout sending message to WhatsApp")
		}
		return errors.Wrap(err, "error sending message")
	}
	return nil
}

// extractText returns the text or media caption of a message, empty for other kinds
func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		return msg.GetExtendedTextMessage().GetText()
	case msg.GetImageMessage().GetCaption() != "":
		return msg.GetImageMessage().GetCaption()
	default:
		return msg.GetVideoMessage().GetCaption()
	}
}

func ensureStoreDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return nil
	}
	if err := os.MkdirAll(path[:i], 0755); err != nil {
		return errors.Wrap(err, "failed to create store directory")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func errorString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
