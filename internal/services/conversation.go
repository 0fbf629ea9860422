package services

import (
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/internal/models"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

// ConversationService turns incoming chat text into a reply and records the exchange
type ConversationService struct {
	responder *Responder
	store     storage.Store
}

// NewConversationService creates a new conversation service. store may be nil.
func NewConversationService(responder *Responder, store storage.Store) *ConversationService {
	return &ConversationService{
		responder: responder,
		store:     store,
	}
}

// ProcessMessage answers one incoming message and records the exchange
func (c *ConversationService) ProcessMessage(channel, from, text string) Reply {
	reply := c.responder.Reply(text)

	log.Info().
		Str("channel", channel).
		Str("from", from).
		Str("command", reply.Command).
		Msgf("💬 Message from %s: %q", from, text)

	if c.store != nil {
		entry := &models.ChatLog{
			Channel:  channel,
			From:     from,
			Incoming: text,
			Command:  reply.Command,
			Reply:    reply.Text,
		}
		if err := c.store.CreateChatLog(entry); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to record chat log")
		}
	}

	return reply
}
