package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ai-research-chat-be/internal/dto"
	"ai-research-chat-be/internal/pkg/logger"
	"ai-research-chat-be/internal/repository/memory"
	"ai-research-chat-be/internal/repository/unitofwork"
	"ai-research-chat-be/internal/websocket"
	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"
	"ai-research-chat-be/pkg/citation"
	"ai-research-chat-be/pkg/events"
	"ai-research-chat-be/pkg/livefeed"
	"ai-research-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// IChatService defines the unified chat operations, generic over the
// notebook and legal domains.
type IChatService interface {
	GetHistory(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) (*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteHistory(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) error
	VerifyAccess(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) error
	LiveChannel(domain chatdomain.Domain, sessionKey uuid.UUID) string
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	sessionRepo *memory.SessionRepository
	endpoint    chat.AssistantEndpoint
	feed        *livefeed.Bus
	hub         *websocket.Hub
	publisher   *nats.Publisher
	logger      logger.ILogger

	deps chat.Dependencies
}

// NewChatService wires the session core to its gorm-backed collaborators.
// hub and publisher may be nil when websocket delivery or the event stream
// are disabled.
func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	endpoint chat.AssistantEndpoint,
	feed *livefeed.Bus,
	hub *websocket.Hub,
	publisher *nats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		sessionRepo: sessionRepo,
		endpoint:    endpoint,
		feed:        feed,
		hub:         hub,
		publisher:   publisher,
		logger:      log,
		deps: chat.Dependencies{
			Store:    NewGormMessageStore(uowFactory),
			Endpoint: endpoint,
			Catalog:  NewGormSourceCatalog(uowFactory),
			Feed:     feed,
			Owner:    NewGormOwnershipChecker(uowFactory),
		},
	}
}

func (cs *chatService) LiveChannel(domain chatdomain.Domain, sessionKey uuid.UUID) string {
	return chatdomain.ConfigFor(domain).LiveChannelPrefix + sessionKey.String()
}

// VerifyAccess checks the acting user may touch the conversation. Domains
// without an ownership relation admit any authenticated user.
func (cs *chatService) VerifyAccess(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) error {
	cfg := chatdomain.ConfigFor(domain)
	if cfg.OwnershipRelation == "" || cs.deps.Owner == nil {
		return nil
	}
	return cs.deps.Owner.VerifyOwnership(ctx, cfg, sessionKey, userId)
}

// session returns the open session for the conversation, opening and priming
// one on first access. Sessions are cached per (domain, sessionKey), not per
// user, so a cached session may have been opened by a different user;
// ownership is therefore re-verified against the acting user on every
// access, never against whoever opened the session.
func (cs *chatService) session(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) (*chat.Session, error) {
	cfg := chatdomain.ConfigFor(domain)

	if err := cs.VerifyAccess(ctx, domain, sessionKey, userId); err != nil {
		return nil, err
	}

	if sess, ok := cs.sessionRepo.Get(cfg, sessionKey.String()); ok {
		return sess, nil
	}

	sess, err := chat.Open(domain, sessionKey, userId, cs.deps)
	if err != nil {
		return nil, err
	}
	if _, err := sess.LoadHistory(ctx); err != nil {
		sess.Close()
		return nil, err
	}

	cs.sessionRepo.Save(cfg, sessionKey.String(), sess)
	return sess, nil
}

func (cs *chatService) GetHistory(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) (*dto.GetChatHistoryResponse, error) {
	sess, err := cs.session(ctx, domain, sessionKey, userId)
	if err != nil {
		return nil, err
	}

	messages, err := sess.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatMessageDTO, 0, len(messages))
	for i := range messages {
		out = append(out, messageToDTO(&messages[i]))
	}

	return &dto.GetChatHistoryResponse{
		SessionKey: sessionKey,
		Title:      cs.chatTitle(ctx, domain, sessionKey),
		Messages:   out,
	}, nil
}

func (cs *chatService) SendChat(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sess, err := cs.session(ctx, domain, sessionKey, userId)
	if err != nil {
		return nil, err
	}

	firstTurn := len(sess.Messages()) == 0

	user, reply, err := sess.Send(ctx, request.Chat, chat.SendOptions{Categories: request.Categories})
	if err != nil {
		cs.logger.Error("ChatService", "Send failed", map[string]interface{}{
			"domain":      string(domain),
			"session_key": sessionKey,
			"error":       err.Error(),
		})
		return nil, err
	}

	if firstTurn {
		cs.updateChatTitle(ctx, domain, sessionKey, user.Chat)
	}

	cs.broadcast(ctx, domain, sessionKey, *user)
	cs.broadcast(ctx, domain, sessionKey, *reply)

	userDTO := messageToDTO(user)
	replyDTO := messageToDTO(reply)
	return &dto.SendChatResponse{
		SessionKey: sessionKey,
		Title:      cs.chatTitle(ctx, domain, sessionKey),
		Sent:       &userDTO,
		Reply:      &replyDTO,
	}, nil
}

func (cs *chatService) DeleteHistory(ctx context.Context, domain chatdomain.Domain, sessionKey, userId uuid.UUID) error {
	sess, err := cs.session(ctx, domain, sessionKey, userId)
	if err != nil {
		return err
	}

	if err := sess.DeleteHistory(ctx); err != nil {
		return err
	}

	cs.updateChatTitle(ctx, domain, sessionKey, "")
	return nil
}

// broadcast fans a freshly inserted message out to every delivery path:
// the in-process live feed, the websocket hub, and the event stream.
func (cs *chatService) broadcast(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID, msg chat.Message) {
	if cs.feed != nil {
		if err := cs.feed.Publish(msg); err != nil {
			cs.logger.Warn("ChatService", "Live feed publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if cs.hub != nil {
		cs.hub.Deliver(cs.LiveChannel(domain, sessionKey), msg)
	}
	if cs.publisher != nil {
		if err := cs.publisher.PublishMessageInserted(ctx, events.NewMessageInserted(msg)); err != nil {
			cs.logger.Warn("ChatService", "Event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// chatTitle reads the stored conversation title for the response envelope.
func (cs *chatService) chatTitle(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID) string {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	switch domain {
	case chatdomain.DomainNotebook:
		if n, err := uow.NotebookRepository().FindById(ctx, sessionKey); err == nil && n != nil {
			return n.ChatTitle
		}
	case chatdomain.DomainLegal:
		if c, err := uow.LegalCaseRepository().FindById(ctx, sessionKey); err == nil && c != nil {
			return c.ChatTitle
		}
	}
	return ""
}

// updateChatTitle derives the conversation title from the first user turn.
// Failures only cost the label, so they are logged and swallowed.
func (cs *chatService) updateChatTitle(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID, firstUserText string) {
	title := truncateTitle(firstUserText, 80)
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var err error
	switch domain {
	case chatdomain.DomainNotebook:
		err = uow.NotebookRepository().UpdateChatTitle(ctx, sessionKey, title)
	case chatdomain.DomainLegal:
		err = uow.LegalCaseRepository().UpdateChatTitle(ctx, sessionKey, title)
	}
	if err != nil {
		cs.logger.Warn("ChatService", "Chat title update failed", map[string]interface{}{
			"domain":      string(domain),
			"session_key": sessionKey,
			"error":       err.Error(),
		})
	}
}

func truncateTitle(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func messageToDTO(msg *chat.Message) dto.ChatMessageDTO {
	out := dto.ChatMessageDTO{
		Id:        msg.Id,
		Role:      msg.Role,
		Chat:      msg.Chat,
		CreatedAt: msg.CreatedAt,
	}

	if msg.Structured == nil {
		return out
	}

	out.CleanText = msg.Structured.CleanText
	out.Segments = make([]dto.SegmentDTO, 0, len(msg.Structured.Segments))
	for _, seg := range msg.Structured.Segments {
		s := dto.SegmentDTO{Kind: string(seg.Kind), Text: seg.Text}
		if seg.Citation != nil {
			c := citationToDTO(*seg.Citation)
			s.Citation = &c
		}
		out.Segments = append(out.Segments, s)
	}
	out.Citations = make([]dto.CitationDTO, 0, len(msg.Structured.Citations))
	for _, c := range msg.Structured.Citations {
		out.Citations = append(out.Citations, citationToDTO(c))
	}
	return out
}

func citationToDTO(c citation.Parsed) dto.CitationDTO {
	out := dto.CitationDTO{
		Ordinal:  c.Ordinal,
		SourceId: c.SourceID,
		Resolved: c.Resolved,
		Excerpt:  c.Excerpt,
	}
	if c.Source != nil {
		out.Title = c.Source.Title
		out.Kind = string(c.Source.Kind)
	}
	return out
}
