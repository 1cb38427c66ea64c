// Package dbot is the Discord surface: the persistent panel message,
// the per-user selection flows behind its buttons, and the legacy text
// commands.
package dbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/session"
	"github.com/gbone001/HLL-Map-Switcher/statuspoll"
)

const (
	panelIDPrefix = "panel"
	flowIDPrefix  = "ms"
)

func panelCustomID(serverID string) string {
	return panelIDPrefix + ":" + serverID
}

func parsePanelID(customID string) (string, bool) {
	serverID, ok := strings.CutPrefix(customID, panelIDPrefix+":")
	return serverID, ok && serverID != ""
}

func flowCustomID(serverID string, action Action, value string) string {
	return strings.Join([]string{flowIDPrefix, serverID, string(action), value}, ":")
}

func parseFlowID(customID string) (serverID string, action Action, value string, ok bool) {
	parts := strings.SplitN(customID, ":", 4)
	if len(parts) != 4 || parts[0] != flowIDPrefix {
		return "", "", "", false
	}
	return parts[1], Action(parts[2]), parts[3], true
}

// statusBoard is the slice of the status poller the bot needs.
type statusBoard interface {
	Latest() []statuspoll.Status
	Record(serverID, layerID string, now time.Time)
	Trigger()
}

// Bot connects the dispatcher and panel to a Discord session.
type Bot struct {
	log        *zap.Logger
	cfg        config.DiscordConfig
	session    *discordgo.Session
	dispatcher *Dispatcher
	panel      *Panel
	board      statusBoard
	remote     remote
	registry   *control.Registry
	cat        *catalog.Catalog
	now        func() time.Time
}

// NewBot builds the bot and its Discord session without connecting.
func NewBot(cfg config.DiscordConfig, dispatcher *Dispatcher, board statusBoard, rc remote, registry *control.Registry, cat *catalog.Catalog, log *zap.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		log:        log,
		cfg:        cfg,
		session:    s,
		dispatcher: dispatcher,
		board:      board,
		remote:     rc,
		registry:   registry,
		cat:        cat,
		now:        time.Now,
	}
	b.panel = NewPanel(s, cfg.ChannelID, registry, log)

	s.AddHandler(b.onInteraction)
	s.AddHandler(b.onMessage)
	return b, nil
}

// Start opens the gateway connection and brings up the panel.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	if err := b.panel.Ensure(); err != nil {
		b.session.Close()
		return err
	}
	b.log.Info("bot connected", zap.String("channel", b.cfg.ChannelID))
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

// UpdatePanel rewrites the panel with the given board. Wired as the
// status poller's update listener.
func (b *Bot) UpdatePanel(board []statuspoll.Status) {
	if err := b.panel.Update(board); err != nil {
		b.log.Warn("panel update failed", zap.Error(err))
	}
}

// RevertExpiredFlows resets the flow messages of timed-out sessions.
func (b *Bot) RevertExpiredFlows(now time.Time) {
	for _, flow := range b.dispatcher.ExpireSweep(now) {
		content, components := renderToDiscord(flow.Layout, flow.ServerID)
		edit := discordgo.NewMessageEdit(b.cfg.ChannelID, flow.Key.MessageID)
		edit.Content = &content
		edit.Components = &components
		if _, err := b.session.ChannelMessageEditComplex(edit); err != nil {
			b.log.Debug("expired flow message edit failed",
				zap.String("message", flow.Key.MessageID), zap.Error(err))
		}
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	userID := interactionUserID(i)
	if userID == "" {
		return
	}
	customID := i.MessageComponentData().CustomID

	if serverID, ok := parsePanelID(customID); ok {
		b.handlePanelClick(s, i, serverID)
		return
	}
	if serverID, action, value, ok := parseFlowID(customID); ok {
		b.handleFlowClick(s, i, serverID, action, value, userID)
	}
}

// handlePanelClick opens an ephemeral flow message showing the mode
// choice. The session itself is created lazily on the first mode
// click, once the flow message exists and has an ID.
func (b *Bot) handlePanelClick(s *discordgo.Session, i *discordgo.InteractionCreate, serverID string) {
	server, ok := b.registry.Get(serverID)
	if !ok {
		b.respondNotice(s, i, fmt.Sprintf("Unknown server %q.", serverID))
		return
	}

	layout := initialLayout(b.cat, server)
	content, components := renderToDiscord(layout, serverID)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Warn("panel click response failed", zap.Error(err))
	}
}

func (b *Bot) handleFlowClick(s *discordgo.Session, i *discordgo.InteractionCreate, serverID string, action Action, value, userID string) {
	ctx := context.Background()
	key := session.Key{MessageID: i.Message.ID, UserID: userID}

	result := b.dispatcher.Click(ctx, key, serverID, action, value)

	if result.Layout == nil {
		b.respondNotice(s, i, result.Notice)
		return
	}

	content, components := renderToDiscord(*result.Layout, serverID)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		b.log.Warn("flow click response failed", zap.Error(err))
		return
	}
	if result.Notice != "" {
		_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: result.Notice,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			b.log.Debug("notice followup failed", zap.Error(err))
		}
	}
}

func (b *Bot) respondNotice(s *discordgo.Session, i *discordgo.InteractionCreate, notice string) {
	if notice == "" {
		notice = "Nothing to do."
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: notice,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Debug("notice response failed", zap.Error(err))
	}
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if b.cfg.ChannelID != "" && m.ChannelID != b.cfg.ChannelID {
		return
	}
	prefix := b.cfg.CommandPrefix
	if m.Content != prefix && !strings.HasPrefix(m.Content, prefix+" ") {
		return
	}

	reply := b.runLegacy(context.Background(), strings.TrimPrefix(m.Content, prefix))
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.log.Warn("legacy command reply failed", zap.Error(err))
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

var buttonStyles = map[ButtonStyle]discordgo.ButtonStyle{
	StylePrimary:   discordgo.PrimaryButton,
	StyleSecondary: discordgo.SecondaryButton,
	StyleSuccess:   discordgo.SuccessButton,
	StyleDanger:    discordgo.DangerButton,
}

// renderToDiscord turns a layout into message content and components.
func renderToDiscord(layout Layout, serverID string) (string, []discordgo.MessageComponent) {
	if layout.Done {
		return layout.Body, []discordgo.MessageComponent{}
	}
	var components []discordgo.MessageComponent
	for _, row := range layout.Rows {
		var buttons []discordgo.MessageComponent
		for _, spec := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    spec.Label,
				Style:    buttonStyles[spec.Style],
				CustomID: flowCustomID(serverID, spec.Action, spec.Value),
			})
		}
		components = append(components, discordgo.ActionsRow{Components: buttons})
	}
	return layout.Body, components
}
