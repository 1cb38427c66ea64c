package dbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/statuspoll"
)

// panelTitle identifies the persistent panel message. Recovery after a
// restart finds the old message by this title instead of posting a
// duplicate.
const panelTitle = "HLL Map Switcher"

// messenger is the slice of the Discord session the panel needs.
type messenger interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Panel owns the persistent status message: one embed field per server
// plus a Change Map button for each.
type Panel struct {
	log       *zap.Logger
	m         messenger
	channelID string
	messageID string
	registry  *control.Registry
}

// NewPanel builds a panel for the given channel.
func NewPanel(m messenger, channelID string, registry *control.Registry, log *zap.Logger) *Panel {
	return &Panel{log: log, m: m, channelID: channelID, registry: registry}
}

// MessageID returns the panel message's ID, empty before Ensure.
func (p *Panel) MessageID() string { return p.messageID }

// Ensure finds the existing panel message in the channel or posts a
// fresh one.
func (p *Panel) Ensure() error {
	messages, err := p.m.ChannelMessages(p.channelID, 50, "", "", "")
	if err != nil {
		return fmt.Errorf("listing panel channel messages: %w", err)
	}
	for _, msg := range messages {
		if len(msg.Embeds) > 0 && msg.Embeds[0].Title == panelTitle {
			p.messageID = msg.ID
			p.log.Info("recovered existing panel message", zap.String("message", msg.ID))
			return nil
		}
	}

	sent, err := p.m.ChannelMessageSendComplex(p.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{p.embed(nil)},
		Components: p.components(),
	})
	if err != nil {
		return fmt.Errorf("posting panel message: %w", err)
	}
	p.messageID = sent.ID
	p.log.Info("posted new panel message", zap.String("message", sent.ID))
	return nil
}

// Update rewrites the panel with the given status board.
func (p *Panel) Update(board []statuspoll.Status) error {
	if p.messageID == "" {
		return fmt.Errorf("panel message not initialized")
	}
	edit := discordgo.NewMessageEdit(p.channelID, p.messageID)
	embeds := []*discordgo.MessageEmbed{p.embed(board)}
	components := p.components()
	edit.Embeds = &embeds
	edit.Components = &components

	if _, err := p.m.ChannelMessageEditComplex(edit); err != nil {
		return fmt.Errorf("editing panel message: %w", err)
	}
	return nil
}

func (p *Panel) embed(board []statuspoll.Status) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       panelTitle,
		Description: "Pick a server below to change its map.",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if board == nil {
		for _, server := range p.registry.List() {
			board = append(board, statuspoll.Status{ServerID: server.ID, ServerName: server.Name})
		}
	}
	for _, status := range board {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  status.ServerName,
			Value: statusLines(status),
		})
	}
	return embed
}

func statusLines(status statuspoll.Status) string {
	if status.Err != "" {
		lines := []string{":warning: unreachable"}
		if status.MapLabel != "" {
			lines = append(lines, "Last known map: "+status.MapLabel)
		}
		return strings.Join(lines, "\n")
	}
	if status.MapLabel == "" {
		return "Waiting for first refresh..."
	}
	lines := []string{"Map: **" + status.MapLabel + "**"}
	if status.HasDetail {
		lines = append(lines, fmt.Sprintf("Players: %d allies vs %d axis", status.AlliedPlayers, status.AxisPlayers))
		if status.TimeRemaining != "" {
			lines = append(lines, "Time remaining: "+status.TimeRemaining)
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Panel) components() []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for _, server := range p.registry.List() {
		buttons = append(buttons, discordgo.Button{
			Label:    "Change Map: " + server.Name,
			Style:    discordgo.PrimaryButton,
			CustomID: panelCustomID(server.ID),
		})
	}
	var out []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := min(len(buttons), maxButtonsPerRow)
		out = append(out, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return out
}
