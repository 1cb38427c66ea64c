package dbot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gbone001/HLL-Map-Switcher/config"
	"github.com/gbone001/HLL-Map-Switcher/control"
	"github.com/gbone001/HLL-Map-Switcher/statuspoll"
)

type fakeMessenger struct {
	existing []*discordgo.Message
	sent     []*discordgo.MessageSend
	edits    []*discordgo.MessageEdit
}

func (f *fakeMessenger) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	return f.existing, nil
}

func (f *fakeMessenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "new-panel"}, nil
}

func (f *fakeMessenger) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func panelRegistry() *control.Registry {
	return control.NewRegistry([]config.ServerEntry{
		{ID: "alpha", Name: "Alpha Server"},
		{ID: "bravo", Name: "Bravo Server"},
	})
}

func TestEnsureRecoversExistingPanel(t *testing.T) {
	m := &fakeMessenger{existing: []*discordgo.Message{
		{ID: "chatter", Embeds: nil},
		{ID: "old-panel", Embeds: []*discordgo.MessageEmbed{{Title: panelTitle}}},
	}}
	panel := NewPanel(m, "chan", panelRegistry(), zap.NewNop())

	require.NoError(t, panel.Ensure())
	assert.Equal(t, "old-panel", panel.MessageID())
	assert.Empty(t, m.sent, "no duplicate panel is posted")
}

func TestEnsurePostsNewPanel(t *testing.T) {
	m := &fakeMessenger{}
	panel := NewPanel(m, "chan", panelRegistry(), zap.NewNop())

	require.NoError(t, panel.Ensure())
	assert.Equal(t, "new-panel", panel.MessageID())

	require.Len(t, m.sent, 1)
	require.Len(t, m.sent[0].Embeds, 1)
	assert.Equal(t, panelTitle, m.sent[0].Embeds[0].Title)
	require.Len(t, m.sent[0].Components, 1)
	row, ok := m.sent[0].Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)
	button, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "panel:alpha", button.CustomID)
}

func TestUpdateRendersBoard(t *testing.T) {
	m := &fakeMessenger{existing: []*discordgo.Message{
		{ID: "old-panel", Embeds: []*discordgo.MessageEmbed{{Title: panelTitle}}},
	}}
	panel := NewPanel(m, "chan", panelRegistry(), zap.NewNop())
	require.NoError(t, panel.Ensure())

	err := panel.Update([]statuspoll.Status{
		{ServerID: "alpha", ServerName: "Alpha Server", MapLabel: "Foy Warfare (Day)",
			HasDetail: true, AlliedPlayers: 40, AxisPlayers: 38, TimeRemaining: "1:02:03"},
		{ServerID: "bravo", ServerName: "Bravo Server", Err: "server unreachable"},
	})
	require.NoError(t, err)

	require.Len(t, m.edits, 1)
	embeds := *m.edits[0].Embeds
	require.Len(t, embeds, 1)
	require.Len(t, embeds[0].Fields, 2)
	assert.Contains(t, embeds[0].Fields[0].Value, "Foy Warfare (Day)")
	assert.Contains(t, embeds[0].Fields[0].Value, "40 allies vs 38 axis")
	assert.Contains(t, embeds[0].Fields[0].Value, "1:02:03")
	assert.Contains(t, embeds[0].Fields[1].Value, "unreachable")
}

func TestUpdateBeforeEnsureFails(t *testing.T) {
	panel := NewPanel(&fakeMessenger{}, "chan", panelRegistry(), zap.NewNop())
	assert.Error(t, panel.Update(nil))
}
