package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/assistant"
)

// Auto-separation constants.
const (
	// holdingCategoryName groups the temporary game channels.
	holdingCategoryName = "Game Rooms"
	// channelNameLimit is Discord's channel name cap.
	channelNameLimit = 100
	// separationGraceDelay runs from channel creation; each created
	// channel is checked exactly once when it elapses and deleted only if
	// empty at that moment. There is no re-check loop.
	separationGraceDelay = 5 * time.Minute
	// minDistinctGames is how many different activities separation needs.
	minDistinctGames = 2
)

// voicePlayer is one voice-channel member with their detected game.
type voicePlayer struct {
	UserID string
	Game   string
}

// groupByGame buckets players by activity name, dropping members with
// no detected game.
func groupByGame(players []voicePlayer) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range players {
		if p.Game == "" {
			continue
		}
		groups[p.Game] = append(groups[p.Game], p.UserID)
	}
	return groups
}

// parseChannelNames reads "Game: Name" lines from the assistant reply.
// Games without a parseable suggestion keep their fallback name.
func parseChannelNames(response string, games []string) map[string]string {
	known := make(map[string]bool, len(games))
	for _, g := range games {
		known[g] = true
	}

	names := make(map[string]string)
	for _, line := range strings.Split(response, "\n") {
		game, name, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		game = strings.TrimSpace(game)
		name = strings.TrimSpace(name)
		if known[game] && name != "" {
			names[game] = name
		}
	}
	return names
}

// channelNameFor returns the assistant suggestion or the fallback,
// truncated to the platform limit.
func channelNameFor(game string, suggestions map[string]string) string {
	name, ok := suggestions[game]
	if !ok || name == "" {
		name = "🎮 " + game
	}
	runes := []rune(name)
	if len(runes) > channelNameLimit {
		name = string(runes[:channelNameLimit])
	}
	return name
}

func (b *Bot) handleSeparate(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}

	channelID, err := c.authorVoiceChannel()
	if err != nil {
		return err
	}

	players, err := b.voicePlayers(c.session, c.message.GuildID, channelID)
	if err != nil {
		return err
	}

	groups := groupByGame(players)
	if len(groups) < minDistinctGames {
		c.reply(fmt.Sprintf("🔍 Not enough different games to separate (at least %d needed).", minDistinctGames))
		return nil
	}

	games := make([]string, 0, len(groups))
	for game := range groups {
		games = append(games, game)
	}
	sort.Strings(games)

	suggestions := b.suggestChannelNames(games)

	category, err := b.ensureHoldingCategory(c.session, c.message.GuildID)
	if err != nil {
		return err
	}

	created := make(map[string]*discordgo.Channel)
	for _, game := range games {
		channel, createErr := c.session.GuildChannelCreateComplex(c.message.GuildID, discordgo.GuildChannelCreateData{
			Name:     channelNameFor(game, suggestions),
			Type:     discordgo.ChannelTypeGuildVoice,
			ParentID: category.ID,
		})
		if createErr != nil {
			b.logger.Error("failed to create game channel",
				slog.String("game", game),
				slog.Any("error", createErr))
			continue
		}
		created[game] = channel
	}

	moved := make(map[string]int)
	for _, game := range games {
		channel, ok := created[game]
		if !ok {
			continue
		}
		for _, userID := range groups[game] {
			if moveErr := c.session.GuildMemberMove(c.message.GuildID, userID, &channel.ID); moveErr != nil {
				b.logger.Warn("failed to move member",
					slog.String("user_id", userID),
					slog.Any("error", moveErr))
				continue
			}
			moved[game]++
		}
	}

	var summary strings.Builder
	summary.WriteString("✅ Separation complete:\n")
	for _, game := range games {
		channel, ok := created[game]
		if !ok {
			continue
		}
		summary.WriteString(fmt.Sprintf("- %s: %d players moved to <#%s>\n", game, moved[game], channel.ID))
	}
	c.reply(summary.String())

	for _, channel := range created {
		chID := channel.ID
		time.AfterFunc(separationGraceDelay, func() {
			b.deleteIfEmpty(c.message.GuildID, chID)
		})
	}
	return nil
}

// voicePlayers lists the members of a voice channel with their detected
// playing activity.
func (b *Bot) voicePlayers(s *discordgo.Session, guildID, channelID string) ([]voicePlayer, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to read guild state: %w", err)
	}

	var players []voicePlayer
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		player := voicePlayer{UserID: vs.UserID}
		if presence, presErr := s.State.Presence(guildID, vs.UserID); presErr == nil && presence != nil {
			for _, activity := range presence.Activities {
				if activity.Type == discordgo.ActivityTypeGame {
					player.Game = activity.Name
					break
				}
			}
		}
		players = append(players, player)
	}
	return players, nil
}

// suggestChannelNames asks the assistant for creative names, falling
// back to plain game names on failure.
func (b *Bot) suggestChannelNames(games []string) map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	response, err := b.generator.Generate(ctx, assistant.BuildChannelNamePrompt(games))
	if err != nil {
		b.logger.Warn("channel name generation failed", slog.Any("error", err))
		return nil
	}
	return parseChannelNames(response, games)
}

// ensureHoldingCategory finds or creates the category that holds
// temporary game channels.
func (b *Bot) ensureHoldingCategory(s *discordgo.Session, guildID string) (*discordgo.Channel, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == holdingCategoryName {
			return channel, nil
		}
	}

	category, err := s.GuildChannelCreate(guildID, holdingCategoryName, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return nil, fmt.Errorf("failed to create holding category: %w", err)
	}
	return category, nil
}

// deleteIfEmpty removes a created channel when nobody occupies it at the
// single post-grace check.
func (b *Bot) deleteIfEmpty(guildID, channelID string) {
	guild, err := b.session.State.Guild(guildID)
	if err != nil {
		b.logger.Warn("failed to read guild state for cleanup", slog.Any("error", err))
		return
	}
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			return
		}
	}
	if _, err := b.session.ChannelDelete(channelID); err != nil {
		b.logger.Warn("failed to delete empty game channel",
			slog.String("channel_id", channelID),
			slog.Any("error", err))
	}
}
