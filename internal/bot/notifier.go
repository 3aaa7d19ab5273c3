package bot

import (
	"log/slog"

	"github.com/archeon-bot/archeon/internal/music"
)

// channelNotifier renders playback session events into the guild's
// announcement channel. It satisfies music.Notifier.
type channelNotifier struct {
	bot *Bot
}

// NowPlaying posts the now-playing card for a track that just started.
func (n *channelNotifier) NowPlaying(guildID string, track music.Track, fromQueue bool) {
	channelID, ok := n.bot.announceChannel(guildID)
	if !ok {
		return
	}

	title := "🎵 Now playing"
	if fromQueue {
		title = "🎵 Now playing (from queue)"
	}
	embed := trackEmbed(title, track, colorBlurple)

	if _, err := n.bot.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		n.bot.logger.Warn("failed to announce track",
			slog.String("guild_id", guildID),
			slog.Any("error", err))
	}
}

// PlaybackError reports a track whose output failed. The session never
// advances past a failed track on its own.
func (n *channelNotifier) PlaybackError(guildID string, track music.Track, err error) {
	n.bot.logger.Error("playback error",
		slog.String("guild_id", guildID),
		slog.String("title", track.Title),
		slog.Any("error", err))

	channelID, ok := n.bot.announceChannel(guildID)
	if !ok {
		return
	}
	if _, sendErr := n.bot.session.ChannelMessageSend(channelID,
		"⚠️ Playback of **"+track.Title+"** failed. Use play to continue."); sendErr != nil {
		n.bot.logger.Warn("failed to report playback error",
			slog.String("guild_id", guildID),
			slog.Any("error", sendErr))
	}
}
