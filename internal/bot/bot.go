// Package bot wires the Discord surface: command dispatch, playback
// control, chat relay, and the moderation and utility features.
package bot

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/assistant"
	"github.com/archeon-bot/archeon/internal/config"
	"github.com/archeon-bot/archeon/internal/conversation"
	"github.com/archeon-bot/archeon/internal/music"
	"github.com/archeon-bot/archeon/internal/resolver"
)

// Bot owns the gateway session and all process-wide bot state.
type Bot struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *discordgo.Session

	music         *music.Manager
	playlists     *music.PlaylistStore
	conversations *conversation.Store
	resolver      resolver.Resolver
	generator     assistant.Generator

	handlers map[string]handlerFunc

	mu sync.Mutex
	// announce maps guild ID to the channel where playback notifications
	// are rendered; updated on every play command.
	announce map[string]string
	// defaultVolume seeds new audio outputs, in percent.
	defaultVolume int
}

// New creates the bot and registers its gateway handlers. The session is
// not opened until Start.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	res resolver.Resolver,
	gen assistant.Generator,
	playlists *music.PlaylistStore,
	conversations *conversation.Store,
) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentMessageContent

	b := &Bot{
		cfg:           cfg,
		logger:        logger,
		session:       session,
		playlists:     playlists,
		conversations: conversations,
		resolver:      res,
		generator:     gen,
		announce:      make(map[string]string),
		defaultVolume: defaultVolumePercent,
	}

	b.music = music.NewManager(b.newAudioOutput, &channelNotifier{bot: b}, logger)
	b.registerCommands()

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onReactionAdd)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

// Stop releases all playback sessions and closes the gateway connection.
func (b *Bot) Stop() error {
	b.music.ReleaseAll()
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

// onReady announces presence once the gateway handshake completes.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("connected to discord",
		slog.String("username", r.User.Username),
		slog.Int("guilds", len(r.Guilds)))

	if err := s.UpdateGameStatus(0, b.cfg.CommandPrefix+"help for commands"); err != nil {
		b.logger.Warn("failed to set presence", slog.Any("error", err))
	}
}

// newAudioOutput builds the streaming pipeline for a guild. The voice
// connection is looked up lazily at play time, so sessions can hold
// queued tracks before the bot joins voice.
func (b *Bot) newAudioOutput(guildID string) (music.AudioOutput, error) {
	return newStreamer(b.cfg.FfmpegPath, func() *discordgo.VoiceConnection {
		return b.session.VoiceConnections[guildID]
	}, b.currentDefaultVolume(), b.logger), nil
}

// setAnnounceChannel records where playback notifications for the guild
// should be rendered.
func (b *Bot) setAnnounceChannel(guildID, channelID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.announce[guildID] = channelID
}

// announceChannel returns the guild's notification channel, if any.
func (b *Bot) announceChannel(guildID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.announce[guildID]
	return ch, ok
}

// setDefaultVolume records the gain used to seed future audio outputs.
func (b *Bot) setDefaultVolume(percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defaultVolume = percent
}

// currentDefaultVolume returns the gain for new audio outputs.
func (b *Bot) currentDefaultVolume() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.defaultVolume
}
