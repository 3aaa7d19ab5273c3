package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/assistant"
	"github.com/archeon-bot/archeon/internal/music"
	"github.com/archeon-bot/archeon/internal/resolver"
)

// handlerFunc handles one parsed command. Returned errors are rendered
// for the user at the dispatch boundary.
type handlerFunc func(c *commandContext) error

// commandContext carries everything a handler needs for one invocation.
type commandContext struct {
	bot     *Bot
	session *discordgo.Session
	message *discordgo.MessageCreate
	// args are the quote-aware tokens after the command name.
	args []string
	// rawArgs is the untokenized text after the command name.
	rawArgs string
}

// reply sends plain text to the invoking channel.
func (c *commandContext) reply(text string) {
	if _, err := c.session.ChannelMessageSend(c.message.ChannelID, text); err != nil {
		c.bot.logger.Warn("failed to send reply",
			slog.String("channel_id", c.message.ChannelID),
			slog.Any("error", err))
	}
}

// replyEmbed sends a rich embed to the invoking channel.
func (c *commandContext) replyEmbed(embed *discordgo.MessageEmbed) {
	if _, err := c.session.ChannelMessageSendEmbed(c.message.ChannelID, embed); err != nil {
		c.bot.logger.Warn("failed to send embed reply",
			slog.String("channel_id", c.message.ChannelID),
			slog.Any("error", err))
	}
}

// authorName returns the invoking user's display name.
func (c *commandContext) authorName() string {
	if c.message.Member != nil && c.message.Member.Nick != "" {
		return c.message.Member.Nick
	}
	return c.message.Author.Username
}

// validationError marks a bad argument; the message is shown verbatim.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

// newValidationError builds a validation failure for user display.
func newValidationError(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// permissionError marks an elevated command invoked without the role.
type permissionError struct {
	msg string
}

func (e *permissionError) Error() string { return e.msg }

// registerCommands builds the dispatch table.
func (b *Bot) registerCommands() {
	b.handlers = map[string]handlerFunc{
		"join":       b.handleJoin,
		"play":       b.handlePlay,
		"playtop":    b.handlePlayTop,
		"pause":      b.handlePause,
		"resume":     b.handleResume,
		"skip":       b.handleSkip,
		"stop":       b.handleStop,
		"queue":      b.handleQueue,
		"disconnect": b.handleDisconnect,
		"shuffle":    b.handleShuffle,
		"remove":     b.handleRemove,
		"volume":     b.handleVolume,
		"clearqueue": b.handleClearQueue,
		"save":       b.handleSavePlaylist,
		"load":       b.handleLoadPlaylist,
		"playlists":  b.handleListPlaylists,
		"chat":       b.handleChat,
		"forget":     b.handleForget,
		"poll":       b.handlePoll,
		"purge":      b.handlePurge,
		"mute":       b.handleMute,
		"ticket":     b.handleTicket,
		"separate":   b.handleSeparate,
		"gamevoice":  b.handleSeparate,
		"help":       b.handleHelp,
	}
}

// onMessageCreate parses prefix commands and dispatches them. Expected
// failures answer the user; only unexpected ones reach the recovery
// boundary, which logs with full context and sends a generic notice.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		return
	}

	body := strings.TrimPrefix(m.Content, b.cfg.CommandPrefix)
	tokens := splitArgs(body)
	if len(tokens) == 0 {
		return
	}

	name := strings.ToLower(tokens[0])
	handler, ok := b.handlers[name]
	if !ok {
		// Unknown commands are ignored, matching CommandNotFound behavior.
		return
	}

	rawArgs := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(body), tokens[0]))

	c := &commandContext{
		bot:     b,
		session: s,
		message: m,
		args:    tokens[1:],
		rawArgs: rawArgs,
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in command handler",
				slog.String("command", name),
				slog.String("user_id", m.Author.ID),
				slog.String("guild_id", m.GuildID),
				slog.Any("panic", r),
				slog.String("stack_trace", string(debug.Stack())))
			c.reply("⚠️ Something went wrong. Please try again later.")
		}
	}()

	if err := handler(c); err != nil {
		b.renderError(c, name, err)
	}
}

// renderError converts handler failures into user-facing replies. Every
// known category gets a distinct message; anything else is logged with
// full context and reported generically.
func (b *Bot) renderError(c *commandContext, command string, err error) {
	var valErr *validationError
	var permErr *permissionError
	var playErr *music.PlaybackError

	switch {
	case errors.As(err, &valErr):
		c.reply("❌ " + valErr.msg)
	case errors.As(err, &permErr):
		c.reply("🚫 " + permErr.msg)
	case errors.Is(err, music.ErrNothingPlaying):
		c.reply("⚠️ No music is playing.")
	case errors.Is(err, music.ErrNotPaused):
		c.reply("⚠️ The music is not paused.")
	case errors.Is(err, music.ErrInsufficientItems):
		c.reply("🔀 You need at least 2 tracks in the queue to shuffle.")
	case errors.Is(err, music.ErrIndexOutOfRange):
		c.reply("❌ Invalid index or empty queue.")
	case errors.Is(err, music.ErrEmptyQueue):
		c.reply("❌ There are no tracks in the queue to save.")
	case errors.Is(err, music.ErrPlaylistNotFound):
		c.reply("❌ That playlist does not exist.")
	case errors.As(err, &playErr):
		c.reply("⚠️ Playback failed: " + playErr.Err.Error())
	case errors.Is(err, resolver.ErrNotFound):
		c.reply("❌ I couldn't find anything for that query.")
	case errors.Is(err, resolver.ErrUnsupportedSource):
		c.reply("❌ That source is not supported.")
	case errors.Is(err, resolver.ErrNetworkFailure):
		c.reply("❌ Network problem while resolving the track. Try again.")
	case errors.Is(err, assistant.ErrRateLimited):
		c.reply("🔴 The AI is rate limited right now. Try again in a bit.")
	case errors.Is(err, assistant.ErrTimeout):
		c.reply("⏱️ The AI took too long to answer. Try again.")
	case errors.Is(err, assistant.ErrServiceUnavailable):
		c.reply("🔴 The AI service had a problem. Please report this to an admin.")
	default:
		b.logger.Error("command failed",
			slog.String("command", command),
			slog.String("user_id", c.message.Author.ID),
			slog.String("guild_id", c.message.GuildID),
			slog.Any("error", err))
		c.reply("⚠️ An unexpected error occurred. Please try again later.")
	}
}

// requireGuild fails for commands that only make sense in a server.
func (c *commandContext) requireGuild() error {
	if c.message.GuildID == "" {
		return newValidationError("This command only works in a server.")
	}
	return nil
}

// requirePermission checks the author's effective channel permissions.
func (c *commandContext) requirePermission(perm int64, label string) error {
	perms, err := c.session.UserChannelPermissions(c.message.Author.ID, c.message.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to read member permissions: %w", err)
	}
	if perms&perm == 0 {
		return &permissionError{msg: "You need the " + label + " permission for that."}
	}
	return nil
}

// splitArgs tokenizes a command body, honoring double-quoted phrases.
func splitArgs(s string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		started bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			if quoted {
				// Closing quote ends the token even when empty.
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			} else {
				flush()
				started = true
			}
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return tokens
}
