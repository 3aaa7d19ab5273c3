package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/music"
)

// queuePreviewLimit is how many upcoming tracks the queue command shows.
const queuePreviewLimit = 10

// defaultVolumePercent matches the 0.8 software gain the stream starts
// with.
const defaultVolumePercent = 80

// maxVolumePercent caps the software gain.
const maxVolumePercent = 200

// authorVoiceChannel finds the voice channel the invoking user occupies.
func (c *commandContext) authorVoiceChannel() (string, error) {
	guild, err := c.session.State.Guild(c.message.GuildID)
	if err != nil {
		return "", fmt.Errorf("failed to read guild state: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == c.message.Author.ID {
			return vs.ChannelID, nil
		}
	}
	return "", newValidationError("You are not in a voice channel!")
}

// joinAuthorChannel connects (or moves) the bot to the author's voice
// channel.
func (c *commandContext) joinAuthorChannel() (*discordgo.VoiceConnection, error) {
	channelID, err := c.authorVoiceChannel()
	if err != nil {
		return nil, err
	}

	if existing := c.session.VoiceConnections[c.message.GuildID]; existing != nil && existing.ChannelID == channelID {
		return existing, nil
	}

	vc, err := c.session.ChannelVoiceJoin(c.message.GuildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	return vc, nil
}

// resolveTrack turns a query into a queueable track tagged with the
// requester.
func (c *commandContext) resolveTrack(query string) (music.Track, error) {
	result, err := c.bot.resolver.Resolve(context.Background(), query)
	if err != nil {
		return music.Track{}, err
	}
	return music.Track{
		Title:           result.Title,
		StreamLocator:   result.StreamURL,
		PageURL:         result.PageURL,
		DurationSeconds: result.DurationSeconds,
		ThumbnailURL:    result.ThumbnailURL,
		RequestedBy:     c.authorName(),
	}, nil
}

func (b *Bot) handleJoin(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if _, err := c.joinAuthorChannel(); err != nil {
		return err
	}
	c.reply("🔊 Joined your voice channel.")
	return nil
}

func (b *Bot) handlePlay(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if c.rawArgs == "" {
		return newValidationError("Usage: %splay <url or search>", b.cfg.CommandPrefix)
	}
	if _, err := c.joinAuthorChannel(); err != nil {
		return err
	}

	track, err := c.resolveTrack(c.rawArgs)
	if err != nil {
		return err
	}

	b.setAnnounceChannel(c.message.GuildID, c.message.ChannelID)

	sess, err := b.music.Session(c.message.GuildID)
	if err != nil {
		return err
	}

	started, position, err := sess.Play(track)
	if err != nil {
		return err
	}
	if !started {
		embed := trackEmbed("🎵 Added to queue", track, colorGreen)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Queue position",
			Value: strconv.Itoa(position),
		})
		c.replyEmbed(embed)
	}
	return nil
}

func (b *Bot) handlePlayTop(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if c.rawArgs == "" {
		return newValidationError("Usage: %splaytop <url or search>", b.cfg.CommandPrefix)
	}
	if _, err := c.joinAuthorChannel(); err != nil {
		return err
	}

	track, err := c.resolveTrack(c.rawArgs)
	if err != nil {
		return err
	}

	b.setAnnounceChannel(c.message.GuildID, c.message.ChannelID)

	sess, err := b.music.Session(c.message.GuildID)
	if err != nil {
		return err
	}

	started, err := sess.PlayNext(track)
	if err != nil {
		return err
	}
	if !started {
		c.reply("⏫ Added to the front of the queue: **" + track.Title + "**")
	}
	return nil
}

func (b *Bot) handlePause(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrNothingPlaying
	}
	if err := sess.Pause(); err != nil {
		return err
	}
	c.reply("⏸️ Music paused.")
	return nil
}

func (b *Bot) handleResume(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrNotPaused
	}
	if err := sess.Resume(); err != nil {
		return err
	}
	c.reply("▶️ Music resumed.")
	return nil
}

func (b *Bot) handleSkip(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrNothingPlaying
	}
	if err := sess.Skip(); err != nil {
		return err
	}
	c.reply("⏭️ Track skipped.")
	return nil
}

func (b *Bot) handleStop(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrNothingPlaying
	}
	if err := sess.Stop(); err != nil {
		return err
	}
	c.reply("⏹️ Music stopped and queue cleared.")
	return nil
}

func (b *Bot) handleQueue(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}

	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		c.reply("📭 The queue is empty.")
		return nil
	}

	now, _, playing := sess.Now()
	upcoming, rest := sess.QueuePreview(queuePreviewLimit)
	if !playing && len(upcoming) == 0 {
		c.reply("📭 The queue is empty.")
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: "🎶 Playback queue",
		Color: colorPurple,
	}
	if playing {
		value := "**" + now.Title + "**"
		if now.DurationSeconds > 0 {
			value += " [" + now.FormatDuration() + "]"
		}
		if now.RequestedBy != "" {
			value += "\nRequested by: " + now.RequestedBy
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🔊 Now playing",
			Value: value,
		})
	}
	for i, track := range upcoming {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  strconv.Itoa(i+1) + ".",
			Value: track.Title,
		})
	}
	if rest > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "And " + strconv.Itoa(rest) + " more tracks in the queue...",
		}
	}
	c.replyEmbed(embed)
	return nil
}

func (b *Bot) handleDisconnect(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}

	vc := c.session.VoiceConnections[c.message.GuildID]
	if vc == nil {
		c.reply("I'm not connected to a voice channel.")
		return nil
	}

	b.music.Release(c.message.GuildID)
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from voice: %w", err)
	}
	c.reply("👋 Disconnected from the voice channel.")
	return nil
}

func (b *Bot) handleShuffle(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrInsufficientItems
	}
	if err := sess.Shuffle(); err != nil {
		return err
	}
	c.reply("🔀 Queue shuffled.")
	return nil
}

func (b *Bot) handleRemove(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if len(c.args) != 1 {
		return newValidationError("Usage: %sremove <position>", b.cfg.CommandPrefix)
	}
	index, err := strconv.Atoi(c.args[0])
	if err != nil {
		return newValidationError("The position must be a number.")
	}

	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrIndexOutOfRange
	}
	removed, err := sess.RemoveTrack(index)
	if err != nil {
		return err
	}
	c.reply("🗑️ Removed **" + removed.Title + "** from the queue.")
	return nil
}

func (b *Bot) handleVolume(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}

	sess, hasSession := b.music.Existing(c.message.GuildID)

	if len(c.args) == 0 {
		current := b.currentDefaultVolume()
		if hasSession {
			current = sess.Volume()
		}
		c.reply("🔊 Current volume: **" + strconv.Itoa(current) + "%**")
		return nil
	}

	vol, err := strconv.Atoi(c.args[0])
	if err != nil || vol < 0 || vol > maxVolumePercent {
		return newValidationError("Volume must be between 0 and %d%%.", maxVolumePercent)
	}

	b.setDefaultVolume(vol)
	if hasSession {
		sess.SetVolume(vol)
	}
	c.reply("🔊 Volume set to **" + strconv.Itoa(vol) + "%**")
	return nil
}

func (b *Bot) handleClearQueue(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok || sess.QueueLen() == 0 {
		c.reply("📭 The queue is already empty.")
		return nil
	}
	sess.ClearQueue()
	c.reply("🗑️ Playback queue cleared.")
	return nil
}

func (b *Bot) handleSavePlaylist(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if len(c.args) != 1 {
		return newValidationError("Usage: %ssave <name>", b.cfg.CommandPrefix)
	}
	name := c.args[0]

	sess, ok := b.music.Existing(c.message.GuildID)
	if !ok {
		return music.ErrEmptyQueue
	}
	if err := b.playlists.Save(c.message.GuildID, name, sess.QueueSnapshot()); err != nil {
		return err
	}
	c.reply("💾 Playlist saved as **" + name + "**.")
	return nil
}

func (b *Bot) handleLoadPlaylist(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if len(c.args) != 1 {
		return newValidationError("Usage: %sload <name>", b.cfg.CommandPrefix)
	}
	name := c.args[0]

	tracks, err := b.playlists.Load(c.message.GuildID, name)
	if err != nil {
		return err
	}

	sess, err := b.music.Session(c.message.GuildID)
	if err != nil {
		return err
	}
	sess.AppendTracks(tracks)
	c.reply(fmt.Sprintf("🎵 Playlist **%s** loaded (%d tracks).", name, len(tracks)))
	return nil
}

func (b *Bot) handleListPlaylists(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}

	infos := b.playlists.List(c.message.GuildID)
	if len(infos) == 0 {
		c.reply("📭 No saved playlists.")
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: "📋 Saved playlists",
		Color: colorBlue,
	}
	for _, info := range infos {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  info.Name,
			Value: strconv.Itoa(info.TrackCount) + " tracks",
		})
	}
	c.replyEmbed(embed)
	return nil
}
