package bot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Purge limits.
const (
	defaultPurgeCount = 10
	maxPurgeCount     = 100
)

// mutedRoleName is the role denying send-messages in every channel.
const mutedRoleName = "Muted"

// confirmationTTL is how long ephemeral confirmations stay visible.
const confirmationTTL = 5 * time.Second

// replyEphemeral sends text and deletes it again after confirmationTTL.
func (c *commandContext) replyEphemeral(text string) {
	msg, err := c.session.ChannelMessageSend(c.message.ChannelID, text)
	if err != nil {
		c.bot.logger.Warn("failed to send ephemeral reply", slog.Any("error", err))
		return
	}
	time.AfterFunc(confirmationTTL, func() {
		if delErr := c.session.ChannelMessageDelete(msg.ChannelID, msg.ID); delErr != nil {
			c.bot.logger.Debug("failed to delete ephemeral reply", slog.Any("error", delErr))
		}
	})
}

func (b *Bot) handlePurge(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if err := c.requirePermission(discordgo.PermissionManageMessages, "Manage Messages"); err != nil {
		return err
	}

	count := defaultPurgeCount
	if len(c.args) > 0 {
		parsed, err := strconv.Atoi(c.args[0])
		if err != nil {
			return newValidationError("The count must be a number.")
		}
		count = parsed
	}
	if count < 1 || count > maxPurgeCount {
		return newValidationError("Invalid count (1-%d).", maxPurgeCount)
	}

	messages, err := c.session.ChannelMessages(c.message.ChannelID, purgeFetchLimit(count), "", "", "")
	if err != nil {
		return fmt.Errorf("failed to list messages for purge: %w", err)
	}
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	// Bulk delete requires at least two IDs.
	switch {
	case len(ids) == 1:
		if err := c.session.ChannelMessageDelete(c.message.ChannelID, ids[0]); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
	case len(ids) > 1:
		if err := c.session.ChannelMessagesBulkDelete(c.message.ChannelID, ids); err != nil {
			return fmt.Errorf("failed to bulk delete messages: %w", err)
		}
	}

	c.replyEphemeral(fmt.Sprintf("🧹 Deleted %d messages", count))
	return nil
}

// purgeFetchLimit is how many messages to fetch for a purge of count:
// one extra covers the invoking command message, but the Discord API
// caps the fetch (and a bulk delete) at 100, so the allowance is dropped
// at the maximum.
func purgeFetchLimit(count int) int {
	if count >= maxPurgeCount {
		return maxPurgeCount
	}
	return count + 1
}

// muteReason strips the target's mention token from the raw argument
// text so the embed does not repeat it.
func muteReason(raw, userID string) string {
	for _, mention := range []string{"<@!" + userID + ">", "<@" + userID + ">"} {
		raw = strings.Replace(raw, mention, "", 1)
	}
	reason := strings.TrimSpace(raw)
	if reason == "" {
		return "No reason given"
	}
	return reason
}

func (b *Bot) handleMute(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if err := c.requirePermission(discordgo.PermissionKickMembers, "Kick Members"); err != nil {
		return err
	}
	if len(c.message.Mentions) == 0 {
		return newValidationError("Usage: %smute @user [reason]", b.cfg.CommandPrefix)
	}

	target := c.message.Mentions[0]
	reason := muteReason(c.rawArgs, target.ID)

	role, err := b.ensureMutedRole(c.session, c.message.GuildID)
	if err != nil {
		return err
	}
	if err := c.session.GuildMemberRoleAdd(c.message.GuildID, target.ID, role.ID); err != nil {
		return fmt.Errorf("failed to assign muted role: %w", err)
	}

	c.replyEmbed(&discordgo.MessageEmbed{
		Title:       "🔇 " + target.Username + " muted",
		Description: "Reason: " + reason,
		Color:       colorRed,
	})
	return nil
}

// ensureMutedRole finds the muted role or creates it and denies
// send-messages on every channel.
func (b *Bot) ensureMutedRole(s *discordgo.Session, guildID string) (*discordgo.Role, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild roles: %w", err)
	}
	for _, role := range roles {
		if role.Name == mutedRoleName {
			return role, nil
		}
	}

	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: mutedRoleName})
	if err != nil {
		return nil, fmt.Errorf("failed to create muted role: %w", err)
	}

	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, channel := range channels {
		err := s.ChannelPermissionSet(channel.ID, role.ID,
			discordgo.PermissionOverwriteTypeRole, 0, discordgo.PermissionSendMessages)
		if err != nil {
			b.logger.Warn("failed to deny send on channel",
				slog.String("channel_id", channel.ID),
				slog.Any("error", err))
		}
	}
	return role, nil
}
