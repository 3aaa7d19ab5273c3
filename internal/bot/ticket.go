package bot

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// ticketMarker identifies confidential ticket DMs; the reaction workflow
// only acts on embeds carrying it in the title.
const ticketMarker = "🚨 CONFIDENTIAL TICKET"

// ticketAckEmoji is the operator reaction that confirms a ticket was
// read.
const ticketAckEmoji = "🔒"

// mentionPattern extracts the requester's user ID from the ticket embed.
var mentionPattern = regexp.MustCompile(`<@(\d+)>`)

func (b *Bot) handleTicket(c *commandContext) error {
	if err := c.requireGuild(); err != nil {
		return err
	}
	if b.cfg.OperatorUserID == "" {
		return newValidationError("The ticket system is not configured on this bot.")
	}

	reason := c.rawArgs
	if reason == "" {
		reason = "No reason given"
	}

	// The invoking message is removed right away so the reason never
	// lingers in the public channel.
	if err := c.session.ChannelMessageDelete(c.message.ChannelID, c.message.ID); err != nil {
		b.logger.Debug("failed to delete ticket command message", slog.Any("error", err))
	}

	c.replyEphemeral(c.message.Author.Mention() + " 📩 Ticket received, processing...")

	guildName := c.message.GuildID
	if guild, err := c.session.State.Guild(c.message.GuildID); err == nil {
		guildName = guild.Name
	}

	embed := &discordgo.MessageEmbed{
		Title: ticketMarker,
		Description: fmt.Sprintf(
			"**User:** %s (`%s`)\n**Server:** `%s`\n**Channel:** <#%s>\n**Reason:** %s\n**Time:** %s",
			c.message.Author.Mention(), c.message.Author.ID,
			guildName, c.message.ChannelID, reason,
			time.Now().Format("02/01 15:04")),
		Color:  0xFF0000,
		Footer: &discordgo.MessageEmbedFooter{Text: "React with " + ticketAckEmoji + " to confirm reading • Ref " + uuid.NewString()},
	}

	operatorDM, err := c.session.UserChannelCreate(b.cfg.OperatorUserID)
	if err != nil {
		c.reply(c.message.Author.Mention() + " ❌ I couldn't reach support.")
		return fmt.Errorf("failed to open operator DM: %w", err)
	}
	ticketMsg, err := c.session.ChannelMessageSendEmbed(operatorDM.ID, embed)
	if err != nil {
		c.reply(c.message.Author.Mention() + " ❌ I couldn't reach support.")
		return fmt.Errorf("failed to deliver ticket: %w", err)
	}
	if reactErr := c.session.MessageReactionAdd(operatorDM.ID, ticketMsg.ID, ticketAckEmoji); reactErr != nil {
		b.logger.Warn("failed to seed ticket reaction", slog.Any("error", reactErr))
	}

	userDM, err := c.session.UserChannelCreate(c.message.Author.ID)
	if err == nil {
		_, err = c.session.ChannelMessageSend(userDM.ID,
			"📬 **Ticket received**\nReason: "+reason+
				"\n\nAn administrator will answer you here soon.\n⚠️ Please don't delete this message.")
	}
	if err != nil {
		c.replyEphemeral(c.message.Author.Mention() +
			" I couldn't DM you. Please enable direct messages.")
	}
	return nil
}

// onReactionAdd watches for the operator acknowledging a ticket DM and
// notifies the requester.
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Emoji.Name != ticketAckEmoji || r.GuildID != "" {
		return
	}
	if b.cfg.OperatorUserID == "" || r.UserID != b.cfg.OperatorUserID {
		return
	}

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		b.logger.Warn("failed to fetch reacted message", slog.Any("error", err))
		return
	}
	if len(msg.Embeds) == 0 || msg.Embeds[0].Title != ticketMarker {
		return
	}

	userID, ok := extractTicketUserID(msg.Embeds[0].Description)
	if !ok {
		b.logger.Warn("ticket embed carried no user mention",
			slog.String("message_id", r.MessageID))
		return
	}

	dm, err := s.UserChannelCreate(userID)
	if err != nil {
		b.logger.Warn("failed to open requester DM",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return
	}
	if _, err := s.ChannelMessageSend(dm.ID,
		"🔔 **Support notification**\nWe received your ticket and are reviewing it.\nThanks for your patience."); err != nil {
		b.logger.Warn("failed to notify requester",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
}

// extractTicketUserID pulls the first user mention out of a ticket
// embed description.
func extractTicketUserID(description string) (string, bool) {
	match := mentionPattern.FindStringSubmatch(description)
	if match == nil {
		return "", false
	}
	return match[1], true
}
