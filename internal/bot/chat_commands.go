package bot

import (
	"context"

	"github.com/archeon-bot/archeon/internal/assistant"
)

// assistantName labels the bot's lines in stored history.
const assistantName = "Archeon"

func (b *Bot) handleChat(c *commandContext) error {
	if c.rawArgs == "" {
		return newValidationError("Usage: %schat <message>", b.cfg.CommandPrefix)
	}

	userID := c.message.Author.ID
	userName := c.authorName()

	if reply, ok := assistant.QuickReply(userName, c.message.Author.Mention(), c.rawArgs); ok {
		c.reply("🤖 " + reply)
		return nil
	}

	history := b.conversations.Render(userID)
	prompt := assistant.BuildChatPrompt(history, userName, c.rawArgs)

	response, err := b.generator.Generate(context.Background(), prompt)
	if err != nil {
		return err
	}

	b.conversations.AppendExchange(userID,
		userName+": "+c.rawArgs,
		assistantName+": "+response)

	c.reply(c.message.Author.Mention() + " " + response)
	return nil
}

func (b *Bot) handleForget(c *commandContext) error {
	b.conversations.Reset(c.message.Author.ID)
	c.reply("🔄 I've reset our conversation! What can I help you with now?")
	return nil
}
