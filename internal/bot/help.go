package bot

import (
	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleHelp(c *commandContext) error {
	p := b.cfg.CommandPrefix

	c.replyEmbed(&discordgo.MessageEmbed{
		Title:       "🤖 Archeon commands",
		Description: "Everything I can do, grouped by area.",
		Color:       colorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🎵 Music",
				Value: "`" + p + "join` • `" + p + "play <url or search>` • `" + p + "playtop <url or search>`\n" +
					"`" + p + "pause` • `" + p + "resume` • `" + p + "skip` • `" + p + "stop`\n" +
					"`" + p + "queue` • `" + p + "shuffle` • `" + p + "remove <n>` • `" + p + "clearqueue`\n" +
					"`" + p + "volume [0-200]` • `" + p + "disconnect`",
			},
			{
				Name: "💾 Playlists",
				Value: "`" + p + "save <name>` • `" + p + "load <name>` • `" + p + "playlists`",
			},
			{
				Name: "🧠 AI",
				Value: "`" + p + "chat <message>` talks to me with memory of our last exchanges\n" +
					"`" + p + "forget` wipes your conversation history",
			},
			{
				Name: "🎮 Games",
				Value: "`" + p + "separate` (or `" + p + "gamevoice`) splits your voice channel by game",
			},
			{
				Name: "🛠️ Utilities",
				Value: "`" + p + "poll [minutes] \"Question?\" opt1 opt2 ...`\n" +
					"`" + p + "purge [count]` • `" + p + "mute @user [reason]`",
			},
			{
				Name:  "🎫 Tickets",
				Value: "`" + p + "ticket <reason>` opens a confidential ticket with the admins",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Prefix: " + p,
		},
	})
	return nil
}
