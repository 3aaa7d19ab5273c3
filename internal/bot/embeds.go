package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/music"
)

// Embed accent colors.
const (
	colorBlurple = 0x5865F2
	colorGreen   = 0x57F287
	colorPurple  = 0x9B59B6
	colorGold    = 0xF1C40F
	colorRed     = 0xED4245
	colorBlue    = 0x3498DB
)

// trackEmbed renders a track card with title link, duration, thumbnail,
// and requester footer.
func trackEmbed(title string, track music.Track, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: "[" + track.Title + "](" + track.PageURL + ")",
		Color:       color,
	}
	if track.DurationSeconds > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Duration",
			Value: track.FormatDuration(),
		})
	}
	if track.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ThumbnailURL}
	}
	if track.RequestedBy != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Requested by " + track.RequestedBy}
	}
	return embed
}
