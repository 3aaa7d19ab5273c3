package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/archeon-bot/archeon/internal/assistant"
)

// Poll limits.
const (
	pollMinOptions     = 2
	pollMaxOptions     = 6
	defaultPollMinutes = 1
)

// pollEmojis are the reaction choices, one per option in order.
var pollEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣"}

// pollSpec is a parsed poll command.
type pollSpec struct {
	minutes  int
	question string
	options  []string
}

// parsePoll interprets the poll arguments. The first token is the
// duration in minutes when numeric, otherwise the question; the rest are
// options.
func parsePoll(args []string) (pollSpec, error) {
	if len(args) == 0 {
		return pollSpec{}, newValidationError(
			`Wrong format. Examples: poll "Question?" yes no  |  poll 3 "Question?" yes no`)
	}

	spec := pollSpec{minutes: defaultPollMinutes}

	rest := args
	if minutes, err := strconv.Atoi(args[0]); err == nil {
		if minutes <= 0 {
			return pollSpec{}, newValidationError("The poll duration must be more than 0 minutes.")
		}
		spec.minutes = minutes
		rest = args[1:]
	}

	if len(rest) == 0 {
		return pollSpec{}, newValidationError(
			`Wrong format. Examples: poll "Question?" yes no  |  poll 3 "Question?" yes no`)
	}

	spec.question = rest[0]
	spec.options = rest[1:]

	if len(spec.options) < pollMinOptions {
		return pollSpec{}, newValidationError("You need at least %d options.", pollMinOptions)
	}
	if len(spec.options) > pollMaxOptions {
		return pollSpec{}, newValidationError("At most %d options are allowed.", pollMaxOptions)
	}
	return spec, nil
}

// handlePoll posts the poll, waits out the fixed timer, and tallies the
// reactions once. Early closing is not supported.
func (b *Bot) handlePoll(c *commandContext) error {
	spec, err := parsePoll(c.args)
	if err != nil {
		return err
	}

	var lines []string
	for i, option := range spec.options {
		lines = append(lines, pollEmojis[i]+" "+option)
	}
	embed := &discordgo.MessageEmbed{
		Title:       "📊 " + spec.question,
		Description: strings.Join(lines, "\n"),
		Color:       colorGold,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("⏳ Voting open for %d minute(s)", spec.minutes),
		},
	}

	posted, err := c.session.ChannelMessageSendEmbed(c.message.ChannelID, embed)
	if err != nil {
		return fmt.Errorf("failed to post poll: %w", err)
	}
	for i := range spec.options {
		if reactErr := c.session.MessageReactionAdd(posted.ChannelID, posted.ID, pollEmojis[i]); reactErr != nil {
			b.logger.Warn("failed to seed poll reaction",
				slog.String("emoji", pollEmojis[i]),
				slog.Any("error", reactErr))
		}
	}

	time.Sleep(time.Duration(spec.minutes) * time.Minute)

	updated, err := c.session.ChannelMessage(posted.ChannelID, posted.ID)
	if err != nil {
		return fmt.Errorf("failed to re-read poll message: %w", err)
	}

	counts := tallyPoll(updated.Reactions, spec.options)
	winner, winnerVotes, total := pollWinner(spec.options, counts)
	if total == 0 {
		c.reply("🤷 Nobody voted.")
		return nil
	}
	percent := float64(winnerVotes) / float64(total) * 100

	comment := b.pollComment(spec.question, winner, percent)

	c.replyEmbed(&discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Winner: %s (%.1f%%)", winner, percent),
		Description: "**" + spec.question + "**\n\n" + comment,
		Color:       colorGreen,
	})
	return nil
}

// tallyPoll maps option index to vote count, subtracting the bot's own
// seed reaction.
func tallyPoll(reactions []*discordgo.MessageReactions, options []string) []int {
	counts := make([]int, len(options))
	for i := range options {
		for _, reaction := range reactions {
			if reaction.Emoji != nil && reaction.Emoji.Name == pollEmojis[i] {
				votes := reaction.Count - 1
				if votes > 0 {
					counts[i] = votes
				}
			}
		}
	}
	return counts
}

// pollWinner picks the option with the most votes and the total cast.
func pollWinner(options []string, counts []int) (string, int, int) {
	winner := ""
	winnerVotes := -1
	total := 0
	for i, votes := range counts {
		total += votes
		if votes > winnerVotes {
			winner = options[i]
			winnerVotes = votes
		}
	}
	return winner, winnerVotes, total
}

// pollComment asks the assistant for a one-liner about the result,
// falling back to canned text on any failure.
func (b *Bot) pollComment(question, winner string, percent float64) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment, err := b.generator.Generate(ctx, assistant.BuildPollCommentPrompt(question, winner, percent))
	if err != nil {
		b.logger.Warn("poll comment generation failed", slog.Any("error", err))
		return "And the verdict is in...!"
	}
	return comment
}
