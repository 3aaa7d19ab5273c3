package assistant

import (
	"fmt"
	"strings"
)

// personaPreamble is the fixed identity injected ahead of every chat
// prompt.
const personaPreamble = "You are Archeon, a friendly Discord assistant."

// BuildChatPrompt assembles the model prompt from the persona preamble,
// the user's rendered history, and the new message.
func BuildChatPrompt(history, userName, message string) string {
	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\nHere is the recent conversation history:\n")
	b.WriteString(history)
	b.WriteString("\n\nNew message from ")
	b.WriteString(userName)
	b.WriteString(": ")
	b.WriteString(message)
	b.WriteString("\n\nReply concisely and in a friendly tone.")
	return b.String()
}

// BuildChannelNamePrompt asks for creative voice-channel names, one per
// game, in "Game: Name" lines the caller can parse back.
func BuildChannelNamePrompt(games []string) string {
	return fmt.Sprintf(
		"Suggest creative Discord voice channel names for these games: %s. "+
			"Names must be short, relevant to the game, and 3-5 words. "+
			"Answer one line per game in the format Game: Suggested name.",
		strings.Join(games, ", "))
}

// BuildPollCommentPrompt asks for a one-line humorous remark about a
// finished poll.
func BuildPollCommentPrompt(question, winner string, percent float64) string {
	return fmt.Sprintf(
		"Write one funny line about this poll: %q. Winner: %q with %.1f%% of the votes.",
		question, winner, percent)
}

// QuickReply answers identity questions locally without calling the
// model. The second return value is false when the message is not a
// recognized quick question.
func QuickReply(userName, userMention, message string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(message)) {
	case "what's your name?", "whats your name?", "who are you?", "what is your name?":
		return "I'm Archeon, your Discord assistant!", true
	case "who am i?", "what's my name?", "whats my name?", "do you know me?":
		return fmt.Sprintf("Of course I know you, %s! You are %s.", userMention, userName), true
	default:
		return "", false
	}
}
