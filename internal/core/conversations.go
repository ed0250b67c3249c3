package core

import (
	"fmt"
	"strings"
	"time"

	"vecho.ai/chat-backend/internal/store"
)

// conversationGapMinutes is the idle gap that splits two turns into separate
// conversations. Exactly 30 minutes apart still counts as the same one.
const conversationGapMinutes = 30.0

const titleMaxLen = 50

// conversation is a derived grouping of a user's turns, never persisted.
// Turns are scanned newest-first, so "first" is the most recent turn of the
// run. The first fields are frozen when the conversation opens; display logic
// depends on that, so it stays this way.
type conversation struct {
	FirstMessage   string
	FirstTimestamp string
	LastTimestamp  string
	MessageCount   int
}

// RecentChat is one conversation summary as returned by GetRecentChats.
type RecentChat struct {
	Title        string `json:"title"`
	Preview      string `json:"preview"`
	Timestamp    string `json:"timestamp"`
	TimeAgo      string `json:"time_ago"`
	MessageCount int    `json:"message_count"`
}

// parseTimestamp accepts ISO-8601 with an optional offset (fractional seconds,
// and any offset following them, are cut before parsing) and the SQLite
// default "YYYY-MM-DD HH:MM:SS" form.
func parseTimestamp(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if strings.Contains(ts, "T") {
		s := strings.ReplaceAll(ts, "Z", "+00:00")
		if i := strings.Index(s, "."); i >= 0 {
			s = s[:i]
		}
		if t, err := time.Parse("2006-01-02T15:04:05-07:00", s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unrecognized ISO timestamp: %q", ts)
	}
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", ts)
	}
	return t, nil
}

// parseTimestampOrNow is the lenient variant used while grouping: a turn with
// an unreadable timestamp is treated as current rather than failing the
// request.
func parseTimestampOrNow(ts string, now time.Time) time.Time {
	t, err := parseTimestamp(ts)
	if err != nil {
		return now
	}
	return t
}

// groupConversations runs a single pass over turns ordered newest-first and
// splits them wherever consecutive timestamps are more than 30 minutes apart.
func groupConversations(turns []store.ChatTurn, now time.Time) []conversation {
	var conversations []conversation
	var current *conversation

	for _, turn := range turns {
		if current == nil {
			current = &conversation{
				FirstMessage:   turn.UserMessage,
				FirstTimestamp: turn.Timestamp,
				LastTimestamp:  turn.Timestamp,
				MessageCount:   1,
			}
			continue
		}

		lastTime := parseTimestampOrNow(current.LastTimestamp, now)
		turnTime := parseTimestampOrNow(turn.Timestamp, now)

		diffMinutes := lastTime.Sub(turnTime).Minutes()
		if diffMinutes < 0 {
			diffMinutes = -diffMinutes
		}

		if diffMinutes > conversationGapMinutes {
			conversations = append(conversations, *current)
			current = &conversation{
				FirstMessage:   turn.UserMessage,
				FirstTimestamp: turn.Timestamp,
				LastTimestamp:  turn.Timestamp,
				MessageCount:   1,
			}
		} else {
			current.LastTimestamp = turn.Timestamp
			current.MessageCount++
		}
	}

	if current != nil {
		conversations = append(conversations, *current)
	}
	return conversations
}

// relativeTime renders a human label for how long ago ts was. A timestamp
// that cannot be parsed degrades to "Recently" instead of erroring.
func relativeTime(ts string, now time.Time) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return "Recently"
	}

	diff := now.Sub(t).Seconds()
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return pluralize(int(diff/60), "minute")
	case diff < 86400:
		return pluralize(int(diff/3600), "hour")
	case diff < 604800:
		return pluralize(int(diff/86400), "day")
	default:
		return t.Format("Jan 02, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// truncateTitle cuts a message to 50 characters, marking the cut with an
// ellipsis. Counts runes, not bytes.
func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxLen {
		return message
	}
	return string(runes[:titleMaxLen]) + "..."
}

func summarizeConversation(conv conversation, now time.Time) RecentChat {
	return RecentChat{
		Title:        truncateTitle(conv.FirstMessage),
		Preview:      conv.FirstMessage,
		Timestamp:    conv.FirstTimestamp,
		TimeAgo:      relativeTime(conv.FirstTimestamp, now),
		MessageCount: conv.MessageCount,
	}
}
