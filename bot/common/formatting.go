package common

import (
	"fmt"
	"time"

	"prizepool/domain/utils"
)

// FormatAmount renders base units for display, e.g. "**1.5**"
func FormatAmount(amount uint64, decimals int32) string {
	return fmt.Sprintf("**%s**", utils.FormatAmount(amount, decimals))
}

// FormatSignedAmount renders a balance change with its sign
func FormatSignedAmount(change int64, decimals int32) string {
	if change < 0 {
		return "-" + utils.FormatAmount(uint64(-change), decimals)
	}
	return "+" + utils.FormatAmount(uint64(change), decimals)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// Mention formats a user mention
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
