package crawler

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeNumRe pulls the leading count out of relative-time text.
var relativeNumRe = regexp.MustCompile(`(\d+)`)

// parseRelativeTime converts relative-time text like "3 ngày trước" to an
// absolute timestamp by subtracting the parsed offset from now. The result is
// approximate and never revisited. Unrecognized text returns now unchanged —
// not an error.
func parseRelativeTime(text string, now time.Time) time.Time {
	if text == "" {
		return now
	}

	n := 0
	if m := relativeNumRe.FindStringSubmatch(text); m != nil {
		n, _ = strconv.Atoi(m[1])
	}

	switch {
	case strings.Contains(text, "giây"):
		return now.Add(-time.Duration(n) * time.Second)
	case strings.Contains(text, "phút"):
		return now.Add(-time.Duration(n) * time.Minute)
	case strings.Contains(text, "giờ"):
		return now.Add(-time.Duration(n) * time.Hour)
	case strings.Contains(text, "ngày"):
		return now.AddDate(0, 0, -n)
	case strings.Contains(text, "tuần"):
		return now.AddDate(0, 0, -n*7)
	case strings.Contains(text, "tháng"):
		return now.AddDate(0, -n, 0)
	case strings.Contains(text, "năm"):
		return now.AddDate(-n, 0, 0)
	}
	return now
}

// formatDuration converts clock-style duration text ("1:23:45", "4:13") to
// the canonical ISO-8601 form the Data API uses. Already-ISO input passes
// through unchanged; empty or unparseable input yields "PT0S".
func formatDuration(text string) string {
	if text == "" {
		return "PT0S"
	}
	if strings.HasPrefix(text, "PT") {
		return text
	}

	parts := strings.Split(text, ":")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "PT0S"
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 3:
		return "PT" + strconv.Itoa(nums[0]) + "H" + strconv.Itoa(nums[1]) + "M" + strconv.Itoa(nums[2]) + "S"
	case 2:
		return "PT" + strconv.Itoa(nums[0]) + "M" + strconv.Itoa(nums[1]) + "S"
	case 1:
		return "PT" + strconv.Itoa(nums[0]) + "S"
	}
	return "PT0S"
}

// digitsOnly strips everything but digits from localized count text
// ("1,2 N lượt xem" → "12"). Text without any digit degrades to "0".
func digitsOnly(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
