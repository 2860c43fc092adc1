package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/weconnect/server/weconnect/analytics"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// overridable for tests
var timeNow = time.Now

// draws the diamond series as a one-line block chart, downsampling to at
// most width columns
func sparkline(series []analytics.Bucket, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}

	values := make([]int64, 0, width)

	if len(series) <= width {
		for _, b := range series {
			values = append(values, b.Diamonds)
		}
	} else {
		// sum adjacent buckets into one column
		per := (len(series) + width - 1) / width
		for i := 0; i < len(series); i += per {
			var sum int64
			for j := i; j < i+per && j < len(series); j++ {
				sum += series[j].Diamonds
			}
			values = append(values, sum)
		}
	}

	var max int64
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		if max == 0 {
			sb.WriteRune(sparkRunes[0])
			continue
		}

		idx := int(v * int64(len(sparkRunes)-1) / max)
		sb.WriteRune(sparkRunes[idx])
	}

	return sb.String()
}

func refreshTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return RefreshMsg{}
	})
}
