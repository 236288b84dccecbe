// SPDX-License-Identifier: MIT
package epg

import (
	"sort"
	"time"

	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

// TimeLayout is the XMLTV timestamp layout.
const TimeLayout = "20060102150405 -0700"

// FormatXMLTVTime renders a millisecond epoch value in UTC, second precision.
func FormatXMLTVTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(TimeLayout)
}

// ChannelsFromCatalog converts catalog entries, keeping order and duplicates.
func ChannelsFromCatalog(chans []rlaxx.Channel) []Channel {
	out := make([]Channel, 0, len(chans))
	for _, c := range chans {
		ch := Channel{ID: c.ID, DisplayName: c.Name}
		if c.Logo != "" {
			ch.Icon = &Icon{Src: c.Logo}
		}
		out = append(out, ch)
	}
	return out
}

// ProgrammesFromEPG converts EPG entries in sequence order. Entries whose
// channel is not in the catalog are kept.
func ProgrammesFromEPG(progs []rlaxx.Programme) []Programme {
	out := make([]Programme, 0, len(progs))
	for _, p := range progs {
		out = append(out, Programme{
			Start:   FormatXMLTVTime(p.Start),
			Stop:    FormatXMLTVTime(p.End),
			Channel: p.ChannelID,
			Title:   Title{Text: p.Title},
			Desc:    p.Description,
		})
	}
	return out
}

// SortByStart stably orders programmes by start time.
func SortByStart(progs []rlaxx.Programme) {
	sort.SliceStable(progs, func(i, j int) bool { return progs[i].Start < progs[j].Start })
}
