// SPDX-License-Identifier: MIT

// Package playlist renders extended M3U playlists.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Item is one playlist entry.
type Item struct {
	Name    string
	TvgID   string
	TvgLogo string
	URL     string // written verbatim; may be empty
}

var (
	attrReplacer = strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ")
	nameReplacer = strings.NewReplacer("\r", " ", "\n", " ")
)

// WriteM3U writes the header followed by two lines per item, in item order.
// When xTvgURL is set the header references the guide document.
func WriteM3U(w io.Writer, items []Item, xTvgURL string) error {
	bw := bufio.NewWriter(w)

	header := "#EXTM3U"
	if u := strings.TrimSpace(xTvgURL); u != "" {
		u = attrReplacer.Replace(u)
		header += fmt.Sprintf(` url-tvg="%s" x-tvg-url="%s"`, u, u)
	}
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := fmt.Fprintf(bw,
			`#EXTINF:-1 tvg-id="%s" tvg-logo="%s",%s`+"\n",
			attrReplacer.Replace(it.TvgID), attrReplacer.Replace(it.TvgLogo), nameReplacer.Replace(it.Name),
		); err != nil {
			return err
		}
		if _, err := bw.WriteString(it.URL + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
