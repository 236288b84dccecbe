// SPDX-License-Identifier: MIT
package playlist

import (
	"strings"
	"testing"
)

func TestWriteM3UTable(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		tvgURL string
		expect []string
	}{
		{
			name: "basic with logo",
			items: []Item{{
				Name: "Rlaxx News", TvgID: "101", TvgLogo: "http://p/101.png", URL: "http://s/101.m3u8",
			}},
			expect: []string{
				"#EXTM3U\n",
				`#EXTINF:-1 tvg-id="101" tvg-logo="http://p/101.png",Rlaxx News`,
				"http://s/101.m3u8\n",
			},
		},
		{
			name: "missing logo keeps empty attribute",
			items: []Item{{
				Name: "Drama", TvgID: "7", URL: "http://s/7",
			}},
			expect: []string{
				`tvg-id="7"`,
				`tvg-logo=""`,
				",Drama\n",
			},
		},
		{
			name:   "header carries guide reference",
			items:  []Item{{Name: "A", TvgID: "1"}},
			tvgURL: "http://host/guide.xml",
			expect: []string{
				`#EXTM3U url-tvg="http://host/guide.xml" x-tvg-url="http://host/guide.xml"` + "\n",
			},
		},
		{
			name:  "quotes and newlines cannot break the line",
			items: []Item{{Name: "Bad\nName", TvgID: `x"y`, URL: "u"}},
			expect: []string{
				`tvg-id="x'y"`,
				",Bad Name\n",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			if err := WriteM3U(&b, tc.items, tc.tvgURL); err != nil {
				t.Fatalf("WriteM3U failed: %v", err)
			}
			out := b.String()
			for _, want := range tc.expect {
				if !strings.Contains(out, want) {
					t.Fatalf("missing substring %q\n--- output ---\n%s", want, out)
				}
			}
			if strings.Count(out, "#EXTINF:") != len(tc.items) {
				t.Fatalf("expected %d EXTINF lines, got %d", len(tc.items), strings.Count(out, "#EXTINF:"))
			}
		})
	}
}

func TestWriteM3UEmptyStreamLineKeepsEntry(t *testing.T) {
	items := []Item{
		{Name: "A", TvgID: "1", URL: "http://a"},
		{Name: "B", TvgID: "2", URL: ""},
		{Name: "C", TvgID: "3", URL: "http://c"},
	}
	var b strings.Builder
	if err := WriteM3U(&b, items, ""); err != nil {
		t.Fatalf("WriteM3U failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	want := []string{
		"#EXTM3U",
		`#EXTINF:-1 tvg-id="1" tvg-logo="",A`,
		"http://a",
		`#EXTINF:-1 tvg-id="2" tvg-logo="",B`,
		"",
		`#EXTINF:-1 tvg-id="3" tvg-logo="",C`,
		"http://c",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), b.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteM3UNoItems(t *testing.T) {
	var b strings.Builder
	if err := WriteM3U(&b, nil, ""); err != nil {
		t.Fatalf("WriteM3U failed: %v", err)
	}
	if b.String() != "#EXTM3U\n" {
		t.Fatalf("unexpected output %q", b.String())
	}
}
