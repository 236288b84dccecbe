// SPDX-License-Identifier: MIT
package epg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

func TestWriteXMLTVGolden(t *testing.T) {
	chans := ChannelsFromCatalog([]rlaxx.Channel{
		{ID: "1", Name: "News", Logo: "http://l/1.png"},
		{ID: "2", Name: "Drama"},
	})
	progs := ProgrammesFromEPG([]rlaxx.Programme{
		{ChannelID: "1", Start: 1700000000000, End: 1700001800000, Title: "Morning", Description: "Headlines"},
		{ChannelID: "99", Start: 1700001800000, End: 1700003600000, Title: "Orphan"},
	})

	var buf bytes.Buffer
	if err := WriteXMLTV(&buf, GenerateXMLTV(chans, progs)); err != nil {
		t.Fatalf("WriteXMLTV failed: %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<tv generator-info-name="rlaxx-sync">
  <channel id="1">
    <display-name>News</display-name>
    <icon src="http://l/1.png"></icon>
  </channel>
  <channel id="2">
    <display-name>Drama</display-name>
  </channel>
  <programme start="20231114221320 +0000" stop="20231114224320 +0000" channel="1">
    <title>Morning</title>
    <desc>Headlines</desc>
  </programme>
  <programme start="20231114224320 +0000" stop="20231114231320 +0000" channel="99">
    <title>Orphan</title>
    <desc></desc>
  </programme>
</tv>
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("XMLTV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteXMLTVEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXMLTV(&buf, GenerateXMLTV(nil, nil)); err != nil {
		t.Fatalf("WriteXMLTV failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing declaration: %s", buf.String())
	}
	doc, err := ReadXMLTV(&buf)
	if err != nil {
		t.Fatalf("ReadXMLTV failed: %v", err)
	}
	if len(doc.Channels) != 0 || len(doc.Programs) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestXMLTVRoundTripEscapes(t *testing.T) {
	tv := GenerateXMLTV(
		[]Channel{{ID: `a&"b`, DisplayName: "Tom & Jerry <HD>", Icon: &Icon{Src: "http://x/?a=1&b=2"}}},
		[]Programme{{Start: "20250101000000 +0000", Stop: "20250101010000 +0000", Channel: `a&"b`, Title: Title{Text: "<Live>"}, Desc: "Q&A"}},
	)
	var buf bytes.Buffer
	if err := WriteXMLTV(&buf, tv); err != nil {
		t.Fatalf("WriteXMLTV failed: %v", err)
	}
	got, err := ReadXMLTV(&buf)
	if err != nil {
		t.Fatalf("ReadXMLTV failed: %v", err)
	}
	if diff := cmp.Diff(tv.Channels, got.Channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tv.Programs, got.Programs); diff != "" {
		t.Errorf("programmes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXMLTVRejectsEntities(t *testing.T) {
	doc := `<?xml version="1.0"?><!DOCTYPE tv [<!ENTITY x "boom">]><tv><channel id="&x;"></channel></tv>`
	if _, err := ReadXMLTV(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for undefined entity")
	}
}
