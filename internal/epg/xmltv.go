// SPDX-License-Identifier: MIT

// Package epg builds and writes XMLTV guide documents.
package epg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// GeneratorName is written to the generator-info-name attribute.
const GeneratorName = "rlaxx-sync"

type TV struct {
	XMLName   xml.Name    `xml:"tv"`
	Generator string      `xml:"generator-info-name,attr,omitempty"`
	Channels  []Channel   `xml:"channel"`
	Programs  []Programme `xml:"programme"`
}

type Channel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
	Icon        *Icon  `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

type Programme struct {
	Start   string `xml:"start,attr"`
	Stop    string `xml:"stop,attr"`
	Channel string `xml:"channel,attr"`
	Title   Title  `xml:"title"`
	Desc    string `xml:"desc"`
}

type Title struct {
	// Lang contains the language code for the title (optional).
	Lang string `xml:"lang,attr,omitempty"`
	// Text is the character data of the title element.
	Text string `xml:",chardata"`
}

// GenerateXMLTV assembles a document; channels precede programmes.
func GenerateXMLTV(channels []Channel, programmes []Programme) TV {
	if channels == nil {
		channels = []Channel{}
	}
	if programmes == nil {
		programmes = []Programme{}
	}
	return TV{
		Generator: GeneratorName,
		Channels:  channels,
		Programs:  programmes,
	}
}

// WriteXMLTV writes tv with an XML declaration and 2-space indentation.
func WriteXMLTV(w io.Writer, tv TV) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(tv); err != nil {
		return fmt.Errorf("encode xmltv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadXMLTV decodes a guide document. The sync never reads guides back; this
// exists so tests can inspect written output. Entity expansion is disabled and input
// is capped at 50MB.
func ReadXMLTV(r io.Reader) (TV, error) {
	const maxXMLSize = 50 * 1024 * 1024

	var doc TV
	dec := xml.NewDecoder(io.LimitReader(r, maxXMLSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return TV{}, fmt.Errorf("decode xmltv: %w", err)
	}
	return doc, nil
}
