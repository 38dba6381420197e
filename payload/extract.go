// Package payload normalizes heterogeneous A2A responses into a single
// {text, images} shape. Traversal is defensive throughout: a missing field
// yields nothing for that source, never an error.
package payload

import (
	"encoding/base64"
	"strings"

	"github.com/sweetpotato0/agentbridge/a2a"
)

const (
	defaultImageMIME = "image/png"
	defaultImageName = "image.png"
)

// Image is a decoded inline attachment.
type Image struct {
	Data     []byte
	MIMEType string
	Name     string
}

// Payload is the normalized content of exactly one agent response.
type Payload struct {
	Text   string
	Images []Image
}

// Extract traverses the response's task/status/message/part structure and
// collects text and images in discovery order: each task's terminal status
// message first, then the task history when deep is true. Deep extraction is
// used for visualization responses, where the chart-producing agent may
// attach the generated file to an intermediate "working" status instead of
// the terminal one.
//
// A text part whose exact content was already collected in this call is not
// re-appended; workflow-level and raw-protocol-level representations of the
// same response otherwise echo each other.
func Extract(resp *a2a.Response, deep bool) Payload {
	ex := extractor{seen: make(map[string]bool)}
	if resp == nil {
		return Payload{}
	}

	for _, task := range resp.Tasks {
		if task == nil {
			continue
		}
		if task.Status != nil {
			ex.message(task.Status.Message)
		}
		if deep {
			for _, msg := range task.History {
				ex.message(msg)
			}
		}
	}

	return Payload{
		Text:   strings.Join(ex.texts, "\n"),
		Images: ex.images,
	}
}

type extractor struct {
	texts  []string
	images []Image
	seen   map[string]bool
}

func (ex *extractor) message(msg *a2a.Message) {
	if msg == nil {
		return
	}
	for _, part := range msg.Parts {
		ex.part(part)
	}
}

func (ex *extractor) part(part *a2a.Part) {
	switch {
	case part == nil:
	case part.Text != "":
		ex.text(part.Text)
	case part.File != nil:
		ex.file(part.File)
	}
}

func (ex *extractor) text(s string) {
	if html, ok := HTMLToText(s); ok {
		s = html
	}
	s = Clean(s)
	if s == "" || ex.seen[s] {
		return
	}
	ex.seen[s] = true
	ex.texts = append(ex.texts, s)
}

func (ex *extractor) file(f *a2a.FileContent) {
	if f.Bytes == "" {
		return
	}
	data, err := base64.StdEncoding.DecodeString(f.Bytes)
	if err != nil {
		// Not a valid inline payload; nothing to extract.
		return
	}

	// Web-grounded agents attach HTML result fragments as files. Fold those
	// into the text stream instead of treating them as images.
	if strings.HasPrefix(f.MIMEType, "text/html") {
		if text, ok := HTMLToText(string(data)); ok {
			ex.text(text)
		} else {
			ex.text(string(data))
		}
		return
	}

	img := Image{Data: data, MIMEType: f.MIMEType, Name: f.Name}
	if img.MIMEType == "" {
		img.MIMEType = defaultImageMIME
	}
	if img.Name == "" {
		img.Name = defaultImageName
	}
	ex.images = append(ex.images, img)
}
