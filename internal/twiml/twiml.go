// Package twiml builds the XML messaging-response payload the webhook
// returns to the messaging transport.
package twiml

import (
	"encoding/xml"
	"fmt"
)

// ContentType is the MIME type for a messaging response.
const ContentType = "text/xml"

// MessagingResponse is the root payload element.
type MessagingResponse struct {
	XMLName  xml.Name  `xml:"Response"`
	Messages []Message `xml:"Message"`
}

// Message is one outbound message, optionally carrying a media URL.
type Message struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

// Reply renders a single-message response. mediaURL may be empty.
func Reply(body, mediaURL string) ([]byte, error) {
	resp := MessagingResponse{Messages: []Message{{Body: body, Media: mediaURL}}}
	data, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal messaging response: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
