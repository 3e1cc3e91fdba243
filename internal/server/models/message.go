package models

// InboundMessage is one message received from the messaging channel.
type InboundMessage struct {
	Sender           string
	Body             string
	NumMedia         int
	MediaURL         string
	MediaContentType string
}

// HasMedia reports whether the message carries a usable media reference.
func (m InboundMessage) HasMedia() bool {
	return m.NumMedia > 0 && m.MediaURL != ""
}

// Reply is the single outbound message produced for an inbound one.
// MediaURL is empty when no chart is attached.
type Reply struct {
	Text     string
	MediaURL string
}
