package webhook

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mealbot/internal/server/models"
)

const maxFormBytes = 1 << 20

type twimlMessage struct {
	Body  string `xml:"Body"`
	Media string `xml:"Media,omitempty"`
}

type twimlResponse struct {
	XMLName xml.Name      `xml:"Response"`
	Message *twimlMessage `xml:"Message,omitempty"`
}

// ParseInbound reads the provider's form fields. A missing or malformed
// NumMedia counts as zero.
func ParseInbound(r *http.Request) (models.InboundMessage, error) {
	if err := r.ParseForm(); err != nil {
		return models.InboundMessage{}, err
	}

	numMedia, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("NumMedia")))
	if err != nil || numMedia < 0 {
		numMedia = 0
	}

	return models.InboundMessage{
		Sender:           r.PostForm.Get("From"),
		Body:             r.PostForm.Get("Body"),
		NumMedia:         numMedia,
		MediaURL:         r.PostForm.Get("MediaUrl0"),
		MediaContentType: r.PostForm.Get("MediaContentType0"),
	}, nil
}

// WriteTwiML renders reply as a messaging response. An empty reply becomes
// an empty <Response/>, which sends nothing back.
func WriteTwiML(w http.ResponseWriter, reply models.Reply) error {
	resp := twimlResponse{}
	if reply.Text != "" || reply.MediaURL != "" {
		resp.Message = &twimlMessage{Body: reply.Text, Media: reply.MediaURL}
	}

	out, err := xml.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(append([]byte(xml.Header), out...))
	return err
}

func (s *Server) whatsapp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	msg, err := ParseInbound(r)
	if err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(msg.Sender) == "" {
		http.Error(w, "missing From", http.StatusBadRequest)
		return
	}

	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	reply := s.handler.HandleMessage(ctx, msg)

	if err := WriteTwiML(w, reply); err != nil {
		s.logger.Error(ctx, "write reply", "error", err)
	}
}
