// Package cli is an interactive chat simulator: it posts what you type to the
// mealbot webhook as if it came from the messaging provider and prints the
// reply.
package cli

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrijs2005/mealbot/internal/client/config"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Reply is the decoded webhook answer.
type Reply struct {
	Body  string
	Media string
}

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message []struct {
		Body  string `xml:"Body"`
		Media string `xml:"Media"`
	} `xml:"Message"`
}

type App struct {
	config *config.Config
	client *http.Client
}

func NewApp(c *config.Config) *App {
	return &App{config: c, client: &http.Client{Timeout: c.Timeout}}
}

// Send posts one message. A non-empty mediaURL is sent as a single voice
// note attachment.
func (a *App) Send(ctx context.Context, body, mediaURL string) (Reply, error) {
	form := url.Values{
		"From":     {a.config.Sender},
		"Body":     {body},
		"NumMedia": {"0"},
	}
	if mediaURL != "" {
		form.Set("NumMedia", "1")
		form.Set("MediaUrl0", mediaURL)
		form.Set("MediaContentType0", "audio/ogg")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.WebhookURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return Reply{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("webhook returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var t twiml
	if err := xml.Unmarshal(data, &t); err != nil {
		return Reply{}, fmt.Errorf("decode reply: %w", err)
	}

	var r Reply
	for _, m := range t.Message {
		r.Body += m.Body
		if m.Media != "" {
			r.Media = m.Media
		}
	}
	return r, nil
}

func (a *App) Run(ctx context.Context) {
	interactive := isTerminal(int(os.Stdin.Fd()))
	if interactive {
		printlnFn(fmt.Sprintf("Chatting with %s as %s. Type a meal, \"summary\", \"/voice <url>\" or \"exit\".",
			a.config.WebhookURL, a.config.Sender))
	}
	runREPL(ctx, a, interactive, bufio.NewScanner(os.Stdin))
}
