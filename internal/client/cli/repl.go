package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type sender interface {
	Send(ctx context.Context, body, mediaURL string) (Reply, error)
}

// runREPL reads lines and sends each one as a message. "/voice <url>" sends a
// media message instead, "exit" or "quit" leaves. The prompt is only printed
// when showPrompt is set, so piped input produces clean output.
func runREPL(ctx context.Context, s sender, showPrompt bool, scanner *bufio.Scanner) {
	for {
		if showPrompt {
			printlnFn("you> ")
		}
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		var body, media string
		switch {
		case line == "exit" || line == "quit":
			printlnFn("Bye!")
			return

		case line == "/voice" || strings.HasPrefix(line, "/voice "):
			media = strings.TrimSpace(strings.TrimPrefix(line, "/voice"))
			if media == "" {
				printlnFn("usage: /voice <media url>")
				continue
			}

		default:
			body = line
		}

		reply, err := s.Send(ctx, body, media)
		if err != nil {
			printlnFn("error:", err)
			continue
		}

		printlnFn("bot>", reply.Body)
		if reply.Media != "" {
			printlnFn("bot> [media]", reply.Media)
		}
	}
}
