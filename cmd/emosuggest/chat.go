package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/emosuggest/internal/cli"
	"github.com/hyperjump/emosuggest/internal/session"
)

const chatHelp = `Type a sentence to get emoji suggestions, then pick one by number (0 = none).
Commands: :text (show the text), :clear (clear the text), :help, :quit`

// chatLoop runs a terminal session: lines are searched, and while results are shown a
// number accepts the matching choice. It returns on EOF, :quit or when ctx is done.
func chatLoop(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, chatHelp)
	sc := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())

		switch line {
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(out, chatHelp)
			continue
		case ":text":
			fmt.Fprintf(out, "%s\n", sess.Text())
			continue
		case ":clear":
			sess.SetText("")
			continue
		}

		var snap session.Snapshot
		if sess.State() == session.StateResults {
			if choice, ok := cli.ChoiceAt(sess.Snapshot().Recommendation, line); ok {
				snap = sess.Accept(ctx, choice)
				writeOutcome(out, snap)
				if snap.Outcome != nil && snap.Outcome.Level == session.LevelSuccess {
					fmt.Fprintf(out, "Text: %s\n", snap.Text)
				}
				continue
			}
		}
		snap = sess.Search(line)
		writeOutcome(out, snap)
		if snap.State == session.StateResults {
			cli.WriteChoices(out, snap.Recommendation)
		}
	}
}

func writeOutcome(out io.Writer, snap session.Snapshot) {
	if snap.Outcome == nil {
		return
	}
	fmt.Fprintln(out, snap.Outcome.Message)
}
