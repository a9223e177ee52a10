package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apex/log"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestHandler(t *testing.T) {
	t.Run("we print ordinary messages with their fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := &log.Logger{Handler: New(buf), Level: log.DebugLevel}
		logger.WithField("count", 3).Warn("antani")
		out := buf.String()
		if !strings.HasPrefix(out, "   • antani") {
			t.Fatalf("unexpected output %q", out)
		}
		if !strings.HasSuffix(out, " count=3\n") {
			t.Fatalf("unexpected output %q", out)
		}
	})

	t.Run("we print errors with a cross", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := &log.Logger{Handler: New(buf), Level: log.DebugLevel}
		logger.Error("mascetti")
		if !strings.HasPrefix(buf.String(), "   ⨯ mascetti") {
			t.Fatalf("unexpected output %q", buf.String())
		}
	})

	t.Run("we print tables", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := &log.Logger{Handler: New(buf), Level: log.DebugLevel}
		logger.WithFields(log.Fields{
			"type":    "table",
			"address": "httpo://42q7ug46dspcsvkw.onion",
			"kind":    "onion",
		}).Info("collector")
		expect := "┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓\n" +
			"┃ address: httpo://42q7ug46dspcsvkw.onion ┃\n" +
			"┃ kind: onion                             ┃\n" +
			"┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛\n"
		if buf.String() != expect {
			t.Fatalf("unexpected output\n%s", buf.String())
		}
	})

	t.Run("we print section titles", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := &log.Logger{Handler: New(buf), Level: log.DebugLevel}
		logger.WithFields(log.Fields{
			"type":  "section_title",
			"title": "Collectors",
		}).Info("Collectors")
		lines := strings.Split(buf.String(), "\n")
		if len(lines) != 4 || lines[1] != "┃ Collectors               ┃" {
			t.Fatalf("unexpected output\n%s", buf.String())
		}
	})
}

func TestRightPad(t *testing.T) {
	if got := RightPad("abc", 5); got != "abc  " {
		t.Fatalf("unexpected %q", got)
	}
	if got := RightPad("abcdef", 5); got != "abcdef" {
		t.Fatalf("unexpected %q", got)
	}
	if got := EscapeAwareRuneCountInString("\x1b[34mabc\x1b[0m"); got != 3 {
		t.Fatal("unexpected count", got)
	}
}
