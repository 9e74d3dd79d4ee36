package commands

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/cmd/catalog-chat/ui"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one entry of the conversation history.
type Message struct {
	Sender string
	Text   string
	At     time.Time
}

// Asker answers a single question.
type Asker interface {
	Ask(ctx context.Context, question string) assistant.Answer
}

// SessionOptions tunes the chat loop.
type SessionOptions struct {
	TypingDelay time.Duration
	Animate     bool // show a spinner while the bot is "typing"
	Logger      *observability.Logger
}

// Session is an interactive conversation with the assistant.
type Session struct {
	asker    Asker
	console  *ui.Console
	prompter *ui.Prompter
	opts     SessionOptions
	history  []Message
	now      func() time.Time
}

// NewSession creates a session reading from in and writing through console.
func NewSession(asker Asker, console *ui.Console, in io.Reader, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = observability.Nop()
	}
	return &Session{
		asker:    asker,
		console:  console,
		prompter: ui.NewPrompter(in),
		opts:     opts,
		now:      time.Now,
	}
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Run reads questions until /quit, end of input or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.console.UserPrompt()
		line, err := s.prompter.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.console.Newline()
				return nil
			}
			return err
		}

		text := strings.TrimSpace(line)
		switch strings.ToLower(text) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			s.help()
			continue
		case "/history":
			s.showHistory()
			continue
		}

		if err := s.exchange(ctx, line); err != nil {
			return err
		}
	}
}

// exchange records the question, waits out the typing delay and prints the reply.
func (s *Session) exchange(ctx context.Context, question string) error {
	s.history = append(s.history, Message{Sender: SenderUser, Text: question, At: s.now()})

	if err := s.typing(ctx); err != nil {
		return err
	}

	answer := s.asker.Ask(ctx, question)
	s.history = append(s.history, Message{Sender: SenderBot, Text: answer.Text, At: s.now()})
	s.opts.Logger.Debug().
		Str("intent", answer.Intent).
		Bool("matched", answer.Matched).
		Bool("cached", answer.Cached).
		Int("turn", len(s.history)/2).
		Msg("Chat reply")
	s.console.Bot(answer.Text)
	return nil
}

func (s *Session) typing(ctx context.Context) error {
	if s.opts.TypingDelay <= 0 {
		return nil
	}

	if s.opts.Animate {
		spin := ui.NewSpinner(s.console.Writer(), "typing...")
		spin.Start()
		defer spin.Stop()
	}

	timer := time.NewTimer(s.opts.TypingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Session) help() {
	s.console.Box("Commands", strings.TrimRight(ui.FormatList([]string{
		"/history  show this conversation",
		"/help     show this message",
		"/quit     leave the chat (/exit works too)",
	}), "\n"))
	s.console.Info("Anything else is sent to the assistant, e.g. \"show me all mobile phones\" or \"which suppliers provide laptops\".")
}

func (s *Session) showHistory() {
	if len(s.history) == 0 {
		s.console.Info("No messages yet.")
		return
	}
	for _, m := range s.history {
		stamp := m.At.Format("15:04:05")
		if m.Sender == SenderUser {
			s.console.Info("[%s] you: %s", stamp, m.Text)
		} else {
			s.console.Info("[%s] bot: %s", stamp, m.Text)
		}
	}
}
