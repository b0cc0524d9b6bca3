// Package notify writes the coloured, symbol-prefixed lines the CLI shows to
// operators. Diagnostics go through logrus instead.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

type MessageType int

const (
	ErrorType MessageType = iota
	WarningType
	ActivityType
	SuccessType
	InfoType
	TitleType
	PlainType
)

type Message struct {
	Type    MessageType
	Content string
	Args    []any
	// Emoji is only used by TitleType.
	Emoji  string
	Writer io.Writer
}

func Errorf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: w})
}

func Warningf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: w})
}

func Activityf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: w})
}

func Successf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: w})
}

func Infof(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: w})
}

// Plainf writes an indented, uncoloured line, used for list items.
func Plainf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: PlainType, Content: format, Args: args, Writer: w})
}

func Titlef(w io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{Type: TitleType, Content: fmt.Sprintf(format, args...), Emoji: emoji, Writer: w})
}

// WriteMessage writes msg. Write errors are ignored: there is nowhere left
// to report them.
func WriteMessage(msg Message) {
	if msg.Writer == nil {
		msg.Writer = os.Stdout
	}
	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	cfg := configFor(msg.Type)

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = "ℹ️"
		}
		_, _ = cfg.color.Fprintf(msg.Writer, "\n%s %s\n", emoji, content)
		return
	}

	content = indentContinuation(content, cfg.symbol)
	_, _ = cfg.color.Fprintf(msg.Writer, "%s%s\n", cfg.symbol, content)
}

type messageConfig struct {
	symbol string
	color  *fcolor.Color
}

func configFor(t MessageType) messageConfig {
	switch t {
	case ErrorType:
		return messageConfig{symbol: "✗ ", color: fcolor.New(fcolor.FgRed)}
	case WarningType:
		return messageConfig{symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)}
	case ActivityType:
		return messageConfig{symbol: "► ", color: fcolor.New(fcolor.Reset)}
	case SuccessType:
		return messageConfig{symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)}
	case InfoType:
		return messageConfig{symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)}
	case TitleType:
		return messageConfig{color: fcolor.New(fcolor.Bold)}
	default:
		return messageConfig{symbol: "  ", color: fcolor.New(fcolor.Reset)}
	}
}

// indentContinuation aligns wrapped lines under the first line's text.
func indentContinuation(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}
	pad := strings.Repeat(" ", len([]rune(symbol)))
	return strings.ReplaceAll(content, "\n", "\n"+pad)
}

// SetColor turns colour on or off for every writer.
func SetColor(enabled bool) {
	fcolor.NoColor = !enabled
}
