// Package console is a terminal front-end for the conversation engine. It
// plays the part of a single chat: lines typed by the user are delivered as
// messages, replies are printed, and menus are shown as numbered buttons
// that can be pressed by typing "/<number>".
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/conversation"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Deliverer sends one message of a chat and returns the replies. Both a
// local engine (see Local) and gateway.GRPCClient satisfy it.
type Deliverer interface {
	Deliver(ctx context.Context, chatID int64, text string) ([]conversation.Reply, error)
}

// Handler is the conversation engine as seen by the console.
type Handler interface {
	Handle(ctx context.Context, chatID int64, text string) []conversation.Reply
}

type local struct {
	h Handler
}

// Local adapts an in-process engine to Deliverer.
func Local(h Handler) Deliverer {
	return local{h: h}
}

func (l local) Deliver(ctx context.Context, chatID int64, text string) ([]conversation.Reply, error) {
	return l.h.Handle(ctx, chatID, text), nil
}

type Console struct {
	d      Deliverer
	chatID int64
	in     *bufio.Reader
	inFd   int
	out    io.Writer

	menu conversation.Menu
	// waiting is set while the engine expects an answer to a question;
	// the next line then goes to the engine verbatim.
	waiting bool
	secret  bool
}

// New returns a console that reads from stdin and writes to out.
func New(d Deliverer, chatID int64, out io.Writer) *Console {
	return newConsole(d, chatID, os.Stdin, int(os.Stdin.Fd()), out)
}

func newConsole(d Deliverer, chatID int64, in io.Reader, fd int, out io.Writer) *Console {
	return &Console{d: d, chatID: chatID, in: bufio.NewReader(in), inFd: fd, out: out}
}

// Run greets the user and loops until EOF, "exit" or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Welcome to gophnotes console (type 'help' for commands)")

	if err := c.send(ctx, conversation.CommandStart); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := c.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !c.answering() {
			switch strings.TrimSpace(line) {
			case "help":
				c.printHelp()
				continue
			case "exit", "quit":
				fmt.Fprintln(c.out, "Bye!")
				return nil
			}
		}

		if err := c.send(ctx, c.resolve(line)); err != nil {
			fmt.Fprintln(c.out, "Error:", err)
		}
	}
}

func (c *Console) answering() bool {
	return c.waiting || c.secret
}

// resolve turns "/<n>" into the n-th label of the current menu. Answers to
// a question are never rewritten.
func (c *Console) resolve(line string) string {
	if c.answering() || !strings.HasPrefix(line, "/") {
		return line
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if err != nil {
		return line
	}
	labels := c.menu.Labels()
	if n < 1 || n > len(labels) {
		return line
	}
	return labels[n-1]
}

func (c *Console) send(ctx context.Context, text string) error {
	replies, err := c.d.Deliver(ctx, c.chatID, text)
	if err != nil {
		return err
	}

	c.waiting, c.secret = false, false
	for _, r := range replies {
		fmt.Fprintln(c.out, r.Text)
		if r.Menu != nil {
			c.menu = r.Menu
			c.printMenu()
		}
		c.waiting, c.secret = r.Awaiting, r.Secret
	}
	return nil
}

func (c *Console) printMenu() {
	i := 1
	for _, row := range c.menu {
		cells := make([]string, 0, len(row))
		for _, label := range row {
			cells = append(cells, fmt.Sprintf("[/%d] %s", i, label))
			i++
		}
		fmt.Fprintln(c.out, "  "+strings.Join(cells, "   "))
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Type /<number> to press a button, any other text is sent as a message.")
	fmt.Fprintln(c.out, "Commands: help, exit")
	c.printMenu()
}

// readLine prompts and reads one line. Passwords are read without echo
// when stdin is a terminal.
func (c *Console) readLine() (string, error) {
	if c.secret {
		fmt.Fprint(c.out, "password> ")
		if isTerminal(c.inFd) {
			pw, err := readPassword(c.inFd)
			defer common.WipeByteArray(pw)
			fmt.Fprintln(c.out)
			if err != nil {
				return "", err
			}
			return string(pw), nil
		}
	} else {
		fmt.Fprint(c.out, "> ")
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
