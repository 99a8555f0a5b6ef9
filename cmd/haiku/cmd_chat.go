package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/haikuchat/internal/chat"
	"github.com/vovakirdan/haikuchat/internal/haiku"
	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/rooms"
)

var errQuit = errors.New("quit")

var (
	chatRoom  string
	chatUser  string
	chatName  string
	chatToken string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join a room and chat in haiku",
	Long: `Join a room, print its history and live messages, and send what you type.

Type a haiku one line at a time; syllable counts are shown after each line. The
haiku is sent after the third line, or earlier on an empty line. /quit leaves.
Without --user a guest identity is requested from the relay.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatRoom, "room", "r", "", "Room code (required)")
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "User ID")
	chatCmd.Flags().StringVarP(&chatName, "name", "n", "", "Display name")
	chatCmd.Flags().StringVar(&chatToken, "token", "", "Relay token for --user")
	_ = chatCmd.MarkFlagRequired("room")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	code, err := rooms.NormalizeCode(chatRoom)
	if err != nil {
		return err
	}
	id, err := resolveIdentity(ctx)
	if err != nil {
		return err
	}

	manager := chat.NewManagerFromConfig(cfg, nil, logger)
	session := manager.Connect(ctx, id, code)
	defer manager.Disconnect()

	out := &syncWriter{w: cmd.OutOrStdout()}
	g, gctx := errgroup.WithContext(ctx)

	lines := make(chan string)
	go readLines(gctx, cmd.InOrStdin(), lines)

	g.Go(func() error {
		return printEvents(gctx, out, session, id.SenderID())
	})
	g.Go(func() error {
		return compose(gctx, out, session, lines)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func resolveIdentity(ctx context.Context) (identity.Identity, error) {
	if chatUser != "" {
		return identity.Identity{UserID: chatUser, Username: chatName, Token: chatToken}, nil
	}

	id, err := rooms.NewClient(cfg.APIURL, nil, logger).Guest(ctx, chatName)
	if err == nil {
		return id, nil
	}
	logger.Warn().Err(err).Msg("relay did not issue a guest identity, using a local one")

	id, err = identity.NewGuest(chatName)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("create guest identity: %w", err)
	}
	return id, nil
}

// readLines feeds stdin lines into out and closes it at EOF. It returns once ctx
// is done and the pending read finishes.
func readLines(ctx context.Context, r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}

func printEvents(ctx context.Context, out *syncWriter, session *chat.Session, self string) error {
	events := session.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case chat.EventState:
				switch ev.State.Kind {
				case chat.StateOpen:
					out.println(fmt.Sprintf("-- joined %s as %s", session.RoomID(), session.Identity().Username))
				case chat.StateClosed:
					if ev.State.Reason != chat.ReasonDisconnected && ctx.Err() == nil {
						return fmt.Errorf("connection closed: %s", ev.State.Reason)
					}
				}
			case chat.EventHistory:
				// Live messages appended since the merge arrive as their own events.
				for _, m := range historyPrefix(session.Store().Messages(), ev.Count) {
					out.println(formatMessage(m, self))
				}
			case chat.EventMessage:
				// Own messages are printed by compose when sent.
				if ev.Message.IsFrom(self) && !ev.Message.Action.IsSystem() {
					continue
				}
				out.println(formatMessage(ev.Message, self))
			}
		}
	}
}

// historyPrefix returns the first n messages of a snapshot taken after a merge of n.
func historyPrefix(msgs []chat.Message, n int) []chat.Message {
	if n < 0 {
		n = 0
	}
	if n > len(msgs) {
		n = len(msgs)
	}
	return msgs[:n]
}

func compose(ctx context.Context, out *syncWriter, session *chat.Session, lines <-chan string) error {
	var c composer
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if strings.TrimSpace(line) == "/quit" {
				return errQuit
			}

			draft, ready := c.add(line)
			if !ready {
				if n := len(c.lines); n > 0 {
					out.println(formatFeedback(c.feedback(), n))
				}
				continue
			}

			feedback := haiku.Check(draft)
			if err := session.Send(draft); err != nil {
				out.println("-- not sent: " + err.Error())
				continue
			}
			verdict := "haiku ✓"
			if !feedback.Valid() {
				verdict = "not quite a haiku (" + feedback.String() + ")"
			}
			out.println("-- sent, " + verdict)
		}
	}
}
