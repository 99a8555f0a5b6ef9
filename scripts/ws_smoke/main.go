package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/haikuchat/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "smoke-tester", "user ID to connect as")
	name := flag.String("name", "tester", "username")
	token := flag.String("token", "", "relay token, if the relay requires one")
	room := flag.String("room", "SMOKE1", "room code")
	text := flag.String("text", "an old silent pond\na frog jumps into the pond\nsplash! silence again", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	target, err := url.Parse(*addr)
	if err != nil {
		return fmt.Errorf("parse addr: %w", err)
	}
	q := target.Query()
	q.Set("id", *room)
	q.Set("userID", *user)
	q.Set("username", *name)
	if *token != "" {
		q.Set("token", *token)
	}
	target.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, target.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	out := proto.Frame{
		Action:    proto.ActionSendMessage,
		RoomID:    *room,
		Message:   *text,
		UserID:    *user,
		Username:  *name,
		Timestamp: time.Now().Format(proto.TimestampLayout),
	}
	if err := wsjson.Write(ctx, conn, out); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	for {
		var in proto.Frame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch in.Action {
		case proto.ActionError:
			return fmt.Errorf("relay error %s: %s", in.Code, in.Message)
		case proto.ActionSendMessage:
			fmt.Printf("Received: room=%s user=%s name=%s ts=%s\n%s\n", in.RoomID, in.UserID, in.Username, in.Timestamp, in.Message)
			if in.UserID == *user && in.Message == *text {
				return nil
			}
		default:
			fmt.Printf("Received action=%s: %s\n", in.Action, in.Message)
		}
	}
}
