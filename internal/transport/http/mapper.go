package http

import (
	"github.com/vovakirdan/haikuchat/internal/proto"
	"github.com/vovakirdan/haikuchat/internal/relay"
	"github.com/vovakirdan/haikuchat/internal/store"
)

func frameToCommand(frame proto.Frame) *relay.Command {
	switch frame.Action {
	case proto.ActionSendMessage, "":
		return &relay.Command{
			Kind:   relay.CommandSendMessage,
			Action: proto.ActionSendMessage,
			Message: relay.Message{
				RoomID:    frame.RoomID,
				Username:  frame.Username,
				Text:      frame.Message,
				Timestamp: frame.Timestamp,
			},
		}
	default:
		return &relay.Command{Kind: relay.CommandUnknown, Action: frame.Action}
	}
}

func frameFromEvent(roomID string, event *relay.Event) proto.Frame {
	switch event.Kind {
	case relay.EventMessage:
		return frameFromMessage(event.Message)
	case relay.EventError:
		return errorFrame(roomID, event.Error)
	default:
		return errorFrame(roomID, relay.NewError(relay.ErrCodeInternal, "unknown event"))
	}
}

func frameFromMessage(m relay.Message) proto.Frame {
	return proto.Frame{
		Action:    proto.ActionSendMessage,
		RoomID:    m.RoomID,
		Message:   m.Text,
		UserID:    m.UserID,
		Username:  m.Username,
		Timestamp: m.Timestamp,
	}
}

func frameFromStored(m *store.Message) proto.Frame {
	return proto.Frame{
		Action:    proto.ActionSendMessage,
		RoomID:    m.RoomID,
		Message:   m.Body,
		UserID:    m.UserID,
		Username:  m.Username,
		Timestamp: m.Timestamp,
	}
}

func errorFrame(roomID string, err *relay.Error) proto.Frame {
	return proto.Frame{
		Action:  proto.ActionError,
		RoomID:  roomID,
		Message: err.Message,
		Code:    err.Code,
	}
}

func roomToResponse(r *store.Room) proto.Room {
	return proto.Room{
		RoomID:      r.ID,
		RoomName:    r.Name,
		LastMessage: r.LastMessage,
		MessageTime: r.MessageTime,
	}
}
