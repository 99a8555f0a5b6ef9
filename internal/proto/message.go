package proto

const (
	// ActionSendMessage marks a chat message frame.
	ActionSendMessage = "sendmessage"
	// ActionError marks a relay error frame.
	ActionError = "error"

	// GuestUserID identifies a sender without a provisioned identity.
	GuestUserID = "guest"

	// TimestampLayout is the wall-clock format of Frame.Timestamp.
	TimestampLayout = "2006-01-02 15:04:05"
	// MessageTimeLayout is the format of Room.MessageTime.
	MessageTimeLayout = "3:04 PM"
	// DefaultLastMessage is the preview of a room nobody wrote in yet.
	DefaultLastMessage = "Send a chat message!"
)

// Frame is the JSON payload carried by every socket text frame, in both directions,
// and the element type of a history response.
type Frame struct {
	Action    string `json:"action,omitempty"`
	RoomID    string `json:"roomID,omitempty"`
	Message   string `json:"message"`
	UserID    string `json:"userID,omitempty"`
	Username  string `json:"username,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	// Code is set on error frames only.
	Code string `json:"code,omitempty"`
}

// Room is a directory entry as returned by the room API.
type Room struct {
	RoomID      string `json:"roomID"`
	RoomName    string `json:"roomName"`
	LastMessage string `json:"lastMessage"`
	MessageTime string `json:"messageTime"`
}

// CreateRoomRequest creates a room owned by UserID.
type CreateRoomRequest struct {
	RoomID      string `json:"roomID"`
	RoomName    string `json:"roomName"`
	UserID      string `json:"userID"`
	LastMessage string `json:"lastMessage"`
	MessageTime string `json:"messageTime"`
}

// JoinRoomRequest adds UserID to the members of RoomID.
type JoinRoomRequest struct {
	RoomID string `json:"roomID"`
	UserID string `json:"userID"`
}

// GuestRequest asks the relay for a guest identity.
type GuestRequest struct {
	Username string `json:"username"`
}

// GuestResponse carries an issued identity and its token.
type GuestResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Error describes an API error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
