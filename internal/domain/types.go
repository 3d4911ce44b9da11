package domain

import "strings"

// User identifies the sender of an inbound event.
type User struct {
	Username  string
	FirstName string
	LastName  string
	ID        int64
}

// DisplayName renders the user for logs.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	switch {
	case u.Username != "" && name != "":
		return "@" + u.Username + " (" + name + ")"
	case u.Username != "":
		return "@" + u.Username
	default:
		return name
	}
}

// Action is a quick-reply button attached to an outbound message.
type Action string

const (
	ActionNewTrack     Action = "new_track"
	ActionChooseArtist Action = "choose_artist"
	ActionStart        Action = "start"
)

// Label returns the button caption.
func (a Action) Label() string {
	switch a {
	case ActionNewTrack:
		return "New track"
	case ActionChooseArtist:
		return "Change artist"
	case ActionStart:
		return "Start"
	default:
		return string(a)
	}
}

// ParseAction maps callback data back to an Action.
func ParseAction(data string) (Action, bool) {
	switch a := Action(data); a {
	case ActionNewTrack, ActionChooseArtist, ActionStart:
		return a, true
	}
	return "", false
}

type EventKind string

const (
	EventText   EventKind = "text"
	EventAction EventKind = "action"
)

// Event is one inbound unit of work from the chat transport.
type Event struct {
	Kind   EventKind
	Text   string
	Action Action
	User   User
	ChatID int64
}

// Reply is one outbound message.
type Reply struct {
	Text    string
	Actions []Action
	ChatID  int64
}
