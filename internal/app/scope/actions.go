package scope

// AppAction is a coarse action granted to the application identity.
type AppAction string

const (
	AppRead  AppAction = "read"
	AppWrite AppAction = "write"
)

// Valid reports whether a belongs to the application action vocabulary.
func (a AppAction) Valid() bool {
	switch a {
	case AppRead, AppWrite:
		return true
	}
	return false
}

// RoomAction is an action a token holder may perform on a room.
type RoomAction string

const (
	RoomCreate         RoomAction = "create"
	RoomClose          RoomAction = "close"
	RoomUpdateMetadata RoomAction = "updateMetadata"
)

// Valid reports whether a belongs to the room action vocabulary.
func (a RoomAction) Valid() bool {
	switch a {
	case RoomCreate, RoomClose, RoomUpdateMetadata:
		return true
	}
	return false
}

// MemberAction is an action a room member may perform.
type MemberAction string

const (
	MemberPublish        MemberAction = "publish"
	MemberSubscribe      MemberAction = "subscribe"
	MemberUpdateMetadata MemberAction = "updateMetadata"
)

// Valid reports whether a belongs to the member action vocabulary.
func (a MemberAction) Valid() bool {
	switch a {
	case MemberPublish, MemberSubscribe, MemberUpdateMetadata:
		return true
	}
	return false
}

// StreamAction is an action on a member's publications or subscriptions.
type StreamAction string

const StreamWrite StreamAction = "write"

// Valid reports whether a belongs to the stream action vocabulary.
func (a StreamAction) Valid() bool {
	return a == StreamWrite
}

// AllRoomActions returns the full room action set.
func AllRoomActions() []RoomAction {
	return []RoomAction{RoomCreate, RoomClose, RoomUpdateMetadata}
}

// AllMemberActions returns the full member action set.
func AllMemberActions() []MemberAction {
	return []MemberAction{MemberPublish, MemberSubscribe, MemberUpdateMetadata}
}

type validator interface {
	Valid() bool
}

// firstInvalid returns the index of the first action outside its vocabulary, or -1.
func firstInvalid[A validator](actions []A) int {
	for i, a := range actions {
		if !a.Valid() {
			return i
		}
	}
	return -1
}
