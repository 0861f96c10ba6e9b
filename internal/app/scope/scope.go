/*
Package scope builds the authorization document carried inside a room token.

A Document is the shape-independent grant: the issuing application, whether relay (TURN)
is allowed, and one or more room grants each holding a member grant template. A Document
is put on the wire in exactly one of the shapes named by Version; see wire.go.
*/
package scope

import (
	"fmt"
	"regexp"

	"roomtoken/internal/pkg/errs"
)

// Wildcard as a room or member name matches any room or member.
const Wildcard = "*"

var roomNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.:@-]{1,128}$`)

// ValidRoomName reports whether name is acceptable as a concrete room name.
// The wildcard is not a concrete name.
func ValidRoomName(name string) bool {
	return roomNameRegex.MatchString(name)
}

// Document is the normalized scope document.
type Document struct {
	Application        string
	RelayEnabled       bool
	ApplicationActions []AppAction
	Rooms              []RoomGrant
}

// RoomGrant grants actions on one room (or any room, when Name is Wildcard).
type RoomGrant struct {
	Name    string
	Actions []RoomAction
	Member  MemberGrant
}

// MemberGrant is the template applied to members of the room.
// Publication and Subscription are only carried by shapes that support them.
type MemberGrant struct {
	Name         string
	Actions      []MemberAction
	Publication  []StreamAction
	Subscription []StreamAction
}

type buildOptions struct {
	relay  bool
	member func(*MemberGrant)
}

// Option customises Build.
type Option func(*buildOptions)

// WithRelay overrides the relay grant, which defaults to enabled.
func WithRelay(enabled bool) Option {
	return func(o *buildOptions) {
		o.relay = enabled
	}
}

// WithMemberGrant lets a caller narrow the member template after defaults are applied.
// Every member currently receives the full action set; this is where a per-user ACL plugs in.
func WithMemberGrant(fn func(*MemberGrant)) Option {
	return func(o *buildOptions) {
		o.member = fn
	}
}

// Build returns the document granting room (or any room, when room is empty or Wildcard)
// to a wildcard member for the application appID, in the form version supports.
func Build(appID, room string, version Version, opts ...Option) (*Document, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: application id is empty", errs.ErrInvalidScopeInput)
	}
	if !version.Known() {
		return nil, fmt.Errorf("%w: unrecognised schema version %d", errs.ErrInvalidScopeInput, int(version))
	}
	if room == "" {
		room = Wildcard
	}

	o := buildOptions{relay: true}
	for _, opt := range opts {
		opt(&o)
	}

	member := MemberGrant{
		Name:    Wildcard,
		Actions: AllMemberActions(),
	}
	if version.hasStreamGrants() {
		member.Publication = []StreamAction{StreamWrite}
		member.Subscription = []StreamAction{StreamWrite}
	}
	if o.member != nil {
		o.member(&member)
	}

	doc := &Document{
		Application:        appID,
		RelayEnabled:       o.relay,
		ApplicationActions: []AppAction{AppRead},
		Rooms: []RoomGrant{{
			Name:    room,
			Actions: AllRoomActions(),
			Member:  member,
		}},
	}

	if err := doc.Validate(appID); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks that the document belongs to appID and uses only known actions.
func (d *Document) Validate(appID string) error {
	if d.Application == "" || d.Application != appID {
		return fmt.Errorf("%w: scope application %q does not match issuer %q", errs.ErrInvalidScopeInput, d.Application, appID)
	}
	if i := firstInvalid(d.ApplicationActions); i >= 0 {
		return fmt.Errorf("%w: unknown application action %q", errs.ErrInvalidScopeInput, d.ApplicationActions[i])
	}
	if len(d.Rooms) == 0 {
		return fmt.Errorf("%w: scope grants no rooms", errs.ErrInvalidScopeInput)
	}

	for _, room := range d.Rooms {
		if room.Name != Wildcard && !ValidRoomName(room.Name) {
			return fmt.Errorf("%w: invalid room name %q", errs.ErrInvalidScopeInput, room.Name)
		}
		if i := firstInvalid(room.Actions); i >= 0 {
			return fmt.Errorf("%w: unknown room action %q", errs.ErrInvalidScopeInput, room.Actions[i])
		}

		m := room.Member
		if m.Name == "" {
			return fmt.Errorf("%w: member name is empty in room %q", errs.ErrInvalidScopeInput, room.Name)
		}
		if i := firstInvalid(m.Actions); i >= 0 {
			return fmt.Errorf("%w: unknown member action %q", errs.ErrInvalidScopeInput, m.Actions[i])
		}
		if i := firstInvalid(m.Publication); i >= 0 {
			return fmt.Errorf("%w: unknown publication action %q", errs.ErrInvalidScopeInput, m.Publication[i])
		}
		if i := firstInvalid(m.Subscription); i >= 0 {
			return fmt.Errorf("%w: unknown subscription action %q", errs.ErrInvalidScopeInput, m.Subscription[i])
		}
	}

	return nil
}
