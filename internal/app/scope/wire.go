package scope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"roomtoken/internal/pkg/errs"
)

// Version identifies the wire shape of the scope document. The shapes are not
// interchangeable; changing shape is a breaking migration and needs a new Version.
type Version int

const (
	// VersionNested: {"app":{"id","turn","actions","rooms":[{"name","actions","members":[...]}]}}.
	// Members carry publication and subscription grants.
	VersionNested Version = 2

	// VersionFlat: {"appId","turn","methods","rooms":[{"name","methods","member":{...}}]}.
	VersionFlat Version = 3

	// DefaultVersion is the shape expected by the deployed verifier.
	DefaultVersion = VersionFlat
)

// Known reports whether v names a supported shape.
func (v Version) Known() bool {
	return v == VersionNested || v == VersionFlat
}

func (v Version) hasStreamGrants() bool {
	return v == VersionNested
}

func (v Version) String() string {
	switch v {
	case VersionNested:
		return "nested"
	case VersionFlat:
		return "flat"
	}
	return fmt.Sprintf("unknown(%d)", int(v))
}

type nestedScope struct {
	App nestedApp `json:"app"`
}

type nestedApp struct {
	ID      string       `json:"id"`
	Turn    bool         `json:"turn"`
	Actions []AppAction  `json:"actions"`
	Rooms   []nestedRoom `json:"rooms"`
}

type nestedRoom struct {
	Name    string         `json:"name"`
	Actions []RoomAction   `json:"actions"`
	Members []nestedMember `json:"members"`
}

type nestedMember struct {
	Name         string         `json:"name"`
	Actions      []MemberAction `json:"actions"`
	Publication  *streamGrant   `json:"publication,omitempty"`
	Subscription *streamGrant   `json:"subscription,omitempty"`
}

type streamGrant struct {
	Actions []StreamAction `json:"actions"`
}

type flatScope struct {
	AppID   string      `json:"appId"`
	Turn    bool        `json:"turn"`
	Methods []AppAction `json:"methods"`
	Rooms   []flatRoom  `json:"rooms"`
}

type flatRoom struct {
	Name    string       `json:"name"`
	Methods []RoomAction `json:"methods"`
	Member  flatMember   `json:"member"`
}

type flatMember struct {
	Name    string         `json:"name"`
	Methods []MemberAction `json:"methods"`
}

// Encode converts doc to the JSON-ready value for version.
func Encode(doc *Document, version Version) (any, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil scope document", errs.ErrInvalidScopeInput)
	}

	switch version {
	case VersionNested:
		return encodeNested(doc), nil
	case VersionFlat:
		return encodeFlat(doc)
	default:
		return nil, fmt.Errorf("%w: unrecognised schema version %d", errs.ErrInvalidScopeInput, int(version))
	}
}

func encodeNested(doc *Document) nestedScope {
	rooms := make([]nestedRoom, 0, len(doc.Rooms))
	for _, r := range doc.Rooms {
		m := nestedMember{
			Name:    r.Member.Name,
			Actions: r.Member.Actions,
		}
		if len(r.Member.Publication) > 0 {
			m.Publication = &streamGrant{Actions: r.Member.Publication}
		}
		if len(r.Member.Subscription) > 0 {
			m.Subscription = &streamGrant{Actions: r.Member.Subscription}
		}

		rooms = append(rooms, nestedRoom{
			Name:    r.Name,
			Actions: r.Actions,
			Members: []nestedMember{m},
		})
	}

	return nestedScope{App: nestedApp{
		ID:      doc.Application,
		Turn:    doc.RelayEnabled,
		Actions: doc.ApplicationActions,
		Rooms:   rooms,
	}}
}

func encodeFlat(doc *Document) (flatScope, error) {
	rooms := make([]flatRoom, 0, len(doc.Rooms))
	for _, r := range doc.Rooms {
		if len(r.Member.Publication) > 0 || len(r.Member.Subscription) > 0 {
			return flatScope{}, fmt.Errorf("%w: %s scope cannot carry publication or subscription grants", errs.ErrInvalidScopeInput, VersionFlat)
		}

		rooms = append(rooms, flatRoom{
			Name:    r.Name,
			Methods: r.Actions,
			Member: flatMember{
				Name:    r.Member.Name,
				Methods: r.Member.Actions,
			},
		})
	}

	return flatScope{
		AppID:   doc.Application,
		Turn:    doc.RelayEnabled,
		Methods: doc.ApplicationActions,
		Rooms:   rooms,
	}, nil
}

// Decode parses raw as a scope of the given version. Fields belonging to any other
// shape are rejected.
func Decode(raw []byte, version Version) (*Document, error) {
	switch version {
	case VersionNested:
		var s nestedScope
		if err := decodeStrict(raw, &s); err != nil {
			return nil, err
		}
		return decodeNested(s)
	case VersionFlat:
		var s flatScope
		if err := decodeStrict(raw, &s); err != nil {
			return nil, err
		}
		return decodeFlat(s), nil
	default:
		return nil, fmt.Errorf("%w: unrecognised schema version %d", errs.ErrInvalidScopeInput, int(version))
	}
}

func decodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidScopeInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after scope", errs.ErrInvalidScopeInput)
	}
	return nil
}

func decodeNested(s nestedScope) (*Document, error) {
	doc := &Document{
		Application:        s.App.ID,
		RelayEnabled:       s.App.Turn,
		ApplicationActions: s.App.Actions,
	}

	for _, r := range s.App.Rooms {
		if len(r.Members) != 1 {
			return nil, fmt.Errorf("%w: room %q has %d member grants, want 1", errs.ErrInvalidScopeInput, r.Name, len(r.Members))
		}

		m := r.Members[0]
		member := MemberGrant{
			Name:    m.Name,
			Actions: m.Actions,
		}
		if m.Publication != nil {
			member.Publication = m.Publication.Actions
		}
		if m.Subscription != nil {
			member.Subscription = m.Subscription.Actions
		}

		doc.Rooms = append(doc.Rooms, RoomGrant{
			Name:    r.Name,
			Actions: r.Actions,
			Member:  member,
		})
	}

	return doc, nil
}

func decodeFlat(s flatScope) *Document {
	doc := &Document{
		Application:        s.AppID,
		RelayEnabled:       s.Turn,
		ApplicationActions: s.Methods,
	}

	for _, r := range s.Rooms {
		doc.Rooms = append(doc.Rooms, RoomGrant{
			Name:    r.Name,
			Actions: r.Methods,
			Member: MemberGrant{
				Name:    r.Member.Name,
				Actions: r.Member.Methods,
			},
		})
	}

	return doc
}
