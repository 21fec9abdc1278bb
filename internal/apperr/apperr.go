// Package apperr defines the two failure classes every operation can report.
//
// Input errors mean the caller sent something invalid (unknown ids, oversized
// fields, duplicate state). Access errors mean the caller is not authenticated
// or lacks the membership/ownership the action needs.
package apperr

import (
	"errors"
	"net/http"
)

type Class int

const (
	ClassInput Class = iota
	ClassAccess
)

func (c Class) String() string {
	if c == ClassAccess {
		return "AccessError"
	}
	return "InputError"
}

// Error is a classified domain failure. Kind is a stable machine-readable name.
type Error struct {
	Class   Class
	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Kind + ": " + e.Message
}

func input(kind, message string) *Error {
	return &Error{Class: ClassInput, Kind: kind, Message: message}
}

func access(kind, message string) *Error {
	return &Error{Class: ClassAccess, Kind: kind, Message: message}
}

// Input class.
var (
	ErrInvalidCredentials        = input("InvalidCredentials", "email/password combination incorrect")
	ErrInvalidName               = input("InvalidName", "name must be 1-50 alphabetic characters")
	ErrInvalidEmail              = input("InvalidEmail", "email address is invalid")
	ErrEmailInUse                = input("EmailInUse", "email address is already in use")
	ErrWeakPassword              = input("WeakPassword", "password must be at least 6 characters")
	ErrPasswordTooLong           = input("PasswordTooLong", "password must be at most 72 bytes")
	ErrInvalidHandle             = input("InvalidHandle", "handle must be between 3 and 20 characters")
	ErrHandleInUse               = input("HandleInUse", "handle is already in use")
	ErrUnknownUser               = input("UnknownUser", "user does not exist")
	ErrUnknownChannel            = input("UnknownChannel", "channel does not exist")
	ErrChannelNameTooLong        = input("ChannelNameTooLong", "channel name is more than 20 characters")
	ErrUnknownMessage            = input("UnknownMessage", "message does not exist")
	ErrMessageTooLong            = input("MessageTooLong", "message is longer than 1000 characters")
	ErrPastScheduleTime          = input("PastScheduleTime", "time given is in the past")
	ErrInvalidReactionKind       = input("InvalidReactionKind", "the only valid react id is 1")
	ErrMessageNotInJoinedChannel = input("MessageNotInJoinedChannel", "message is not within a channel the user has joined")
	ErrAlreadyReacted            = input("AlreadyReacted", "user has already reacted to the message")
	ErrNotReacted                = input("NotReacted", "user has not reacted to the message")
	ErrAlreadyPinned             = input("AlreadyPinned", "message is already pinned")
	ErrAlreadyUnpinned           = input("AlreadyUnpinned", "message is already unpinned")
	ErrAlreadyOwner              = input("AlreadyOwner", "user is already an owner of the channel")
	ErrNotAnOwner                = input("NotAnOwner", "user is not an owner of the channel")
	ErrStartBeyondRange          = input("StartBeyondRange", "start is greater than the number of messages in the channel")
	ErrInvalidPermission         = input("InvalidPermission", "permission id is invalid")
)

// Access class.
var (
	ErrUnauthenticated = access("Unauthenticated", "invalid token")
	ErrNotMember       = access("NotMember", "the authorised user is not a member of the channel")
	ErrNotPermitted    = access("NotPermitted", "the authorised user is not permitted to do this")
	ErrNotInChannel    = access("NotInChannel", "the authorised user is not part of the channel the message is in")
	ErrNotOwner        = access("NotOwner", "the authorised user is not an owner")
)

// InvalidRequest reports a request that could not be decoded.
func InvalidRequest(detail string) *Error {
	return input("InvalidRequest", detail)
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Status maps err to the HTTP status the request layer should answer with.
func Status(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if e.Class == ClassAccess {
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}
