package session

import (
	"fmt"
	"sort"

	"github.com/nhle/tempmail/internal/model"
)

// Op names a controller operation.
type Op string

const (
	OpProvision     Op = "provision"
	OpFetch         Op = "fetch"
	OpView          Op = "view"
	OpDeleteMailbox Op = "delete_mailbox"
	OpDeleteMessage Op = "delete_message"
	OpSource        Op = "source"
	OpAccount       Op = "account"
)

// User-facing failure messages, one per step.
const (
	MsgCreateAccount = "Failed to create account"
	MsgGetToken      = "Failed to get token"
	MsgFetchMessages = "Failed to fetch messages"
	MsgFetchEmail    = "Failed to fetch email"
	MsgDeleteAccount = "Failed to delete account"
	MsgDeleteEmail   = "Failed to delete email"
	MsgFetchSource   = "Failed to fetch source"
	MsgFetchAccount  = "Failed to load account"
)

// Error is returned by controller operations. Message is the string
// surfaced to the user; Err carries the cause.
type Error struct {
	Op      Op
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// State is a point-in-time copy of the session.
type State struct {
	// Mailbox is the live identity; zero when unprovisioned.
	Mailbox model.Mailbox

	// Account holds quota and usage when known.
	Account *model.Account

	// Messages is the last successfully fetched list, in provider order.
	Messages []model.MessageSummary

	// Viewed is the message currently open, if any.
	Viewed *model.MessageDetail

	// Loading is true while any operation is in flight.
	Loading bool

	// InFlight lists the operations currently running, sorted by name.
	InFlight []Op

	// Error is the last failure message, cleared when an operation starts.
	Error string
}

// Active reports whether a mailbox is provisioned.
func (s State) Active() bool {
	return s.Mailbox.Active()
}

// Busy reports whether op is in flight.
func (s State) Busy(op Op) bool {
	for _, o := range s.InFlight {
		if o == op {
			return true
		}
	}
	return false
}

// clone returns a deep copy so callers never share slices with the
// controller.
func (s State) clone() State {
	out := s
	if s.Account != nil {
		acc := *s.Account
		out.Account = &acc
	}
	if s.Messages != nil {
		out.Messages = make([]model.MessageSummary, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if s.Viewed != nil {
		v := *s.Viewed
		v.To = append([]model.Address(nil), s.Viewed.To...)
		v.Cc = append([]model.Address(nil), s.Viewed.Cc...)
		v.Attachments = append([]model.Attachment(nil), s.Viewed.Attachments...)
		out.Viewed = &v
	}
	out.InFlight = append([]Op(nil), s.InFlight...)
	return out
}

func sortedOps(pending map[Op]int) []Op {
	ops := make([]Op, 0, len(pending))
	for op, n := range pending {
		if n > 0 {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
