package core

import (
	"time"

	"github.com/google/uuid"
)

// Item represents one entry in a run's conversation log. Concrete item types
// implement the unexported isItem marker enabling a closed set.
//
// Items are immutable once appended; the log only ever grows within a run.
type Item interface {
	isItem()
	// Header returns the common identity fields of the item.
	Header() ItemHeader
}

// ItemHeader carries the fields shared by all item kinds.
type ItemHeader struct {
	ID        string    `json:"id"`
	Agent     string    `json:"agent"` // producing agent name; "user" for user input
	Timestamp time.Time `json:"timestamp"`
}

// NewItemHeader stamps a fresh header for the given producer.
func NewItemHeader(agent string) ItemHeader {
	return ItemHeader{ID: uuid.NewString(), Agent: agent, Timestamp: time.Now().UTC()}
}

// UserMessageItem is text supplied by the user (or by a previous run exported
// as input).
type UserMessageItem struct {
	ItemHeader
	Text string `json:"text"`
}

func (UserMessageItem) isItem() {}

// Header implements Item.
func (i UserMessageItem) Header() ItemHeader { return i.ItemHeader }

// MessageItem is an assistant message produced by a model turn.
type MessageItem struct {
	ItemHeader
	Text string `json:"text"`
}

func (MessageItem) isItem() {}

// Header implements Item.
func (i MessageItem) Header() ItemHeader { return i.ItemHeader }

// ToolCallItem records the model requesting execution of a named tool.
type ToolCallItem struct {
	ItemHeader
	CallID    string `json:"call_id"`
	ToolName  string `json:"tool_name"`
	Arguments string `json:"arguments"` // raw JSON as the model produced it
}

func (ToolCallItem) isItem() {}

// Header implements Item.
func (i ToolCallItem) Header() ItemHeader { return i.ItemHeader }

// ToolResultItem records the outcome of a tool call. Error is populated on
// tool-level failures (validation, execution, timeout); such items stay in the
// log as observations for the model rather than terminating the run.
type ToolResultItem struct {
	ItemHeader
	CallID   string `json:"call_id"`
	ToolName string `json:"tool_name"`
	Result   any    `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (ToolResultItem) isItem() {}

// Header implements Item.
func (i ToolResultItem) Header() ItemHeader { return i.ItemHeader }

// IsError reports whether the call failed at the tool level.
func (i ToolResultItem) IsError() bool { return i.Error != "" }

// HandoffItem marks a transfer of the active-agent role. Note carries any
// context the outgoing agent chose to forward to the target.
type HandoffItem struct {
	ItemHeader
	From string `json:"from"`
	To   string `json:"to"`
	Note string `json:"note,omitempty"`
}

func (HandoffItem) isItem() {}

// Header implements Item.
func (i HandoffItem) Header() ItemHeader { return i.ItemHeader }

// ErrorItem records a run-level error in the log before the run terminates.
type ErrorItem struct {
	ItemHeader
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorItem) isItem() {}

// Header implements Item.
func (i ErrorItem) Header() ItemHeader { return i.ItemHeader }

// ItemText extracts the conversational text of message-bearing items. It
// returns "" for tool call/result and error items.
func ItemText(it Item) string {
	switch v := it.(type) {
	case UserMessageItem:
		return v.Text
	case MessageItem:
		return v.Text
	case HandoffItem:
		return v.Note
	default:
		return ""
	}
}
