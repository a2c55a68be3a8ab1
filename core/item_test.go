package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewItemHeader(t *testing.T) {
	h := NewItemHeader("triage")
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "triage", h.Agent)
	assert.False(t, h.Timestamp.IsZero())

	h2 := NewItemHeader("triage")
	assert.NotEqual(t, h.ID, h2.ID)
}

func TestToolResultItem_IsError(t *testing.T) {
	ok := ToolResultItem{ItemHeader: NewItemHeader("a"), CallID: "c1", ToolName: "t", Result: 42}
	assert.False(t, ok.IsError())

	failed := ToolResultItem{ItemHeader: NewItemHeader("a"), CallID: "c2", ToolName: "t", Error: "boom"}
	assert.True(t, failed.IsError())
}

func TestItemText(t *testing.T) {
	assert.Equal(t, "hi", ItemText(UserMessageItem{Text: "hi"}))
	assert.Equal(t, "answer", ItemText(MessageItem{Text: "answer"}))
	assert.Equal(t, "note", ItemText(HandoffItem{Note: "note"}))
	assert.Equal(t, "", ItemText(ToolCallItem{ToolName: "t"}))
	assert.Equal(t, "", ItemText(ErrorItem{Message: "m"}))
}
