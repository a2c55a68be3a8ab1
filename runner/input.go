package runner

import "github.com/relayworks/agentrelay/core"

// Input seeds a run's item log. It is either raw user text (InputString) or a
// previously exported item list (InputItems), which is how one run's history
// becomes the next run's context.
type Input interface {
	inputItems() []core.Item
}

// InputString is plain user text input.
type InputString string

func (s InputString) inputItems() []core.Item {
	return []core.Item{core.UserMessageItem{
		ItemHeader: core.NewItemHeader("user"),
		Text:       string(s),
	}}
}

// InputItems is an exported item log from a prior run, replayed as input.
type InputItems []core.Item

func (items InputItems) inputItems() []core.Item {
	out := make([]core.Item, len(items))
	copy(out, items)
	return out
}
