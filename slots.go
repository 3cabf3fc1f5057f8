package nest

import (
	"fmt"
	"html/template"
	"slices"
	"strings"
)

// slotStore holds the child markup a component's usage site handed it: the
// default content, and any named slots written by slot markers nested in
// it.
type slotStore struct {
	defaultContent template.HTML
	captured       bool
	named          map[string]template.HTML
}

func (s *slotStore) setDefault(content template.HTML) {
	s.defaultContent = content
	s.captured = true
}

func (s *slotStore) set(name string, content template.HTML) (replaced bool) {
	if s.named == nil {
		s.named = map[string]template.HTML{}
	}
	_, replaced = s.named[name]
	s.named[name] = content
	return replaced
}

func isBlank(content template.HTML) bool {
	return strings.TrimSpace(string(content)) == ""
}

// DefaultContent returns the markup nested directly inside the component at
// its usage site, excluding anything routed into named slots.
func (n *Node) DefaultContent() template.HTML {
	return n.slots.defaultContent
}

// IsDefaultContentEmpty reports whether the component was given no default
// content, or only whitespace. Templates use it to decide when to render
// fallback content.
func (n *Node) IsDefaultContentEmpty() bool {
	return !n.slots.captured || isBlank(n.slots.defaultContent)
}

// IsSlotEmpty reports whether the named slot was never declared, or was
// declared with only whitespace. Templates use it to decide when to render
// fallback content.
func (n *Node) IsSlotEmpty(name string) bool {
	content, ok := n.slots.named[name]
	if !ok {
		return true
	}
	return isBlank(content)
}

// Slot returns the content of the named slot. It returns an error matching
// ErrSlotNotFound if the usage site never declared the slot; a declared slot
// with no content returns an empty fragment.
func (n *Node) Slot(name string) (template.HTML, error) {
	content, ok := n.slots.named[name]
	if !ok {
		return "", fmt.Errorf("slot %q in %s (%s): make sure the slot is declared where the component is used: %w", name, n.ComponentName(), n.route, ErrSlotNotFound)
	}
	return content, nil
}

// SlotNames returns the names of every slot declared for the component,
// sorted.
func (n *Node) SlotNames() []string {
	names := make([]string, 0, len(n.slots.named))
	for name := range n.slots.named {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
