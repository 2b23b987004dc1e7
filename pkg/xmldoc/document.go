package xmldoc

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrParentNotFound is returned by CreateChild when the parent locator
// resolves to no node in the document.
var ErrParentNotFound = errors.New("xmldoc: parent node not found")

// ParseError reports an unparsable input document. It is fatal for the
// whole correction invocation; no partial processing is attempted.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse document: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a mutable XML tree. It is not safe for concurrent use;
// each correction invocation owns exactly one instance.
type Document struct {
	tree *etree.Document
}

// Node is a handle to a single element of a Document.
type Node struct {
	el *etree.Element
}

// Parse reads a serialized XML document into a mutable tree.
func Parse(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Err: err}
	}
	if tree.Root() == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	return &Document{tree: tree}, nil
}

// Find resolves a locator to the first structural match in document
// order, or (nil, nil) when the locator is valid but matches nothing.
// A malformed locator yields a *LocatorError.
func (d *Document) Find(locator string) (*Node, error) {
	segments, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}
	if el := d.firstMatch(segments); el != nil {
		return &Node{el: el}, nil
	}
	return nil, nil
}

// CreateChild appends a new leaf element labeled label with the given
// text as the last child of the node the parent locator resolves to.
// Creation is append-only; richer positioning hints in rule metadata
// are advisory and ignored.
func (d *Document) CreateChild(parentLocator, label, text string) (*Node, error) {
	segments, err := ParseLocator(parentLocator)
	if err != nil {
		return nil, err
	}
	parent := d.firstMatch(segments)
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentLocator)
	}
	child := parent.CreateElement(label)
	child.SetText(text)
	return &Node{el: child}, nil
}

// Render serializes the current tree state. It may be called repeatedly
// and always reflects every mutation made so far.
func (d *Document) Render() ([]byte, error) {
	return d.tree.WriteToBytes()
}

// firstMatch walks elements in document order and returns the first
// whose ancestor chain matches the locator segments: the leading
// segment may sit at any depth, subsequent segments must be direct
// children.
func (d *Document) firstMatch(segments []string) *etree.Element {
	var found *etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if found != nil {
			return
		}
		if matchesChain(el, segments) {
			found = el
			return
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(d.tree.Root())
	return found
}

// matchesChain reports whether el and its ancestors spell the locator
// segments bottom-up.
func matchesChain(el *etree.Element, segments []string) bool {
	current := el
	for i := len(segments) - 1; i >= 0; i-- {
		if current == nil || current.Tag != segments[i] {
			return false
		}
		current = current.Parent()
	}
	return true
}

// Label returns the element label of the node.
func (n *Node) Label() string { return n.el.Tag }

// Text returns the node's character data.
func (n *Node) Text() string { return n.el.Text() }

// SetText replaces the node's character data.
func (n *Node) SetText(text string) { n.el.SetText(text) }
