// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prosemirror flattens ProseMirror rich-text documents, as stored in
// the Granola cache, into plain text. The conversion is lossy: marks,
// links, and list markers are dropped and only block boundaries survive as
// line breaks.
package prosemirror

import "strings"

// Kind discriminates the variants of a Node.
type Kind int

const (
	// KindEmpty is a node with neither text nor children, or a malformed node.
	KindEmpty Kind = iota
	// KindLeaf is a text node.
	KindLeaf
	// KindContainer is a node with an ordered list of children.
	KindContainer
)

// blockTypes are node types whose children are separated by newlines.
// Every other container joins its children with a single space.
var blockTypes = map[string]bool{
	"paragraph": true,
	"heading":   true,
}

// Node is one node of a rich-text tree. Exactly one of Text (KindLeaf) or
// Children (KindContainer) is meaningful.
type Node struct {
	Kind     Kind
	Type     string
	Text     string
	Children []Node
}

// Leaf returns a text node.
func Leaf(text string) Node {
	return Node{Kind: KindLeaf, Text: text}
}

// Container returns a node of the given type holding children.
func Container(nodeType string, children ...Node) Node {
	return Node{Kind: KindContainer, Type: nodeType, Children: children}
}

// Parse converts a decoded JSON value into a Node. A "text" key makes the
// node a leaf even when the value is empty or not a string; a "content"
// array makes it a container. Anything else is KindEmpty.
func Parse(v any) Node {
	obj, ok := v.(map[string]any)
	if !ok {
		return Node{}
	}
	nodeType, _ := obj["type"].(string)

	if raw, ok := obj["text"]; ok {
		text, _ := raw.(string)
		return Node{Kind: KindLeaf, Type: nodeType, Text: text}
	}

	items, ok := obj["content"].([]any)
	if !ok {
		return Node{Type: nodeType}
	}
	children := make([]Node, 0, len(items))
	for _, item := range items {
		children = append(children, Parse(item))
	}
	return Node{Kind: KindContainer, Type: nodeType, Children: children}
}

// Flatten returns the plain text of the subtree rooted at n.
func (n Node) Flatten() string {
	switch n.Kind {
	case KindLeaf:
		return n.Text
	case KindContainer:
		parts := make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if text := child.Flatten(); text != "" {
				parts = append(parts, text)
			}
		}
		if blockTypes[n.Type] {
			return strings.Join(parts, "\n")
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Document is the top level of a rich-text tree.
type Document struct {
	Blocks []Node
}

// ParseDocument converts a decoded JSON document into a Document. Only the
// document's "content" array is read; a missing or malformed document
// yields an empty Document.
func ParseDocument(v any) Document {
	obj, ok := v.(map[string]any)
	if !ok {
		return Document{}
	}
	items, ok := obj["content"].([]any)
	if !ok {
		return Document{}
	}
	blocks := make([]Node, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, Parse(item))
	}
	return Document{Blocks: blocks}
}

// Text returns the plain text of the document, with top-level blocks
// separated by a blank line.
func (d Document) Text() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, block := range d.Blocks {
		if text := block.Flatten(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Text flattens a decoded JSON document to plain text. It never fails;
// absent or malformed input yields "".
func Text(doc any) string {
	return ParseDocument(doc).Text()
}
