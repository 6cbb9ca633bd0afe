package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractSymbol is the best-effort heuristic of spec.md §4.1 step 5: look
// for a field named "name", then the first identifier-ish child, then
// descend one level into a declarator. Absence of a symbol is not an error.
func extractSymbol(node *sitter.Node, src []byte) []string {
	if node == nil {
		return nil
	}

	if name := fieldOrIdentifierChild(node, src); name != "" {
		return []string{name}
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		if strings.Contains(child.Kind(), "declarator") {
			if name := fieldOrIdentifierChild(child, src); name != "" {
				return []string{name}
			}
		}
	}

	return nil
}

func fieldOrIdentifierChild(node *sitter.Node, src []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return string(src[name.StartByte():name.EndByte()])
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		kind := child.Kind()
		if kind == "identifier" || kind == "type_identifier" || strings.HasSuffix(kind, "_identifier") {
			return string(src[child.StartByte():child.EndByte()])
		}
	}
	return ""
}
