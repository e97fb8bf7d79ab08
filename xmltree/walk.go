package xmltree

// Path is the chain of ancestors of a node, outermost first. The last
// element is the node's parent.
type Path []*Node

// Parent returns the immediate parent, or nil for an empty path.
func (p Path) Parent() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Match is a node found by Select together with the ancestors it had when
// it was found.
type Match struct {
	Node *Node
	Path Path
}

// Walk visits n and its descendants in document order. fn receives each node
// and its ancestors; the Path slice is reused between calls and must be
// copied to be retained. Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n *Node, path Path) bool) {
	var path Path
	walk(n, &path, fn)
}

func walk(n *Node, path *Path, fn func(*Node, Path) bool) {
	if !fn(n, *path) {
		return
	}
	if len(n.Children) == 0 {
		return
	}
	*path = append(*path, n)
	// Iterate over a snapshot so fn may detach children of n.
	children := append([]*Node(nil), n.Children...)
	for _, c := range children {
		walk(c, path, fn)
	}
	*path = (*path)[:len(*path)-1]
}

// Select returns every element under root (root included) for which pred
// returns true, in document order.
func Select(root *Node, pred func(*Node) bool) []Match {
	var out []Match
	Walk(root, func(n *Node, path Path) bool {
		if n.Type == ElementNode && pred(n) {
			out = append(out, Match{Node: n, Path: append(Path(nil), path...)})
		}
		return true
	})
	return out
}

// SelectLocal returns every element whose local name is one of names.
func SelectLocal(root *Node, names ...string) []Match {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return Select(root, func(n *Node) bool { return set[n.Name.Local] })
}

// Contains reports whether any element under root has the given local name.
func Contains(root *Node, local string) bool {
	found := false
	Walk(root, func(n *Node, _ Path) bool {
		if found {
			return false
		}
		if n.IsElement(local) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Ancestor walks upward from m.Node and returns the nearest ancestor with
// the given local name. The walk follows only links that are still live:
// if an ancestor no longer holds the child it held when m was selected, the
// chain is broken there and nil is returned.
func (m Match) Ancestor(local string) *Node {
	child := m.Node
	for i := len(m.Path) - 1; i >= 0; i-- {
		parent := m.Path[i]
		if !parent.HasChild(child) {
			return nil
		}
		if parent.IsElement(local) {
			return parent
		}
		child = parent
	}
	return nil
}

// Detach removes m.Node from its recorded parent. It reports whether the
// node was still attached.
func (m Match) Detach() bool {
	parent := m.Path.Parent()
	if parent == nil {
		return false
	}
	return parent.RemoveChild(m.Node)
}

// LookupNamespace returns the namespace URI bound to prefix at n, searching
// n's own declarations first and then its ancestors in path. An empty prefix
// looks up the default namespace. It returns "" if prefix is unbound.
func LookupNamespace(n *Node, path Path, prefix string) string {
	if uri, ok := nsDeclaration(n, prefix); ok {
		return uri
	}
	for i := len(path) - 1; i >= 0; i-- {
		if uri, ok := nsDeclaration(path[i], prefix); ok {
			return uri
		}
	}
	return ""
}

func nsDeclaration(n *Node, prefix string) (string, bool) {
	if prefix == "" {
		return n.AttrValue("", "xmlns")
	}
	return n.AttrValue("xmlns", prefix)
}
