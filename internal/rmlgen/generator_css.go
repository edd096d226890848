package rmlgen

// renderStylesheet is the pass-through hook for the stylesheet artifact.
// Utility class generation is not part of the pipeline yet, so every
// document compiles to an empty stylesheet. The traversal-ordered class
// list is computed anyway so a real generator can slot in without
// changing the traversal contract.
func renderStylesheet(classes []string) string {
	_ = classes
	return ""
}

// collectClasses gathers the class names used across the element tree in
// traversal order, first occurrence wins.
func collectClasses(order []*Element) []string {
	var classes []string
	seen := make(map[string]bool)
	for _, el := range order {
		for _, name := range el.Classes {
			if !seen[name] {
				seen[name] = true
				classes = append(classes, name)
			}
		}
	}
	return classes
}
