/*
Package dsl provides a fluent Go builder for abstract trees.

It is an alternative to tree documents in YAML or JSON when the tree is produced by
code: handlers are bound directly, and the compiler checks the shape.

Example usage:

	save := domain.On("save", func(e domain.Event) { ... })

	tree := dsl.El("form").Class("editor").
		Child(
			dsl.El("input").Attr("name", "title").AutoFocus(),
			dsl.El("button").On(domain.EventClick, save).Text("Save"),
		).
		Build()

	err := renderer.Render(ctx, tree, root, nil)
*/
package dsl
