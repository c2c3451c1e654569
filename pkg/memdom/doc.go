// Package memdom is an in-memory host tree for weft.
//
// A Document creates Nodes and implements weft.Host (plus weft.Inserter), so
// an engine can render into it exactly as it would into a real DOM. Nodes
// serialize to HTML, can be queried by tag or id, and dispatch events to the
// listeners the engine registered:
//
//	doc := memdom.NewDocument()
//	container := doc.CreateElement("div")
//	engine := weft.NewEngine(doc, sched.NewManual(0))
//	root := engine.CreateRoot(container)
//	...
//	container.QueryAll("button")[0].Click()
//	fmt.Println(container.InnerHTML())
//
// Property mapping follows the DOM: "className" is written as the "class"
// attribute, "nodeValue" sets a text node's content, true booleans render as
// bare attributes and false booleans remove them.
//
// memdom is not safe for concurrent use; it is driven from the engine's
// execution context.
package memdom
