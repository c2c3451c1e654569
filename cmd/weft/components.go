package main

import (
	"fmt"

	"github.com/vango-dev/weft/internal/tree"
	"github.com/vango-dev/weft/pkg/weft"
)

// demoDocument is rendered when no document is given.
const demoDocument = `
tag: main
props:
  id: app
children:
  - tag: h1
    children: [weft]
  - component: Counter
    props:
      id: clicks
      start: 0
  - component: List
    props:
      count: 3
`

// components are the components documents can reference by name.
var components = tree.Registry{
	"Counter": counter,
	"List":    list,
}

// counter renders a value with increment and reset buttons.
var counter = weft.Func("Counter", func(c *weft.Ctx, p weft.Props) *weft.Element {
	id := stringProp(p, "id", "counter")
	start := intProp(p, "start", 0)
	n, set := weft.UseState(c, start)

	return weft.CreateElement("div", weft.Props{"className": "counter"},
		weft.CreateElement("span", weft.Props{"id": id + "-value"}, n),
		weft.CreateElement("button", weft.Props{
			"id":      id,
			"onClick": func() { set.Update(func(v int) int { return v + 1 }) },
		}, "+1"),
		weft.CreateElement("button", weft.Props{
			"id":      id + "-reset",
			"onClick": func() { set.Set(start) },
		}, "reset"),
	)
})

// list renders count numbered items.
var list = weft.Func("List", func(c *weft.Ctx, p weft.Props) *weft.Element {
	count := intProp(p, "count", 0)
	items := make([]*weft.Element, count)
	for i := range items {
		items[i] = weft.CreateElement("li", nil, fmt.Sprintf("item %d", i+1))
	}
	return weft.CreateElement("ul", nil, items, p.Children())
})

func intProp(p weft.Props, key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func stringProp(p weft.Props, key, def string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return def
}
