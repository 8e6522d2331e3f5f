package frame

import (
	"fmt"
	"strings"
)

type Gradient struct {
	Name  string
	Stops []string
}

var Gradients = []Gradient{
	{Name: "sunset", Stops: []string{"#f97316", "#ec4899", "#8b5cf6"}},
	{Name: "ocean", Stops: []string{"#0ea5e9", "#2563eb"}},
	{Name: "forest", Stops: []string{"#22c55e", "#0f766e"}},
	{Name: "lavender", Stops: []string{"#c4b5fd", "#818cf8"}},
	{Name: "midnight", Stops: []string{"#1e293b", "#0f172a", "#020617"}},
	{Name: "peach", Stops: []string{"#fed7aa", "#fda4af"}},
	{Name: "aurora", Stops: []string{"#34d399", "#22d3ee", "#a78bfa"}},
	{Name: "slate", Stops: []string{"#94a3b8", "#475569"}},
}

func LookupGradient(name string) (Gradient, error) {
	v := strings.ToLower(strings.TrimSpace(name))
	for _, g := range Gradients {
		if g.Name == v {
			return g, nil
		}
	}
	return Gradients[0], fmt.Errorf("unknown gradient %q", name)
}

func NextGradient(name string) string {
	for i, g := range Gradients {
		if g.Name == name {
			return Gradients[(i+1)%len(Gradients)].Name
		}
	}
	return Gradients[0].Name
}
