package render

import (
	"gorcr/domain/causal"
	"gorcr/domain/expression"
	"gorcr/domain/inference"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// View selects which network is drawn
type View string

const (
	ViewPathway    View = "pathway"
	ViewHypothesis View = "hypothesis"
	ViewFull       View = "full"
)

// ParseView accepts pathway, hypothesis or full
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case ViewPathway, ViewHypothesis, ViewFull:
		return v, true
	}
	return "", false
}

type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute { return a }

func attrs(kv ...string) attributes {
	out := make(attributes, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, encoding.Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

type geneNode struct {
	id    int64
	name  string
	attrs attributes
}

func (n geneNode) ID() int64                        { return n.id }
func (n geneNode) DOTID() string                    { return n.name }
func (n geneNode) Attributes() []encoding.Attribute { return n.attrs }

type edgeLine struct {
	from, to geneNode
	uid      int64
	attrs    attributes
}

func (l edgeLine) From() graph.Node                 { return l.from }
func (l edgeLine) To() graph.Node                   { return l.to }
func (l edgeLine) ID() int64                        { return l.uid }
func (l edgeLine) Attributes() []encoding.Attribute { return l.attrs }
func (l edgeLine) ReversedLine() graph.Line {
	return edgeLine{from: l.to, to: l.from, uid: l.uid, attrs: l.attrs}
}

// dotGraph carries graph-wide attributes for the encoder
type dotGraph struct {
	*multi.DirectedGraph
	graphAttrs, nodeAttrs, edgeAttrs attributes
}

func (g dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return g.graphAttrs, g.nodeAttrs, g.edgeAttrs
}

// builder assigns stable node IDs in insertion order
type builder struct {
	g     dotGraph
	nodes map[string]geneNode
	next  int64
}

func newBuilder(size string) *builder {
	return &builder{
		g: dotGraph{
			DirectedGraph: multi.NewDirectedGraph(),
			graphAttrs:    attrs("size", size, "overlap", "false"),
			nodeAttrs:     attrs("style", "filled", "fontname", "Helvetica"),
			edgeAttrs:     attrs("arrowsize", "0.8"),
		},
		nodes: make(map[string]geneNode),
	}
}

func (b *builder) node(name string, kv ...string) geneNode {
	if n, ok := b.nodes[name]; ok {
		return n
	}
	n := geneNode{id: int64(len(b.nodes)), name: name, attrs: attrs(kv...)}
	b.nodes[name] = n
	b.g.AddNode(n)
	return n
}

func (b *builder) edge(from, to string, kv ...string) {
	l := edgeLine{from: b.nodes[from], to: b.nodes[to], uid: b.next, attrs: attrs(kv...)}
	b.next++
	b.g.SetLine(l)
}

func (b *builder) marshal(name string) ([]byte, error) {
	return dot.MarshalMulti(b.g, name, "", "  ")
}

// PathwayDOT draws the resolved pathway with relation labels
func PathwayDOT(g *causal.Graph) ([]byte, error) {
	b := newBuilder("10,10")
	for _, gene := range g.Genes() {
		b.node(gene, "fillcolor", "orange")
	}
	for _, e := range g.Edges() {
		b.edge(e.Source, e.Target, "color", "grey", "label", e.Relation.String())
	}
	return b.marshal("pathway")
}

// HypothesisDOT draws one regulator and its downstream genes coloured by state change
func HypothesisDOT(res *inference.Result, gene string) ([]byte, error) {
	net, err := res.Network(gene)
	if err != nil {
		return nil, err
	}

	b := newBuilder("10,10")
	b.node(gene, "fillcolor", "orange")
	for _, p := range net.Predictions {
		b.node(p.Target, "fillcolor", stateColor(p.State))
	}
	for _, p := range net.Predictions {
		color, width := "lightgrey", "1"
		if p.Classification != inference.Unclassified {
			width = "5"
			switch {
			case p.Classification == inference.Correct && p.Relation == causal.Inhibition:
				color = "green"
			case p.Classification == inference.Correct && p.Relation == causal.Activation:
				color = "red"
			default:
				color = "black"
			}
		}
		b.edge(gene, p.Target, "color", color, "penwidth", width)
	}
	return b.marshal(gene)
}

// FullNetworkDOT draws every hypothesis network with regulators coloured by
// weight sign and correct predictions highlighted
func FullNetworkDOT(res *inference.Result) ([]byte, error) {
	b := newBuilder("20,20")
	weights := res.WeightTable()
	for _, gene := range res.Genes() {
		b.node(gene, "fillcolor", weightColor(weights[gene]))
	}
	for _, gene := range res.Genes() {
		net, err := res.Network(gene)
		if err != nil {
			return nil, err
		}
		for _, p := range net.Predictions {
			color, width := "lightgrey", "1"
			if p.Classification == inference.Correct {
				switch p.Relation {
				case causal.Inhibition:
					color, width = "darkgreen", "5"
				case causal.Activation:
					color, width = "darkred", "5"
				}
			}
			b.edge(gene, p.Target, "color", color, "penwidth", width)
		}
	}
	return b.marshal("network")
}

func stateColor(s expression.StateChange) string {
	switch s {
	case expression.Increase:
		return "darkred"
	case expression.Decrease:
		return "darkgreen"
	default:
		return "lightgrey"
	}
}

func weightColor(w int) string {
	switch {
	case w > 0:
		return "yellow"
	case w < 0:
		return "lightblue"
	default:
		return "lightgrey"
	}
}
