// File: graphml.go
// Role: GraphML export of a graph's current state for external viewers.

package snapshot

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type gmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type gmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type gmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []gmlData `xml:"data"`
}

type gmlEdge struct {
	ID     string    `xml:"id,attr"`
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []gmlData `xml:"data"`
}

type gmlGraph struct {
	ID          string    `xml:"id,attr,omitempty"`
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []gmlNode `xml:"node"`
	Edges       []gmlEdge `xml:"edge"`
}

type gmlDoc struct {
	XMLName xml.Name `xml:"graphml"`
	XMLNS   string   `xml:"xmlns,attr"`
	Keys    []gmlKey `xml:"key"`
	Graph   gmlGraph `xml:"graph"`
}

// firstDayKeys names the per-status first-day attributes, e.g. "H_1stday".
var firstDayKeys = [core.StatusCount]string{"S_1stday", "E_1stday", "I_1stday", "A_1stday", "H_1stday", "R_1stday"}

// WriteGraphML writes g as an undirected GraphML document. Nodes carry
// status, first days of entered statuses, infections caused and the commuter
// flag; edges carry their weight.
func WriteGraphML(w io.Writer, g *core.Graph) error {
	doc := gmlDoc{
		XMLNS: graphMLNamespace,
		Keys: []gmlKey{
			{ID: "status", For: "node", Name: "status", Type: "string"},
			{ID: "infections", For: "node", Name: "Infe_other", Type: "int"},
			{ID: "commuter", For: "node", Name: "Com", Type: "boolean"},
			{ID: "weight", For: "edge", Name: "weight", Type: "long"},
		},
		Graph: gmlGraph{ID: g.Name(), EdgeDefault: "undirected"},
	}
	for _, name := range firstDayKeys {
		doc.Keys = append(doc.Keys, gmlKey{ID: name, For: "node", Name: name, Type: "int"})
	}

	nodes := g.InternalNodes()
	doc.Graph.Nodes = make([]gmlNode, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		data := []gmlData{
			{Key: "status", Value: n.Status.String()},
			{Key: "infections", Value: strconv.Itoa(n.InfectionsCaused)},
			{Key: "commuter", Value: strconv.FormatBool(n.Commuter)},
		}
		for st := core.Status(0); st < core.StatusCount; st++ {
			if n.Entered.Has(st) {
				data = append(data, gmlData{Key: firstDayKeys[st], Value: strconv.Itoa(n.FirstDay[st])})
			}
		}
		doc.Graph.Nodes[i] = gmlNode{ID: strconv.Itoa(n.ID), Data: data}
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gmlEdge{
			ID:     "e" + strconv.Itoa(e.ID),
			Source: strconv.Itoa(e.From),
			Target: strconv.Itoa(e.To),
			Data:   []gmlData{{Key: "weight", Value: strconv.FormatInt(e.Weight, 10)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("WriteGraphML: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("WriteGraphML: %w", err)
	}
	return enc.Flush()
}
