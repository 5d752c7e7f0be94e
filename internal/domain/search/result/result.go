package result

import "encoding/json"

// Hit is one retrieved document identity and its relevance score.
type Hit struct {
	id    uint64
	score float64
}

// NewHit creates a hit.
func NewHit(id uint64, score float64) Hit {
	return Hit{id: id, score: score}
}

// ID returns the document identity.
func (h Hit) ID() uint64 { return h.id }

// Score returns the relevance score.
func (h Hit) Score() float64 { return h.score }

// AboveScore keeps the hits whose score is at least minScore.
func AboveScore(hits []Hit, minScore float64) []Hit {
	out := hits[:0:0]
	for _, h := range hits {
		if h.score >= minScore {
			out = append(out, h)
		}
	}
	return out
}

// Document is a materialized record: its identity and its JSON form in
// schema field order.
type Document struct {
	id   uint64
	body json.RawMessage
}

// NewDocument creates a Document.
func NewDocument(id uint64, body []byte) Document {
	return Document{id: id, body: body}
}

// ID returns the document identity.
func (d Document) ID() uint64 { return d.id }

// JSON returns the document as a JSON object.
func (d Document) JSON() json.RawMessage { return d.body }

// Bodies returns the JSON form of every document, in order.
func Bodies(docs []Document) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = d.body
	}
	return out
}
