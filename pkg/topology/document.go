package topology

import (
	"encoding/json"
)

// SocketDocument is the serialized form of a Socket without pool labels.
type SocketDocument struct {
	ID    int            `json:"id"`
	Cores []CoreDocument `json:"cores"`
}

// PooledSocketDocument is the serialized form of a Socket including each
// core's pool label.
type PooledSocketDocument struct {
	ID    int                  `json:"id"`
	Cores []PooledCoreDocument `json:"cores"`
}

// CoreDocument is the serialized form of a Core.
type CoreDocument struct {
	ID   int           `json:"id"`
	CPUs []CPUDocument `json:"cpus"`
}

// PooledCoreDocument is a CoreDocument plus the core's pool label, null
// when the core is unassigned.
type PooledCoreDocument struct {
	CoreDocument
	Pool *string `json:"pool"`
}

// CPUDocument is the serialized form of a CPU.
type CPUDocument struct {
	ID       int  `json:"id"`
	Isolated bool `json:"isolated"`
}

// Document returns the socket's serialized form without pool labels.
func (s *Socket) Document() SocketDocument {
	doc := SocketDocument{ID: s.ID, Cores: []CoreDocument{}}
	for _, core := range s.Cores() {
		doc.Cores = append(doc.Cores, coreDocument(core))
	}
	return doc
}

// PooledDocument returns the socket's serialized form with pool labels.
func (s *Socket) PooledDocument() PooledSocketDocument {
	doc := PooledSocketDocument{ID: s.ID, Cores: []PooledCoreDocument{}}
	for _, core := range s.Cores() {
		pooled := PooledCoreDocument{CoreDocument: coreDocument(core)}
		if core.Pool != "" {
			pool := core.Pool
			pooled.Pool = &pool
		}
		doc.Cores = append(doc.Cores, pooled)
	}
	return doc
}

func coreDocument(core *Core) CoreDocument {
	doc := CoreDocument{ID: core.ID, CPUs: []CPUDocument{}}
	for _, cpu := range core.CPUs() {
		doc.CPUs = append(doc.CPUs, CPUDocument{ID: cpu.ID, Isolated: cpu.Isolated})
	}
	return doc
}

// JSON renders the socket as an indented JSON document, with pool labels
// when includePool is set.
func (s *Socket) JSON(includePool bool) (string, error) {
	var doc any
	if includePool {
		doc = s.PooledDocument()
	} else {
		doc = s.Document()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
