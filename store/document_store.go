// Package store holds the in-memory state of the engine: registered
// documents and their computed label maps.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/gcbaptista/go-numeral-engine/model"
)

// DocumentStore maps document IDs to documents and to the label maps already
// computed for them. The zero value is not usable; call Init or decode from
// gob first.
type DocumentStore struct {
	Mu     sync.RWMutex
	Docs   map[string]model.Document
	Labels map[string]model.LabelMap
}

// Init ensures the internal maps exist.
func (ds *DocumentStore) Init() {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()
	if ds.Docs == nil {
		ds.Docs = make(map[string]model.Document)
	}
	if ds.Labels == nil {
		ds.Labels = make(map[string]model.LabelMap)
	}
}

// gobDocumentStoreData is a helper struct for gob encoding/decoding. It
// excludes the mutex.
type gobDocumentStoreData struct {
	Docs   map[string]model.Document
	Labels map[string]model.LabelMap
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	dataToEncode := gobDocumentStoreData{
		Docs:   ds.Docs,
		Labels: ds.Labels,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	ds.Labels = decodedData.Labels

	// Maps can come back nil from an empty file.
	if ds.Docs == nil {
		ds.Docs = make(map[string]model.Document)
	}
	if ds.Labels == nil {
		ds.Labels = make(map[string]model.LabelMap)
	}
	return nil
}
