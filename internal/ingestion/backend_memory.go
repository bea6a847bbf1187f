package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
)

// MemoryNode is one entity held by MemoryBackend.
type MemoryNode struct {
	ID    string
	Label string
	Key   string
	Props map[string]any
}

type MemoryEdge struct {
	Type string
	From string
	To   string
}

// MemoryBackend keeps the graph in process. It follows the same entity and
// relationship policy as GraphBackend and backs dry runs.
type MemoryBackend struct {
	mu    sync.Mutex
	nodes map[string]*MemoryNode // label + "\x00" + key
	byID  map[string]*MemoryNode
	edges []MemoryEdge
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nodes: map[string]*MemoryNode{},
		byID:  map[string]*MemoryNode{},
	}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = map[string]*MemoryNode{}
	m.byID = map[string]*MemoryNode{}
	m.edges = nil
	return nil
}

func (m *MemoryBackend) UpsertRecipe(_ context.Context, rec types.RawRecipe) (RecipeRef, error) {
	if rec.Source == "" {
		return RecipeRef{}, ErrMissingSource
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var name any
	if rec.Title != "" {
		name = rec.Title
	}
	r, created := m.mergeLocked(types.LabelRecipe, rec.Source, map[string]any{
		"name":       name,
		"directions": append([]string(nil), rec.Directions...),
	})
	if rec.Author != "" {
		a, _ := m.mergeLocked(types.LabelAuthor, rec.Author, nil)
		m.edges = append(m.edges, MemoryEdge{Type: types.RelHasAuthor, From: r.ID, To: a.ID})
	}
	if root := RootDomain(rec.Source); root != "" {
		w, _ := m.mergeLocked(types.LabelWebpage, root, nil)
		m.edges = append(m.edges, MemoryEdge{Type: types.RelHasSource, From: r.ID, To: w.ID})
	}
	return RecipeRef{ID: r.ID, Source: rec.Source, Created: created}, nil
}

func (m *MemoryBackend) LinkIngredient(_ context.Context, ref RecipeRef, link IngredientLink) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ref.ID]; !ok {
		return false, fmt.Errorf("recipe %s not found", ref.ID)
	}
	props := map[string]any{
		"externalId":   link.Concept.ExternalID,
		"containsMeat": link.ContainsMeat,
	}
	if link.Concept.Description != nil {
		props["description"] = *link.Concept.Description
	}
	i, created := m.mergeLocked(types.LabelIngredient, link.Concept.Label, props)
	m.edges = append(m.edges, MemoryEdge{Type: types.RelHasIngredient, From: ref.ID, To: i.ID})
	return created, nil
}

func (m *MemoryBackend) LinkCuisine(_ context.Context, ref RecipeRef, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ref.ID]; !ok {
		return false, fmt.Errorf("recipe %s not found", ref.ID)
	}
	c, created := m.mergeLocked(types.LabelCuisine, name, nil)
	m.edges = append(m.edges, MemoryEdge{Type: types.RelHasAssociatedCuisine, From: ref.ID, To: c.ID})
	return created, nil
}

// mergeLocked returns the node for label/key, creating it with props when
// absent. Existing nodes are left untouched.
func (m *MemoryBackend) mergeLocked(label, key string, props map[string]any) (*MemoryNode, bool) {
	k := label + "\x00" + key
	if n, ok := m.nodes[k]; ok {
		return n, false
	}
	n := &MemoryNode{ID: uuid.NewString(), Label: label, Key: key, Props: props}
	m.nodes[k] = n
	m.byID[n.ID] = n
	return n, true
}

// Node looks up an entity by label and key.
func (m *MemoryBackend) Node(label, key string) (MemoryNode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[label+"\x00"+key]
	if !ok {
		return MemoryNode{}, false
	}
	return *n, true
}

// CountNodes returns the number of entities with label.
func (m *MemoryBackend) CountNodes(label string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, node := range m.nodes {
		if node.Label == label {
			n++
		}
	}
	return n
}

// EdgeTargets lists the keys at the end of every rel edge leaving the recipe
// for source, in insertion order and with duplicates.
func (m *MemoryBackend) EdgeTargets(source, rel string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.nodes[types.LabelRecipe+"\x00"+source]
	if !ok {
		return nil
	}
	var out []string
	for _, e := range m.edges {
		if e.From == r.ID && e.Type == rel {
			out = append(out, m.byID[e.To].Key)
		}
	}
	return out
}
