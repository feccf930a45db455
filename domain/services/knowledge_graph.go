package services

import (
	"strings"

	"booklog-backend/domain/core/entities"
)

// NodeKind is the entity a graph node stands for
type NodeKind string

const (
	NodeKindRoot    NodeKind = "root"
	NodeKindBook    NodeKind = "book"
	NodeKindAuthor  NodeKind = "author"
	NodeKindKeyword NodeKind = "keyword"
)

const (
	RootNodeID    = "Root"
	RootNodeLabel = "지식 창고"

	authorIDPrefix  = "author-"
	keywordIDPrefix = "keyword-"

	// DefaultKeywordsPerBook caps keyword nodes taken from one book
	DefaultKeywordsPerBook = 5
)

// GraphNode is one vertex of the knowledge graph
type GraphNode struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`
}

// GraphEdge joins two node ids. Direction only records how it was derived.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// KnowledgeGraph is the node/edge model of a set of books
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphStats counts nodes per kind
type GraphStats struct {
	Books    int `json:"books"`
	Authors  int `json:"authors"`
	Keywords int `json:"keywords"`
	Edges    int `json:"edges"`
}

// Stats counts the graph's nodes per kind
func (g *KnowledgeGraph) Stats() GraphStats {
	s := GraphStats{Edges: len(g.Edges)}
	for _, n := range g.Nodes {
		switch n.Kind {
		case NodeKindBook:
			s.Books++
		case NodeKindAuthor:
			s.Authors++
		case NodeKindKeyword:
			s.Keywords++
		}
	}
	return s
}

// Node looks a node up by id
func (g *KnowledgeGraph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// GraphBuilder turns book records into a KnowledgeGraph. It is pure: the same books and
// stop words always give the same graph.
type GraphBuilder struct {
	filter          *KeywordFilter
	keywordsPerBook int
}

// NewGraphBuilder creates a builder. keywordsPerBook <= 0 selects DefaultKeywordsPerBook.
func NewGraphBuilder(filter *KeywordFilter, keywordsPerBook int) *GraphBuilder {
	if filter == nil {
		filter = NewKeywordFilter()
	}
	if keywordsPerBook <= 0 {
		keywordsPerBook = DefaultKeywordsPerBook
	}
	return &GraphBuilder{filter: filter, keywordsPerBook: keywordsPerBook}
}

// PrimaryAuthor returns the first name of a delimited author field, trimmed
func PrimaryAuthor(author string) string {
	first := author
	if i := strings.IndexAny(author, ",|/"); i >= 0 {
		first = author[:i]
	}
	return strings.TrimSpace(first)
}

// AuthorNodeID is the node id of a canonical author name
func AuthorNodeID(name string) string {
	return authorIDPrefix + name
}

// KeywordNodeID is the node id of a normalized keyword
func KeywordNodeID(key string) string {
	return keywordIDPrefix + key
}

// Build creates the graph for books in input order
func (b *GraphBuilder) Build(books []entities.BookRecord) *KnowledgeGraph {
	g := &KnowledgeGraph{
		Nodes: make([]GraphNode, 0, 1+len(books)*3),
		Edges: make([]GraphEdge, 0, len(books)*3),
	}
	present := make(map[string]bool, cap(g.Nodes))

	addNode := func(n GraphNode) {
		if present[n.ID] {
			return
		}
		present[n.ID] = true
		g.Nodes = append(g.Nodes, n)
	}

	addNode(GraphNode{ID: RootNodeID, Kind: NodeKindRoot, Label: RootNodeLabel})

	for _, book := range books {
		addNode(GraphNode{ID: book.ID, Kind: NodeKindBook, Label: book.Title})
		g.Edges = append(g.Edges, GraphEdge{Source: RootNodeID, Target: book.ID})

		if author := PrimaryAuthor(book.Author); author != "" {
			id := AuthorNodeID(author)
			addNode(GraphNode{ID: id, Kind: NodeKindAuthor, Label: author})
			g.Edges = append(g.Edges, GraphEdge{Source: book.ID, Target: id})
		}

		for _, kw := range b.filter.Filter(book.Keywords, b.keywordsPerBook) {
			id := KeywordNodeID(kw.Key)
			addNode(GraphNode{ID: id, Kind: NodeKindKeyword, Label: kw.Label})
			g.Edges = append(g.Edges, GraphEdge{Source: book.ID, Target: id})
		}
	}

	return g
}
