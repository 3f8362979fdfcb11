// Package model defines the TRAPI wire-format data shapes this service
// reads and writes: query graphs, knowledge graphs, auxiliary graphs,
// results, and attributes.
package model

// QueryGraph is the "query_graph" member of a TRAPI Request/Response Message.
type QueryGraph struct {
	Nodes map[string]*QueryNode `json:"nodes"`
	Edges map[string]*QueryEdge `json:"edges"`
}

// QueryNode is a single node in a query graph. A node with IsSet true, a
// SetInterpretation of MANY or ALL, exactly one id carrying a
// case-insensitive "UUID:" prefix, and non-empty MemberIDs is the MCQ
// subject node (see query.IsMCQSubject).
type QueryNode struct {
	IDs               []string             `json:"ids,omitempty"`
	Categories        []string             `json:"categories,omitempty"`
	IsSet             bool                 `json:"is_set,omitempty"`
	SetInterpretation string               `json:"set_interpretation,omitempty"`
	MemberIDs         []string             `json:"member_ids,omitempty"`
	Constraints       []AttributeConstraint `json:"constraints,omitempty"`
}

// QueryEdge is a single edge in a query graph.
type QueryEdge struct {
	Subject              string                `json:"subject"`
	Object               string                `json:"object"`
	Predicates           []string              `json:"predicates,omitempty"`
	AttributeConstraints []AttributeConstraint `json:"attribute_constraints,omitempty"`
}

// AttributeConstraint is a TRAPI attribute constraint attached to a query
// node or query edge, evaluated by the Attribute Engine.
type AttributeConstraint struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
	Negated  bool   `json:"negated,omitempty"`
}

// KGNode is a node in the assembled knowledge_graph.
type KGNode struct {
	Name        string      `json:"name,omitempty"`
	Categories  []string    `json:"categories"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	IsSet       bool        `json:"is_set,omitempty"`
	Members     []string    `json:"members,omitempty"`
	ProvidedBy  []string    `json:"provided_by,omitempty"`
}

// KGEdge is an edge in the assembled knowledge_graph.
type KGEdge struct {
	Subject   string        `json:"subject"`
	Predicate string        `json:"predicate"`
	Object    string        `json:"object"`
	Sources   []SourceEntry `json:"sources"`
	Attributes []Attribute  `json:"attributes,omitempty"`
}

// SourceEntry is one node of an edge's provenance "sources" tree.
type SourceEntry struct {
	ResourceID          string   `json:"resource_id"`
	ResourceRole        string   `json:"resource_role"`
	UpstreamResourceIDs []string `json:"upstream_resource_ids,omitempty"`
	SourceRecordURLs    []string `json:"source_record_urls,omitempty"`
}

// Attribute is a TRAPI attribute attached to a node, edge, or qualifier.
type Attribute struct {
	AttributeTypeID      string      `json:"attribute_type_id"`
	OriginalAttributeName string     `json:"original_attribute_name,omitempty"`
	Value                any         `json:"value"`
	ValueTypeID          string      `json:"value_type_id,omitempty"`
	AttributeSource      string      `json:"attribute_source,omitempty"`
}

// AuxGraph is a named auxiliary support graph, referenced from an edge's
// "biolink:support_graphs" attribute.
type AuxGraph struct {
	Edges []string `json:"edges"`
}

// KnowledgeGraph holds the assembled nodes and edges.
type KnowledgeGraph struct {
	Nodes map[string]*KGNode `json:"nodes"`
	Edges map[string]*KGEdge `json:"edges"`
}

// Binding is a single node or edge binding entry ("id" pointer into the kg).
type Binding struct {
	ID string `json:"id"`
}

// Analysis groups edge bindings under the resource that produced them.
type Analysis struct {
	ResourceID    string               `json:"resource_id"`
	EdgeBindings  map[string][]Binding `json:"edge_bindings"`
}

// Result is one "results" list entry: a node-binding set plus its analyses.
type Result struct {
	NodeBindings map[string][]Binding `json:"node_bindings"`
	Analyses     []Analysis           `json:"analyses"`
}

// Message is the TRAPI Message envelope: query graph in, knowledge graph
// and results out.
type Message struct {
	QueryGraph      *QueryGraph          `json:"query_graph"`
	KnowledgeGraph  *KnowledgeGraph      `json:"knowledge_graph,omitempty"`
	AuxiliaryGraphs map[string]*AuxGraph `json:"auxiliary_graphs,omitempty"`
	Results         []Result             `json:"results,omitempty"`
}

// Workflow is a single workflow step, e.g. {"id": "lookup"}.
type Workflow struct {
	ID               string `json:"id"`
	Parameters       any    `json:"parameters,omitempty"`
	RunnerParameters any    `json:"runner_parameters,omitempty"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Message  Message    `json:"message"`
	Limit    any        `json:"limit,omitempty"`
	Workflow []Workflow `json:"workflow,omitempty"`
}

// QueryResponse is the body returned from POST /query. The /query handler
// never sets Description: its failures are written as the api package's
// {"error": {...}} envelope, not as a QueryResponse.
type QueryResponse struct {
	Message     Message    `json:"message"`
	Workflow    []Workflow `json:"workflow,omitempty"`
	Description string     `json:"description,omitempty"`
}

// SimilarityRecord is one parsed SemSimian match: the matched subject term
// plus the per-input-term pairwise matches that produced it.
type SimilarityRecord struct {
	SubjectID  string
	Name       string
	Category   string
	Score      float64
	ProvidedBy string
	Matches    []TermMatch
}

// TermMatch is one pairwise similarity assertion between an input query
// term and a term associated with a matched SimilarityRecord.
type TermMatch struct {
	SubjectID   string
	SubjectName string
	ObjectID    string
	ObjectName  string
	Category    string
	Score       float64
	MatchedTerm string
}

// MCQSubjectNode captures the interpreted MCQ subject query node: the
// synthetic set identifier, its member CURIEs, and how the set should be
// matched (MANY or ALL).
type MCQSubjectNode struct {
	QNodeKey          string
	SetIdentifier     string
	SetInterpretation string
	MemberIDs         []string
	Category          string
}
