package index

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ppiankov/provenance/internal/model"
)

// dimensionProbe is embedded when a namespace is created with no
// chunks, so the collection still exists and queries can report
// EmptyCorpusError instead of a missing-collection engine error
const dimensionProbe = "namespace dimension probe"

// Store is a Qdrant-backed passage index. Each namespace maps to one
// collection; point ids equal chunk sequence positions.
type Store struct {
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	embedder    Embedder
}

// Connect dials the Qdrant gRPC endpoint
func Connect(host string, port int) (*grpc.ClientConn, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to Qdrant at %s: %w", addr, err)
	}
	return conn, nil
}

// NewStore creates a passage index over an established Qdrant connection
func NewStore(conn grpc.ClientConnInterface, embedder Embedder) *Store {
	return &Store{
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		embedder:    embedder,
	}
}

// Load creates or reuses the namespace and (re)populates it with the
// given chunks. Point ids equal chunk sequence positions, so reloading
// the same corpus overwrites in place.
func (s *Store) Load(ctx context.Context, namespace string, chunks []model.Chunk) error {
	probe := dimensionProbe
	if len(chunks) > 0 {
		probe = chunks[0].Text
	}
	first, err := s.embedder.Embed(ctx, probe)
	if err != nil {
		return fmt.Errorf("embed chunk: %w", err)
	}

	if err := s.ensureCollection(ctx, namespace, len(first)); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		vector := first
		if i > 0 {
			vector, err = s.embedder.Embed(ctx, chunk.Text)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", chunk.Seq, err)
			}
		}

		points = append(points, &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Num{Num: uint64(chunk.Seq)},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vector},
				},
			},
			Payload: map[string]*qdrant.Value{
				"text": {Kind: &qdrant.Value_StringValue{StringValue: chunk.Text}},
				"seq":  {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(chunk.Seq)}},
			},
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: namespace,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Query returns the text of up to k chunks most similar to the given
// text, most similar first
func (s *Store) Query(ctx context.Context, namespace, text string, k int) ([]string, error) {
	count, err := s.points.Count(ctx, &qdrant.CountPoints{CollectionName: namespace})
	if err != nil {
		return nil, fmt.Errorf("count points in %s: %w", namespace, err)
	}
	if count.GetResult().GetCount() == 0 {
		return nil, &EmptyCorpusError{Namespace: namespace}
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: namespace,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Include{
				Include: &qdrant.PayloadIncludeSelector{Fields: []string{"text"}},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", namespace, err)
	}

	texts := make([]string, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		if val, ok := point.GetPayload()["text"]; ok {
			texts = append(texts, val.GetStringValue())
		}
	}
	return texts, nil
}

// ensureCollection creates the namespace collection if it does not exist
func (s *Store) ensureCollection(ctx context.Context, name string, dimension int) error {
	list, err := s.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, col := range list.GetCollections() {
		if col.GetName() == name {
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}
