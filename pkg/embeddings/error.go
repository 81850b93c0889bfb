package embeddings

import "errors"

// ErrEmbedding is wrapped by every failure to produce an embedding, whether
// it happened in transport, decoding, or was reported by the service itself.
var ErrEmbedding = errors.New("embedding failed")
