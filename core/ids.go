package core

// LocalID is a dense, internal identifier for a document within the engine.
// It is strictly 32-bit, allowing for max 4 Billion documents.
// Used for all hot-path structures (candidate bitmaps, postings, heaps).
type LocalID uint32
