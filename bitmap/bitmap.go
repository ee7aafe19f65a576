// Package bitmap wraps roaring bitmaps keyed by dense LocalIDs.
package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/graphgo/core"
)

// LocalBitmap implements a 32-bit Roaring Bitmap.
// It wraps the official roaring implementation.
// Used for candidate sets during queries and per-collection membership.
type LocalBitmap struct {
	rb *roaring.Bitmap
}

// NewLocalBitmap creates a new empty local bitmap.
func NewLocalBitmap() *LocalBitmap {
	return &LocalBitmap{
		rb: roaring.New(),
	}
}

// FromLocalIDs creates a bitmap containing the given ids.
func FromLocalIDs(ids []core.LocalID) *LocalBitmap {
	b := NewLocalBitmap()
	for _, id := range ids {
		b.rb.Add(uint32(id))
	}
	return b
}

// Add adds a LocalID to the bitmap.
func (b *LocalBitmap) Add(id core.LocalID) {
	b.rb.Add(uint32(id))
}

// Remove removes a LocalID from the bitmap.
func (b *LocalBitmap) Remove(id core.LocalID) {
	b.rb.Remove(uint32(id))
}

// Contains checks if a LocalID is in the bitmap.
func (b *LocalBitmap) Contains(id core.LocalID) bool {
	return b.rb.Contains(uint32(id))
}

// IsEmpty returns true if the bitmap is empty.
func (b *LocalBitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of elements in the bitmap.
func (b *LocalBitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Clone returns a deep copy of the bitmap.
func (b *LocalBitmap) Clone() *LocalBitmap {
	return &LocalBitmap{
		rb: b.rb.Clone(),
	}
}

// Iterator returns an iterator over the bitmap in ascending id order.
func (b *LocalBitmap) Iterator() iter.Seq[core.LocalID] {
	return func(yield func(core.LocalID) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(core.LocalID(it.Next())) {
				return
			}
		}
	}
}

// And computes the intersection of two bitmaps.
func (b *LocalBitmap) And(other *LocalBitmap) {
	b.rb.And(other.rb)
}

// Or computes the union of two bitmaps.
func (b *LocalBitmap) Or(other *LocalBitmap) {
	b.rb.Or(other.rb)
}

// ToSlice returns the ids in ascending order.
func (b *LocalBitmap) ToSlice() []core.LocalID {
	out := make([]core.LocalID, 0, b.rb.GetCardinality())
	it := b.rb.Iterator()
	for it.HasNext() {
		out = append(out, core.LocalID(it.Next()))
	}
	return out
}
