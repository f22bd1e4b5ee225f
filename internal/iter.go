// Package internal holds helpers shared by the la16 packages.
package internal

import (
	"iter"
)

// Concat2 chains key/value sequences, such as the predefined constants of
// several packages, into a single sequence.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
