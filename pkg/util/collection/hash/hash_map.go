// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package hash

// Map defines a generic map implementation backed by a Go map.  This is a true
// hashtable in that collisions are handle gracefully using buckets, rather than
// simply discarding them.
type Map[K Hasher[K], V any] struct {
	// maps hashcodes to *buckets* of items.
	buckets map[uint64]mapBucket[K, V]
	// number of unique keys
	size uint
}

// NewMap creates a new Map with a given underlying capacity.
func NewMap[K Hasher[K], V any](size uint) *Map[K, V] {
	buckets := make(map[uint64]mapBucket[K, V], size)
	return &Map[K, V]{buckets, 0}
}

// Size returns the number of unique keys stored in this map.
func (p *Map[K, V]) Size() uint {
	return p.size
}

// MaxBucket returns the size of the largest bucket.  This is primarily useful
// for judging the quality of a hash function.
func (p *Map[K, V]) MaxBucket() uint {
	m := uint(0)
	for _, b := range p.buckets {
		m = max(m, uint(len(b.keys)))
	}

	return m
}

// Insert a new item into this map, returning true if the key was already
// contained (in which case its value is overwritten) and false otherwise.
func (p *Map[K, V]) Insert(key K, value V) bool {
	hash := key.Hash()
	bucket := p.buckets[hash]
	// Overwrite existing entry (if any)
	for i, k := range bucket.keys {
		if key.Equals(k) {
			bucket.values[i] = value
			return true
		}
	}
	// Append item
	bucket.keys = append(bucket.keys, key)
	bucket.values = append(bucket.values, value)
	p.buckets[hash] = bucket
	p.size++
	//
	return false
}

// ContainsKey checks whether the given key is contained within this map, or not.
func (p *Map[K, V]) ContainsKey(key K) bool {
	_, ok := p.Get(key)
	return ok
}

// Get the value associated with a given key, or return false if the key is not
// present.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	//
	if bucket, ok := p.buckets[key.Hash()]; ok {
		for i, k := range bucket.keys {
			if key.Equals(k) {
				return bucket.values[i], true
			}
		}
	}
	//
	return empty, false
}

type mapBucket[K Hasher[K], V any] struct {
	keys   []K
	values []V
}
