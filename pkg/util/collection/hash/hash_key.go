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

import (
	"hash/fnv"
)

// Hasher provides a generic definition of a hashing function suitable for use
// within a hash map.  Since collisions are permitted, equality is required in
// addition to the hashcode itself.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Combine folds a sequence of 64-bit words into a single hashcode using FNV1a.
// The order of words is significant.
func Combine(words ...uint64) uint64 {
	hash := offset64
	//
	for _, w := range words {
		hash ^= w
		hash *= prime64
	}
	//
	return hash
}

// String generates a 64-bit hashcode for a given string.
func String(s string) uint64 {
	hash := fnv.New64a()
	// NOTE: writes to an fnv hash never fail.
	_, _ = hash.Write([]byte(s))
	//
	return hash.Sum64()
}
