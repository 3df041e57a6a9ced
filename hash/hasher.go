// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package hash declares the Hasher extension point and its built-in
// implementations: xxh3 (default), xxhash and fnv.
//
// The implementation is picked per call from the "hash" or "hasher" parameter
// of the address handed to HashCode.
package hash

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"github.com/tochemey/spi/address"
	"github.com/tochemey/spi/extension"
)

// Hasher implementation names
const (
	XXH3   = "xxh3"
	XXHash = "xxhash"
	FNV    = "fnv"
)

// Hasher defines the hashcode generator interface.
type Hasher interface {
	// HashCode is responsible for generating unsigned, 64-bit hash of provided byte slice.
	// The built-in hashers never fail; the adaptive hasher fails when the
	// address names no registered hasher.
	HashCode(addr *address.Address, key []byte) (uint64, error)
}

type xxh3Hasher struct{}

var _ Hasher = xxh3Hasher{}

// HashCode implementation
func (xxh3Hasher) HashCode(_ *address.Address, key []byte) (uint64, error) {
	return xxh3.Hash(key), nil
}

type xxhashHasher struct{}

var _ Hasher = xxhashHasher{}

// HashCode implementation
func (xxhashHasher) HashCode(_ *address.Address, key []byte) (uint64, error) {
	return xxhash.Sum64(key), nil
}

type fnvHasher struct{}

var _ Hasher = fnvHasher{}

// HashCode implementation
func (fnvHasher) HashCode(_ *address.Address, key []byte) (uint64, error) {
	h := fnv.New64a()
	_, _ = h.Write(key)
	return h.Sum64(), nil
}

// adaptiveHasher picks the hasher named by the address of every call
type adaptiveHasher struct {
	dispatcher *extension.Adaptive[Hasher]
}

var _ Hasher = (*adaptiveHasher)(nil)

func newAdaptiveHasher(dispatcher *extension.Adaptive[Hasher]) Hasher {
	return &adaptiveHasher{dispatcher: dispatcher}
}

// HashCode implementation. Resolution errors such as ErrUnknownExtension
// or ErrNoParameters are returned as they are.
func (a *adaptiveHasher) HashCode(addr *address.Address, key []byte) (uint64, error) {
	var params extension.Parameters
	if addr != nil {
		params = addr
	}

	return extension.Call(a.dispatcher, "HashCode", params, func(h Hasher) (uint64, error) {
		return h.HashCode(addr, key)
	})
}

// Register declares the Hasher extension point on the registry and registers
// the built-in hashers.
func Register(r *extension.Registry) error {
	if _, err := extension.Declare[Hasher](r,
		extension.WithDefaultName(XXH3),
		extension.WithMethod("HashCode", "hash", "hasher"),
		extension.WithAdapter(newAdaptiveHasher)); err != nil {
		return err
	}

	for name, hasher := range map[string]Hasher{
		XXH3:   xxh3Hasher{},
		XXHash: xxhashHasher{},
		FNV:    fnvHasher{},
	} {
		if err := extension.Register[Hasher](r, name, func(*extension.Registry) (Hasher, error) {
			return hasher, nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// Adaptive returns the Hasher that dispatches every call to the hasher named
// by the address parameters.
func Adaptive(r *extension.Registry) (Hasher, error) {
	return extension.AdaptiveOf[Hasher](r)
}

// DefaultHasher returns the default hasher
func DefaultHasher() Hasher {
	return xxh3Hasher{}
}
