// Package bucketing maps evaluation identifiers to rollout buckets.
//
// The bucket of an identifier is XXH64 (seed 0) of its bytes modulo Buckets. The hash has
// no per-process seed, so an identifier lands in the same bucket on every node and across
// restarts.
package bucketing

import (
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gitlab.com/devpro_studio/Flargd/src/model/dto"
)

// Buckets is the size of the bucket range [0, Buckets).
const Buckets = 100

func Supplied(value string) dto.Identifier {
	return dto.Identifier{Value: value, Source: dto.IdentifierSupplied}
}

// Generated returns a fresh random identifier for anonymous sampling.
func Generated() dto.Identifier {
	return dto.Identifier{Value: uuid.NewString(), Source: dto.IdentifierGenerated}
}

// Resolve picks the caller's identifier when one was given and generates one otherwise.
func Resolve(identifier string) dto.Identifier {
	if identifier == "" {
		return Generated()
	}

	return Supplied(identifier)
}

func Bucket(value string) int {
	return int(xxhash.Sum64String(value) % Buckets)
}

// Compute resolves the identifier and returns it with its bucket.
func Compute(identifier string) (dto.Identifier, int) {
	id := Resolve(identifier)
	return id, Bucket(id.Value)
}
