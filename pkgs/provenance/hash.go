package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/Taly-projects/taly-lang/pkgs/ir"
	"golang.org/x/crypto/blake2b"
)

// MarshalBinary produces the deterministic CBOR encoding of cm, using
// canonical encoding options so the same module always encodes to the
// same bytes regardless of Go's map-iteration order (not that
// CanonicalModule holds any maps, but the options are the same ones
// core/planfmt/canonical.go reaches for, and cost nothing to keep).
func (cm CanonicalModule) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("provenance: creating CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(cm)
	if err != nil {
		return nil, fmt.Errorf("provenance: CBOR encoding: %w", err)
	}
	return data, nil
}

// Fingerprint computes a module's build provenance hash: the checked IR is
// canonicalized, CBOR-encoded, SHA-256 hashed (mirroring the teacher's
// CanonicalPlan.Hash), and the digest is then run through BLAKE2b-256 to
// produce the short hex fingerprint embedded in the `// talyc:build <hash>`
// comment — the same content-addressing primitive the teacher's
// core/sdk/secret/idfactory.go uses for BLAKE2b value hashes.
func Fingerprint(out ir.Output) (string, error) {
	cm := Canonicalize(out)
	data, err := cm.MarshalBinary()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	fp := blake2b.Sum256(sum[:])

	// 16 bytes (32 hex chars) is plenty of collision resistance for a
	// human-readable provenance comment; the full digest carries no
	// additional meaning since it's never compared against anything.
	return hex.EncodeToString(fp[:16]), nil
}

// BuildComment renders the `// talyc:build <hash>` line the emitter stamps
// atop every generated header/source file.
func BuildComment(out ir.Output) (string, error) {
	hash, err := Fingerprint(out)
	if err != nil {
		return "", err
	}
	return "// talyc:build " + hash, nil
}
