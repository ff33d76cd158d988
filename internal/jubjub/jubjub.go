// Package jubjub wraps the Jubjub twisted Edwards curve that gnark-crypto
// exposes over the BLS12-381 scalar field. Jubjub's base field (gnark-crypto's
// bls12-381/fr.Element) is the circuit field Fq that the SNARK circuits
// operate in; Jubjub's own subgroup order is the scalar field Fr used for
// spending keys and randomizers. Every fixed generator used both inside and
// outside the circuits is defined exactly once in this package, so in-circuit
// and off-circuit code can never drift onto different points.
package jubjub

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"

	"github.com/iron-fish/sapling-go/ironerr"
)

// BaseElement is an element of Fq, the base field of Jubjub and the native
// field of the SNARK circuits (gnark-crypto's bls12-381 scalar field).
type BaseElement = fr.Element

// curve caches the twisted Edwards curve parameters (A, D, cofactor, order,
// base point) so every generator and every membership check agrees with the
// in-circuit gadget, which pulls the same parameters from
// twistededwards.GetEdwardsCurve().
var curve = twistededwards.GetEdwardsCurve()

// Order returns the order of the prime-order Jubjub subgroup (Fr's modulus).
func Order() *big.Int {
	o := new(big.Int).Set(&curve.Order)
	return o
}

// Scalar is an element of Fr, the Jubjub subgroup order: spending keys,
// nullifier-deriving keys, commitment and value-commitment randomness, and
// signature nonces all live in this field.
type Scalar struct {
	v big.Int
}

// ScalarFromWideBytes performs the wide reduction needed when deriving
// ask/nsk/ivk-adjacent scalars: interpret up to 64 bytes as a little-endian
// integer and reduce modulo the subgroup order.
func ScalarFromWideBytes(b []byte) Scalar {
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	x := new(big.Int).SetBytes(rev)
	x.Mod(x, Order())
	return Scalar{v: *x}
}

// RandomScalar draws a uniformly random element of Fr from a CSPRNG.
func RandomScalar() (Scalar, error) {
	x, err := rand.Int(rand.Reader, Order())
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{v: *x}, nil
}

func (s Scalar) BigInt() *big.Int { return new(big.Int).Set(&s.v) }

func (s Scalar) IsZero() bool { return s.v.Sign() == 0 }

func (s Scalar) Add(o Scalar) Scalar {
	r := new(big.Int).Add(&s.v, &o.v)
	r.Mod(r, Order())
	return Scalar{v: *r}
}

func (s Scalar) Sub(o Scalar) Scalar {
	r := new(big.Int).Sub(&s.v, &o.v)
	r.Mod(r, Order())
	return Scalar{v: *r}
}

func (s Scalar) Mul(o Scalar) Scalar {
	r := new(big.Int).Mul(&s.v, &o.v)
	r.Mod(r, Order())
	return Scalar{v: *r}
}

// Neg returns -s mod the subgroup order.
func (s Scalar) Neg() Scalar {
	r := new(big.Int).Neg(&s.v)
	r.Mod(r, Order())
	return Scalar{v: *r}
}

// Inverse returns s^-1 mod the subgroup order. Used by FROST's Lagrange
// interpolation coefficients; panics if s is zero, since a zero identifier
// or zero coefficient denominator is a caller bug, not a runtime condition.
func (s Scalar) Inverse() Scalar {
	if s.IsZero() {
		panic("jubjub: inverse of zero scalar")
	}
	r := new(big.Int).ModInverse(&s.v, Order())
	return Scalar{v: *r}
}

// ScalarFromUint64 encodes a small non-negative integer as a scalar, used by
// FROST to turn participant identifiers into field elements.
func ScalarFromUint64(v uint64) Scalar {
	return Scalar{v: *new(big.Int).SetUint64(v)}
}

// Bytes returns the little-endian 32-byte canonical encoding.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	b := s.v.Bytes()
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func ScalarFromBytes(b [32]byte) Scalar {
	rev := make([]byte, 32)
	for i, c := range b {
		rev[31-i] = c
	}
	x := new(big.Int).SetBytes(rev)
	x.Mod(x, Order())
	return Scalar{v: *x}
}

// Point is a point on the Jubjub curve in affine form. It may or may not be
// in the prime-order subgroup; callers that require subgroup membership must
// call IsSmallOrder themselves, since small-order points must be rejected
// wherever they appear in untrusted input.
type Point struct {
	inner twistededwards.PointAffine
}

// Identity returns the curve's neutral element.
func Identity() Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return p
}

func (p Point) IsOnCurve() bool {
	return p.inner.IsOnCurve()
}

// IsSmallOrder reports whether p is annihilated by the curve's cofactor,
// i.e. lies in the torsion subgroup rather than the prime-order subgroup
// generators are drawn from. Such points must be rejected wherever they
// appear in untrusted (spend/output/mint) witnesses or wire data.
func (p Point) IsSmallOrder() bool {
	cofactor := new(big.Int).SetUint64(curve.Cofactor.Uint64())
	var cleared twistededwards.PointAffine
	cleared.ScalarMultiplication(&p.inner, cofactor)
	return cleared.X.IsZero() && cleared.Y.IsOne()
}

func (p Point) Add(q Point) Point {
	var r Point
	r.inner.Add(&p.inner, &q.inner)
	return r
}

func (p Point) Neg() Point {
	var r Point
	r.inner.Neg(&p.inner)
	return r
}

func (p Point) ScalarMul(s Scalar) Point {
	var r Point
	r.inner.ScalarMultiplication(&p.inner, s.BigInt())
	return r
}

func (p Point) Equal(q Point) bool {
	return p.inner.X.Equal(&q.inner.X) && p.inner.Y.Equal(&q.inner.Y)
}

// CompressedBytes returns the standard Edwards-compressed encoding: the Y
// coordinate with the sign of X folded into the top bit, matching the
// on-wire `rk`, `cv`, `epk` 32-byte fields.
func (p Point) CompressedBytes() [32]byte {
	buf := p.inner.Marshal()
	var out [32]byte
	copy(out[:], buf)
	return out
}

// UCoordinate returns the X ("u") coordinate alone as a base-field element,
// the only coordinate published for a note commitment.
func (p Point) UCoordinate() BaseElement {
	return p.inner.X
}

// VCoordinate returns the Y ("v") coordinate alone. The wire format only
// ever publishes U (see UCoordinate) or the full compressed point, but
// circuit witnesses need both affine coordinates to populate a generator's
// two-variable in-circuit representation.
func (p Point) VCoordinate() BaseElement {
	return p.inner.Y
}

// PointFromCompressedBytes decodes the 32-byte compressed form, rejecting
// anything that isn't a valid curve point. It does not reject small-order
// points; callers must do that explicitly.
func PointFromCompressedBytes(b [32]byte) (Point, error) {
	var pt twistededwards.PointAffine
	if err := pt.Unmarshal(b[:]); err != nil {
		return Point{}, ironerr.Wrap(ironerr.InvalidData, err)
	}
	if !pt.IsOnCurve() {
		return Point{}, ironerr.New(ironerr.InvalidData)
	}
	return Point{inner: pt}, nil
}

func baseGenerator() Point {
	return Point{inner: curve.Base}
}
