package ethereum

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Unit is the number of decimal places between wei and a display unit.
type Unit int32

const (
	Ether Unit = 18
	Gwei  Unit = 9
	Mwei  Unit = 6
)

// ToWei converts an amount expressed in ether to wei.
func ToWei(amount float64) *big.Int {
	return decimal.NewFromFloat(amount).Mul(decimal.New(1, int32(Ether))).BigInt()
}

// FromWei converts a raw wei amount into the given display unit.
func FromWei(wei *big.Int, unit Unit) decimal.Decimal {
	return decimal.NewFromBigInt(wei, 0).Div(decimal.New(1, int32(unit)))
}
