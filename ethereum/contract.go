package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ABI of the per-event ticket-sale contract. The compiled bytecode is not
// embedded; it is read from the path configured at startup so the contract
// can be rebuilt without recompiling the API.
const smarTicketABI = `[
	{"inputs":[{"internalType":"uint256","name":"price","type":"uint256"}],"stateMutability":"payable","type":"constructor"},
	{"inputs":[],"name":"safeMint","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"contractBalance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

func contractABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(smarTicketABI))
}

// DecodeBytecode turns the hex text of a compiled contract into bytes.
func DecodeBytecode(hex string) []byte {
	return common.FromHex(hex)
}
