package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"smarticket-api/logger"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Chain wraps a remote JSON-RPC Ethereum-compatible endpoint. Every call
// opens a fresh session scoped to the request, authorised by the wallet key
// the caller supplied.
type Chain interface {
	Deploy(ctx context.Context, walletKey string, priceWei *big.Int) (string, *Receipt, error)
	Withdraw(ctx context.Context, walletKey, contractAddress string) (*Receipt, error)
	Balance(ctx context.Context, walletKey, contractAddress string) (*big.Int, error)
	Mint(ctx context.Context, walletKey, contractAddress string, priceWei *big.Int) (string, error)
	OwnerOf(ctx context.Context, walletKey, contractAddress string, tokenID int) (string, error)
}

// Receipt is the confirmation record of a mined transaction.
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	ContractAddress string `json:"contract_address,omitempty"`
	BlockNumber     uint64 `json:"block_number"`
	GasUsed         uint64 `json:"gas_used"`
	Status          uint64 `json:"status"`
}

type chain struct {
	rpcURL   string
	chainID  *big.Int
	bytecode []byte
}

func New(rpcURL string, chainID int64, bytecode []byte) Chain {
	return &chain{
		rpcURL:   rpcURL,
		chainID:  big.NewInt(chainID),
		bytecode: bytecode,
	}
}

func (c *chain) Deploy(ctx context.Context, walletKey string, priceWei *big.Int) (string, *Receipt, error) {
	client, auth, err := c.session(ctx, walletKey)
	if err != nil {
		return "", nil, fmt.Errorf("deploy: %w", err)
	}
	defer client.Close()

	parsed, err := contractABI()
	if err != nil {
		return "", nil, fmt.Errorf("deploy: error parsing contract abi: %w", err)
	}

	address, tx, _, err := bind.DeployContract(auth, parsed, c.bytecode, client, priceWei)
	if err != nil {
		return "", nil, fmt.Errorf("deploy: error deploying contract: %w", err)
	}
	logger.Infof(ctx, "deploy: submitted deployment %s", tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return "", nil, fmt.Errorf("deploy: error waiting for receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", nil, fmt.Errorf("deploy: deployment transaction %s reverted", tx.Hash().Hex())
	}

	return address.Hex(), toReceipt(receipt), nil
}

func (c *chain) Withdraw(ctx context.Context, walletKey, contractAddress string) (*Receipt, error) {
	client, auth, err := c.session(ctx, walletKey)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	defer client.Close()

	contract, err := c.bound(contractAddress, client)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	tx, err := contract.Transact(auth, "withdraw")
	if err != nil {
		return nil, fmt.Errorf("withdraw: error sending transaction: %w", err)
	}
	logger.Infof(ctx, "withdraw: submitted transaction %s", tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("withdraw: error waiting for receipt: %w", err)
	}

	return toReceipt(receipt), nil
}

func (c *chain) Balance(ctx context.Context, walletKey, contractAddress string) (*big.Int, error) {
	client, _, err := c.session(ctx, walletKey)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	defer client.Close()

	contract, err := c.bound(contractAddress, client)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	var out []interface{}
	err = contract.Call(&bind.CallOpts{Context: ctx}, &out, "contractBalance")
	if err != nil {
		return nil, fmt.Errorf("balance: error querying contract balance: %w", err)
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balance: unexpected result type %T", out[0])
	}

	return balance, nil
}

// Mint submits the mint transaction paying priceWei and returns its hash
// without waiting for inclusion.
func (c *chain) Mint(ctx context.Context, walletKey, contractAddress string, priceWei *big.Int) (string, error) {
	client, auth, err := c.session(ctx, walletKey)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	defer client.Close()

	contract, err := c.bound(contractAddress, client)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}

	auth.Value = priceWei
	tx, err := contract.Transact(auth, "safeMint")
	if err != nil {
		return "", fmt.Errorf("mint: error sending transaction: %w", err)
	}
	logger.Infof(ctx, "mint: submitted transaction %s", tx.Hash().Hex())

	return tx.Hash().Hex(), nil
}

func (c *chain) OwnerOf(ctx context.Context, walletKey, contractAddress string, tokenID int) (string, error) {
	client, _, err := c.session(ctx, walletKey)
	if err != nil {
		return "", fmt.Errorf("ownerOf: %w", err)
	}
	defer client.Close()

	contract, err := c.bound(contractAddress, client)
	if err != nil {
		return "", fmt.Errorf("ownerOf: %w", err)
	}

	var out []interface{}
	err = contract.Call(&bind.CallOpts{Context: ctx}, &out, "ownerOf", big.NewInt(int64(tokenID)))
	if err != nil {
		return "", fmt.Errorf("ownerOf: error querying token owner: %w", err)
	}

	owner, ok := out[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("ownerOf: unexpected result type %T", out[0])
	}

	return owner.Hex(), nil
}

func (c *chain) session(ctx context.Context, walletKey string) (*ethclient.Client, *bind.TransactOpts, error) {
	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("session: error connecting to %s: %w", c.rpcURL, err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(walletKey, "0x"))
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("session: error reading wallet key: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("session: error building transactor: %w", err)
	}
	auth.Context = ctx

	return client, auth, nil
}

func (c *chain) bound(contractAddress string, client *ethclient.Client) (*bind.BoundContract, error) {
	parsed, err := contractABI()
	if err != nil {
		return nil, fmt.Errorf("bound: error parsing contract abi: %w", err)
	}

	return bind.NewBoundContract(common.HexToAddress(contractAddress), parsed, client, client, client), nil
}

func toReceipt(r *types.Receipt) *Receipt {
	receipt := &Receipt{
		TransactionHash: r.TxHash.Hex(),
		GasUsed:         r.GasUsed,
		Status:          r.Status,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	if r.ContractAddress != (common.Address{}) {
		receipt.ContractAddress = r.ContractAddress.Hex()
	}
	return receipt
}
