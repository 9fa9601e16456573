package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

var (
	// ErrNoSigner is returned when no signing key is configured
	ErrNoSigner = errors.New("ledger signing key not configured")

	// ErrRejected is returned when the ledger rejects or reverts the
	// anchoring transaction
	ErrRejected = errors.New("ledger rejected transaction")

	// ErrConfirmTimeout is returned when on-ledger confirmation does not
	// arrive within the configured wait policy
	ErrConfirmTimeout = errors.New("ledger confirmation timed out")
)

const (
	defaultGasLimit       = 120000
	defaultConfirmTimeout = 2 * time.Minute
)

// recordChecksumSelector is the 4-byte function selector of the verifier
// contract's recordChecksum(bytes32) method
var recordChecksumSelector = crypto.Keccak256([]byte("recordChecksum(bytes32)"))[:4]

// Client anchors checksums on an EVM-compatible ledger by submitting a
// recordChecksum transaction to the verifier contract and waiting for
// on-ledger confirmation.
type Client struct {
	rpc            *ethclient.Client
	key            *ecdsa.PrivateKey
	from           common.Address
	contract       common.Address
	chainID        *big.Int
	gasLimit       uint64
	confirmTimeout time.Duration
}

var _ interfaces.Ledger = &Client{}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithGasLimit overrides the fixed gas limit for anchor transactions
func WithGasLimit(limit uint64) Option {
	return func(c *Client) {
		c.gasLimit = limit
	}
}

// WithConfirmTimeout overrides how long Anchor waits for confirmation
func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.confirmTimeout = d
	}
}

// New creates a ledger client. privateKeyHex is the hex-encoded signing
// key; an empty key yields ErrNoSigner since anchoring is impossible
// without a signer.
func New(rpcURL, privateKeyHex, contractAddr string, chainID int64, opts ...Option) (*Client, error) {
	if privateKeyHex == "" {
		return nil, goerr.Wrap(ErrNoSigner, "private key is required")
	}
	if rpcURL == "" {
		return nil, goerr.New("ledger RPC URL is required")
	}
	if !common.IsHexAddress(contractAddr) {
		return nil, goerr.New("invalid verifier contract address", goerr.V("address", contractAddr))
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, goerr.Wrap(ErrNoSigner, "failed to parse private key")
	}

	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to ledger RPC", goerr.V("url", rpcURL))
	}

	c := &Client{
		rpc:            rpc,
		key:            key,
		from:           crypto.PubkeyToAddress(key.PublicKey),
		contract:       common.HexToAddress(contractAddr),
		chainID:        big.NewInt(chainID),
		gasLimit:       defaultGasLimit,
		confirmTimeout: defaultConfirmTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Anchor submits the checksum to the verifier contract and waits for the
// transaction to be mined. The receipt is returned only for a confirmed,
// non-reverted transaction; the pipeline never retries a failed anchor.
func (c *Client) Anchor(ctx context.Context, checksum model.Checksum) (*model.AnchorReceipt, error) {
	sum, err := checksum.Bytes32()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid checksum for anchoring")
	}

	nonce, err := c.rpc.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, goerr.Wrap(ErrRejected, "failed to fetch account nonce", goerr.V("cause", err.Error()))
	}

	gasPrice, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrRejected, "failed to fetch gas price", goerr.V("cause", err.Error()))
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      c.gasLimit,
		GasPrice: gasPrice,
		Data:     recordChecksumCalldata(sum),
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign anchor transaction")
	}

	if err := c.rpc.SendTransaction(ctx, signed); err != nil {
		return nil, goerr.Wrap(ErrRejected, "ledger rejected anchor transaction",
			goerr.V("cause", err.Error()),
			goerr.V("checksum", checksum),
		)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.rpc, signed)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, goerr.Wrap(ErrConfirmTimeout, "anchor transaction not confirmed in time",
				goerr.V("txHash", signed.Hash().Hex()),
				goerr.V("timeout", c.confirmTimeout),
			)
		}
		return nil, goerr.Wrap(err, "failed to wait for anchor confirmation",
			goerr.V("txHash", signed.Hash().Hex()),
		)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, goerr.Wrap(ErrRejected, "anchor transaction reverted",
			goerr.V("txHash", receipt.TxHash.Hex()),
		)
	}

	return &model.AnchorReceipt{TxHash: receipt.TxHash.Hex()}, nil
}

// recordChecksumCalldata encodes the recordChecksum(bytes32) call
func recordChecksumCalldata(sum [32]byte) []byte {
	data := make([]byte, 0, len(recordChecksumSelector)+len(sum))
	data = append(data, recordChecksumSelector...)
	data = append(data, sum[:]...)
	return data
}
