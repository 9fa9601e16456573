package model

// ModerationVerdict is the outcome of screening one normalized transcript.
// When Flagged is false the pipeline stops and the verdict is discarded;
// no checksum is computed for clean content.
type ModerationVerdict struct {
	Flagged  bool   `json:"flagged"`
	Subject  string `json:"subject"`
	Summary  string `json:"summary"`
	Headline string `json:"headline"`
}

// AnchorReceipt proves that a checksum was accepted and confirmed by the
// ledger. Its absence means the memory is not attested.
type AnchorReceipt struct {
	TxHash string `json:"txHash"`
}
