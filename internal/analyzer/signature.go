package analyzer

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dmagro/evm-tx-analyzer/internal/format"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/rpc"
)

// SignatureKind selects how the function-signature panel is drawn.
type SignatureKind int

const (
	// SignatureTransfer is a plain value transfer with no call data.
	SignatureTransfer SignatureKind = iota
	// SignatureFunction carries a method id and the raw call data.
	SignatureFunction
	// SignatureUnparsed means the call data could not be decoded.
	SignatureUnparsed
	// SignatureFailed means the panel could not be built at all.
	SignatureFailed
)

func (k SignatureKind) MarshalText() ([]byte, error) {
	switch k {
	case SignatureTransfer:
		return []byte("transfer"), nil
	case SignatureFunction:
		return []byte("function"), nil
	case SignatureUnparsed:
		return []byte("unparsed"), nil
	default:
		return []byte("failed"), nil
	}
}

// Signature is the function-signature panel. No registry lookup is done, so
// every method id is reported as unrecognized.
type Signature struct {
	Kind     SignatureKind `json:"kind"`
	MethodID string        `json:"methodId,omitempty"`
	Amount   string        `json:"amount,omitempty"`
	CallData string        `json:"callData,omitempty"`
	Detail   string        `json:"detail,omitempty"`
}

// methodIDLength is "0x" plus a 4-byte selector.
const methodIDLength = 10

// DecodeSignature builds the panel from the transaction's call data. It
// never fails: problems are recorded on the returned panel.
func DecodeSignature(tx *rpc.Transaction) *Signature {
	if tx == nil {
		return &Signature{Kind: SignatureFailed, Detail: "no transaction"}
	}

	input := tx.Input
	if format.IsEmptyData(&input) || input == "" {
		amount, err := format.FormatEth(tx.Value)
		if err != nil {
			return &Signature{Kind: SignatureFailed, Detail: err.Error()}
		}
		return &Signature{Kind: SignatureTransfer, Amount: amount}
	}

	methodID := input
	if len(methodID) > methodIDLength {
		methodID = methodID[:methodIDLength]
	}

	data, err := hexutil.Decode(input)
	if err == nil && len(data) < 4 {
		err = fmt.Errorf("call data shorter than a selector")
	}
	if err != nil {
		return &Signature{Kind: SignatureUnparsed, MethodID: methodID, Detail: err.Error()}
	}

	return &Signature{
		Kind:     SignatureFunction,
		MethodID: hexutil.Encode(data[:4]),
		CallData: input,
	}
}

// Lines renders the panel in loc's language.
func (s *Signature) Lines(loc i18n.Localizer) []string {
	switch s.Kind {
	case SignatureTransfer:
		return []string{
			loc.T(i18n.ETHTransfer),
			fmt.Sprintf("%s: %s ETH", loc.T(i18n.Amount), s.Amount),
		}
	case SignatureFunction:
		return []string{
			fmt.Sprintf("%s: %s (%s)", loc.T(i18n.FunctionLabel), s.MethodID, loc.T(i18n.UnrecognizedFunction)),
			loc.T(i18n.CallData),
			s.CallData,
		}
	case SignatureUnparsed:
		return []string{loc.With(i18n.CantParseFunction, s.MethodID)}
	default:
		return []string{loc.With(i18n.CantShowFunction, s.Detail)}
	}
}
