package analyzer

import (
	"strings"

	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
)

// ValidateInput checks that neither user input is blank and returns the
// trimmed hash. The hash is not checked further: the node is the authority on
// what it can look up, and a malformed hash comes back as a node error.
func ValidateInput(endpointURL, txHash string) (string, error) {
	endpointURL = strings.TrimSpace(endpointURL)
	txHash = strings.TrimSpace(txHash)

	switch {
	case endpointURL == "" && txHash == "":
		return "", &Error{Kind: InputMissing, Key: i18n.BothEmpty}
	case endpointURL == "":
		return "", &Error{Kind: InputMissing, Key: i18n.RPCURLEmpty}
	case txHash == "":
		return "", &Error{Kind: InputMissing, Key: i18n.TxHashEmpty}
	}

	return txHash, nil
}
