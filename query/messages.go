package query

import (
	"fmt"
	"strings"
)

const TypeGetTransaction = "payhook.query.transaction.get"

type GetTransactionMessage struct {
	Reference string
}

func (GetTransactionMessage) Type() string { return TypeGetTransaction }

func (m GetTransactionMessage) Validate() error {
	if strings.TrimSpace(m.Reference) == "" {
		return fmt.Errorf("query: transaction reference is required")
	}
	return nil
}
