package query

import (
	"context"

	"github.com/goliatone/go-payhook/core"
)

// TransactionReader fetches the processor's record for a reference without
// asserting anything about a claimed amount.
type TransactionReader interface {
	GetTransaction(ctx context.Context, reference string) (core.Verification, error)
}

type GetTransactionQuery struct {
	reader TransactionReader
}

func NewGetTransactionQuery(reader TransactionReader) *GetTransactionQuery {
	return &GetTransactionQuery{reader: reader}
}

func (q *GetTransactionQuery) Query(ctx context.Context, msg GetTransactionMessage) (core.Verification, error) {
	if q == nil || q.reader == nil {
		return core.Verification{}, queryDependencyError("query: transaction reader is required")
	}
	return q.reader.GetTransaction(ctx, msg.Reference)
}
